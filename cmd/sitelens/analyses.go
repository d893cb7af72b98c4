package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/SiteLensProject/sitelens/pkg/analyzer"
	"github.com/SiteLensProject/sitelens/pkg/config"
)

func analysesCmd() *cobra.Command {
	var page, limit int
	var urlFilter string

	cmd := &cobra.Command{
		Use:   "analyses",
		Short: "List past analyses recorded by the service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			client := newAnalyzerClient(cfg)

			resp, err := client.List(context.Background(), page, limit, urlFilter)
			if err != nil {
				return fmt.Errorf("failed to list analyses: %w", err)
			}

			if len(resp.Analyses) == 0 {
				fmt.Println("No analyses found")
				return nil
			}

			switch outputFormat {
			case "json":
				return outputJSON(resp.Analyses)
			case "table":
				return outputTable(resp.Analyses)
			default:
				return fmt.Errorf("unsupported output format: %s", outputFormat)
			}
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "Page number")
	cmd.Flags().IntVar(&limit, "limit", 50, "Results per page")
	cmd.Flags().StringVar(&urlFilter, "url-filter", "", "Filter by URL pattern")

	return cmd
}

func outputJSON(analyses []analyzer.AnalysisResponse) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(analyses)
}

func outputTable(analyses []analyzer.AnalysisResponse) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Append([]string{"Analysis ID", "URL", "Company", "Status", "Created"})

	for _, a := range analyses {
		table.Append([]string{
			a.AnalysisID,
			a.URL,
			a.CompanyName,
			a.Status,
			a.CreatedAt,
		})
	}

	table.Render()
	return nil
}
