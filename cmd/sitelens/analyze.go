package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/SiteLensProject/sitelens/pkg/analyzer"
	"github.com/SiteLensProject/sitelens/pkg/config"
)

func analyzeCmd() *cobra.Command {
	var skipLogo, skipColors, skipBrand bool
	var fields []string

	cmd := &cobra.Command{
		Use:   "analyze <url>",
		Short: "Analyze a website and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			client := newAnalyzerClient(cfg)

			target := args[0]
			if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
				target = "https://" + target
			}

			req := analyzer.DefaultRequest(target)
			req.IncludeLogo = !skipLogo
			req.IncludeColors = !skipColors
			req.IncludeBrand = !skipBrand
			req.AdditionalFields = fields
			req.SessionID = "sitelens-cli"

			spinner, _ := pterm.DefaultSpinner.Start("Analyzing website, this may take a few minutes...")
			result := client.Analyze(context.Background(), req)
			spinner.Stop()

			if outputFormat == "json" {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			renderResult(result)

			if result.Failed() {
				return fmt.Errorf("analysis failed: %s", result.Error)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipLogo, "no-logo", false, "Skip logo extraction")
	cmd.Flags().BoolVar(&skipColors, "no-colors", false, "Skip color palette extraction")
	cmd.Flags().BoolVar(&skipBrand, "no-brand", false, "Skip brand voice extraction")
	cmd.Flags().StringSliceVar(&fields, "field", nil, "Additional field to extract (repeatable)")

	return cmd
}

func newAnalyzerClient(cfg *config.Config) *analyzer.Client {
	return analyzer.New(analyzer.Config{
		BaseURL: cfg.Analyzer.BaseURL,
		APIKey:  cfg.Analyzer.APIKey,
		OAuth:   oauthConfig(cfg),
		Timeout: cfg.Analyzer.Timeout,
	}, nil)
}

func renderResult(result *analyzer.AnalysisResponse) {
	pterm.DefaultHeader.WithBackgroundStyle(pterm.NewStyle(pterm.BgDarkGray)).
		WithTextStyle(pterm.NewStyle(pterm.FgLightCyan, pterm.Bold)).
		Println(result.URL)

	if result.Failed() {
		pterm.Error.Println(result.Error)
		return
	}

	if result.ProcessingTime > 0 {
		pterm.Info.Printfln("Processed in %.1fs", result.ProcessingTime)
	}

	if result.CompanyName != "" {
		pterm.DefaultSection.Println(result.CompanyName)
	}
	if result.CompanyInfo != "" {
		pterm.Println(result.CompanyInfo)
	}
	if result.BrandIdentity != "" {
		pterm.Println(result.BrandIdentity)
	}
	if result.LogoURL != "" {
		pterm.Info.Printfln("Logo: %s", result.LogoURL)
	}

	if len(result.ColorPalette) > 0 {
		pterm.DefaultSection.Println("Color palette")
		paletteData := pterm.TableData{{"Name", "Hex", "Usage"}}
		for _, c := range result.ColorPalette {
			paletteData = append(paletteData, []string{c.Name, c.Hex, c.Usage})
		}
		pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(paletteData).Render()
	}

	if len(result.BrandVoice) > 0 {
		pterm.DefaultSection.Println("Brand voice")
		printSortedMap(result.BrandVoice)
	}

	if len(result.AdditionalInfo) > 0 {
		pterm.DefaultSection.Println("Additional fields")
		printSortedMap(result.AdditionalInfo)
	}
}

func printSortedMap(m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		pterm.Printfln("%s: %v", pterm.Bold.Sprint(k), m[k])
	}
}
