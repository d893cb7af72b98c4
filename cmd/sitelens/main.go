package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath   string
	outputFormat string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sitelens",
		Short: "SiteLens website-analysis console",
		Long:  `SiteLens is a web console and CLI for a remote website-analysis service.`,
	}

	// Get default config path from env var if set
	defaultConfig := ""
	if envPath := os.Getenv("SITELENS_CONFIG"); envPath != "" {
		defaultConfig = envPath
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfig, "Path to configuration file (env: SITELENS_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(analysesCmd())
	rootCmd.AddCommand(hashPasswordCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
