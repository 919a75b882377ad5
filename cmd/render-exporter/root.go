package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "render-exporter",
	Short: "Prometheus exporter for Render.com usage metrics",
	Long: `Render Exporter polls the Render API and serves a Prometheus text feed.

Each scrape of /metrics lists the account's services, key value instances,
and Postgres databases, queries their recent usage metrics in batches, and
renders the results in Prometheus exposition format.

For more information, visit: https://github.com/readmeio/render-exporter`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (optional)")
}
