package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/readmeio/render-exporter/pkg/config"
	"github.com/readmeio/render-exporter/pkg/render"
	"github.com/readmeio/render-exporter/pkg/resources"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify API access and list monitored resources",
	Long: `Check loads the configuration, authenticates against the Render API,
and prints how many services, key value instances, and Postgres databases
the exporter would monitor. Useful for validating an API key before
deploying the exporter.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client := render.NewClient(render.ClientConfig{
		APIKey:     cfg.Render.APIKey,
		BaseURL:    cfg.Render.BaseURL,
		Timeout:    cfg.Render.QueryTimeout,
		MaxRetries: cfg.Render.MaxRetries,
	})
	defer client.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	fetcher := resources.NewFetcher(client, cfg.Render.NameFilter)
	snapshot, err := fetcher.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to list resources: %w", err)
	}

	fmt.Println("✓ Render API reachable")
	fmt.Printf("✓ Services: %d\n", len(snapshot.Services))
	fmt.Printf("✓ Key value instances: %d\n", len(snapshot.KeyValues))
	fmt.Printf("✓ Postgres databases: %d\n", len(snapshot.Databases))
	if cfg.Render.NameFilter != "" {
		fmt.Printf("  (service name filter: %q)\n", cfg.Render.NameFilter)
	}
	return nil
}
