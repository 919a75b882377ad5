package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/readmeio/render-exporter/pkg/collector"
	"github.com/readmeio/render-exporter/pkg/config"
	"github.com/readmeio/render-exporter/pkg/render"
	"github.com/readmeio/render-exporter/pkg/resources"
	"github.com/readmeio/render-exporter/pkg/server"
	"github.com/readmeio/render-exporter/pkg/server/middleware"
	"github.com/readmeio/render-exporter/pkg/telemetry"
	"github.com/readmeio/render-exporter/pkg/telemetry/tracing"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the exporter server",
	Long: `Start the exporter server with the specified configuration.

The server listens on the configured address and serves the Render usage
metrics feed at /metrics. Each scrape queries the Render API for the
account's resources and their recent usage metrics.

Examples:
  # Start with environment configuration
  RENDER_API_KEY=rnd_xxx render-exporter run

  # Start with a config file
  render-exporter run --config /etc/render-exporter/config.yaml

  # Override listen address
  render-exporter run --listen 0.0.0.0:9156

  # Validate config without starting the server
  render-exporter run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}

	setupLogging(cfg.Telemetry.Logging)

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	// Render API client
	client := render.NewClient(render.ClientConfig{
		APIKey:     cfg.Render.APIKey,
		BaseURL:    cfg.Render.BaseURL,
		Timeout:    cfg.Render.QueryTimeout,
		MaxRetries: cfg.Render.MaxRetries,
	})
	defer client.Close()

	// Self-observation metrics
	registry := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(registry)

	// Tracing
	tracer := tracing.Noop()
	if cfg.Telemetry.Tracing.Enabled {
		tracer, err = tracing.New(tracing.Config{
			Enabled:     true,
			Endpoint:    cfg.Telemetry.Tracing.Endpoint,
			SampleRatio: cfg.Telemetry.Tracing.SampleRatio,
			ServiceName: "render-exporter",
		})
		if err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
		defer tracer.Shutdown(context.Background())
		slog.Info("tracing enabled", "endpoint", cfg.Telemetry.Tracing.Endpoint)
	}

	// Resource resolution, either straight from the API or through the cache
	fetcher := resources.NewFetcher(client, cfg.Render.NameFilter)

	var resolver collector.ResourceResolver = fetcher
	if !cfg.Cache.Disabled {
		var store resources.Store
		if cfg.Cache.SnapshotPath != "" {
			store, err = resources.NewSQLiteStore(cfg.Cache.SnapshotPath)
			if err != nil {
				return fmt.Errorf("failed to open snapshot store: %w", err)
			}
			defer store.Close()
			slog.Info("snapshot persistence enabled", "path", cfg.Cache.SnapshotPath)
		}

		cache := resources.NewCache(fetcher.Fetch, resources.CacheOptions{
			MaxAge:  cfg.Cache.MaxAge,
			Store:   store,
			Metrics: metrics,
		})
		resolver = cache

		if cfg.Cache.RefreshSchedule != "" {
			scheduler := resources.NewScheduler(cache, cfg.Cache.RefreshSchedule)
			if err := scheduler.Start(cmd.Context()); err != nil {
				return fmt.Errorf("failed to start refresh scheduler: %w", err)
			}
			defer scheduler.Stop()
			slog.Info("cache refresh scheduler started", "schedule", cfg.Cache.RefreshSchedule)
		}
	}

	// Scrape handler and auth gate
	families := collector.Families(client, collector.FamilyConfig{
		BatchSize:    cfg.Render.BatchSize,
		QueryTimeout: cfg.Render.QueryTimeout,
	})
	scrapeHandler := collector.NewHandler(resolver, families, metrics, tracer)

	authenticator := middleware.NewAuthenticator(middleware.Credentials{
		BearerToken: cfg.Auth.BearerToken,
		Username:    cfg.Auth.Username,
		Password:    cfg.Auth.Password,
	})

	// Hot-reload scrape credentials when the config file changes
	if cfgFile != "" {
		watcher, err := config.NewWatcher(cfgFile, func(newCfg *config.Config) {
			authenticator.Update(middleware.Credentials{
				BearerToken: newCfg.Auth.BearerToken,
				Username:    newCfg.Auth.Username,
				Password:    newCfg.Auth.Password,
			})
			slog.Info("scrape credentials reloaded")
		})
		if err != nil {
			slog.Warn("config watcher unavailable", "error", err)
		} else if err := watcher.Start(); err != nil {
			slog.Warn("config watcher failed to start", "error", err)
		} else {
			defer watcher.Stop()
		}
	}

	printBanner(cfg)

	srv := server.New(cfg.Server, cfg.Telemetry.Metrics, scrapeHandler, authenticator, registry)
	return srv.Start(cmd.Context())
}

func setupLogging(cfg config.LoggingConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func printBanner(cfg *config.Config) {
	fmt.Printf("Render Exporter v%s\n", Version)
	fmt.Println("✓ Configuration loaded")
	fmt.Printf("✓ Feed endpoint: http://%s/metrics\n", cfg.Server.ListenAddress)
	if !cfg.Telemetry.Metrics.Disabled {
		fmt.Printf("✓ Self-metrics endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	if cfg.Render.NameFilter != "" {
		slog.Debug("service name filter active", "filter", cfg.Render.NameFilter)
	}
	if !cfg.Cache.Disabled {
		slog.Debug("resource cache enabled", "max_age", cfg.Cache.MaxAge)
	}
}
