package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load builds a configuration from an optional YAML file plus environment
// variable overrides, in that order. path may be empty, in which case the
// environment is the only source beyond defaults.
//
// The loading sequence is:
//  1. built-in defaults
//  2. YAML file (if path is non-empty)
//  3. environment variable overrides
//  4. validation
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)
	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnvOverrides applies environment variable overrides. Variables use the
// RENDER_EXPORTER_SECTION_FIELD convention; the credential additionally reads
// the conventional RENDER_API_KEY.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("RENDER_API_KEY"); val != "" {
		cfg.Render.APIKey = val
	}
	if val := os.Getenv("RENDER_EXPORTER_ENVIRONMENT"); val != "" {
		cfg.Environment = val
	}

	// Server overrides
	if val := os.Getenv("RENDER_EXPORTER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("RENDER_EXPORTER_PORT"); val != "" {
		cfg.Server.ListenAddress = "0.0.0.0:" + val
	}
	if val := os.Getenv("RENDER_EXPORTER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("RENDER_EXPORTER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("RENDER_EXPORTER_SHUTDOWN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}

	// Render API overrides
	if val := os.Getenv("RENDER_EXPORTER_API_BASE_URL"); val != "" {
		cfg.Render.BaseURL = val
	}
	if val := os.Getenv("RENDER_EXPORTER_NAME_FILTER"); val != "" {
		cfg.Render.NameFilter = val
	}
	if val := os.Getenv("RENDER_EXPORTER_BATCH_SIZE"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Render.BatchSize = i
		}
	}
	if val := os.Getenv("RENDER_EXPORTER_QUERY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Render.QueryTimeout = d
		}
	}
	if val := os.Getenv("RENDER_EXPORTER_MAX_RETRIES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Render.MaxRetries = i
		}
	}

	// Auth overrides
	if val := os.Getenv("RENDER_EXPORTER_BEARER_TOKEN"); val != "" {
		cfg.Auth.BearerToken = val
	}
	if val := os.Getenv("RENDER_EXPORTER_USERNAME"); val != "" {
		cfg.Auth.Username = val
	}
	if val := os.Getenv("RENDER_EXPORTER_PASSWORD"); val != "" {
		cfg.Auth.Password = val
	}

	// Cache overrides
	if val := os.Getenv("RENDER_EXPORTER_CACHE_DISABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Cache.Disabled = b
		}
	}
	if val := os.Getenv("RENDER_EXPORTER_CACHE_MAX_AGE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Cache.MaxAge = d
		}
	}
	if val := os.Getenv("RENDER_EXPORTER_CACHE_SNAPSHOT_PATH"); val != "" {
		cfg.Cache.SnapshotPath = val
	}
	if val := os.Getenv("RENDER_EXPORTER_CACHE_REFRESH_SCHEDULE"); val != "" {
		cfg.Cache.RefreshSchedule = val
	}

	// Telemetry overrides
	if val := os.Getenv("RENDER_EXPORTER_LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("RENDER_EXPORTER_LOG_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("RENDER_EXPORTER_METRICS_DISABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Disabled = b
		}
	}
	if val := os.Getenv("RENDER_EXPORTER_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
	if val := os.Getenv("RENDER_EXPORTER_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("RENDER_EXPORTER_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := os.Getenv("RENDER_EXPORTER_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
}
