package config

import "time"

// Default values applied to unset fields.
const (
	DefaultListenAddress   = "0.0.0.0:9156"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 120 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultBatchSize    = 50
	DefaultQueryTimeout = 30 * time.Second
	DefaultMaxRetries   = 2

	DefaultCacheMaxAge = 5 * time.Minute

	DefaultMetricsPath = "/telemetry"
)

// NewDefaultConfig returns a configuration with every default applied and no
// credential set.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills unset fields with default values.
func ApplyDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "production"
	}

	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout <= 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Render.BatchSize <= 0 {
		cfg.Render.BatchSize = DefaultBatchSize
	}
	if cfg.Render.QueryTimeout <= 0 {
		cfg.Render.QueryTimeout = DefaultQueryTimeout
	}
	if cfg.Render.MaxRetries < 0 {
		cfg.Render.MaxRetries = 0
	} else if cfg.Render.MaxRetries == 0 {
		cfg.Render.MaxRetries = DefaultMaxRetries
	}

	if cfg.Cache.MaxAge <= 0 {
		cfg.Cache.MaxAge = DefaultCacheMaxAge
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = "info"
	}
	if cfg.Telemetry.Logging.Format == "" {
		if cfg.Environment == "development" {
			cfg.Telemetry.Logging.Format = "text"
		} else {
			cfg.Telemetry.Logging.Format = "json"
		}
	}

	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}

	if cfg.Telemetry.Tracing.SampleRatio <= 0 {
		cfg.Telemetry.Tracing.SampleRatio = 1.0
	}
}
