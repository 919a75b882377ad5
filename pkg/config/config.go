package config

import "time"

// Config is the root configuration structure for the exporter.
type Config struct {
	// Environment selects deployment-mode defaults ("development" or
	// "production"). Production defaults to JSON logs.
	Environment string `yaml:"environment"`

	// Server contains HTTP server configuration.
	Server ServerConfig `yaml:"server"`

	// Render contains upstream Render API configuration.
	Render RenderConfig `yaml:"render"`

	// Auth gates the /metrics endpoint. With neither a bearer token nor a
	// username/password pair configured, the endpoint is unauthenticated.
	Auth AuthConfig `yaml:"auth"`

	// Cache contains resource cache configuration.
	Cache CacheConfig `yaml:"cache"`

	// Telemetry contains the exporter's own observability configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "0.0.0.0:9156"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading a request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing the response. Scrapes
	// fan out to the upstream API, so this must exceed the query timeout.
	// Default: 120s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle deadline.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// RenderConfig contains configuration for the upstream Render API.
type RenderConfig struct {
	// APIKey is the Render API bearer token. Required.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the API base URL. Default: the production API.
	BaseURL string `yaml:"base_url"`

	// NameFilter restricts the monitored services by name. Empty means all.
	NameFilter string `yaml:"name_filter"`

	// BatchSize caps resource identifiers per metrics query.
	// Default: 50, the API's per-call cardinality limit.
	BatchSize int `yaml:"batch_size"`

	// QueryTimeout is the deadline imposed on each upstream call.
	// Default: 30s
	QueryTimeout time.Duration `yaml:"query_timeout"`

	// MaxRetries is the retry count for transient upstream failures.
	// Default: 2
	MaxRetries int `yaml:"max_retries"`
}

// AuthConfig contains scrape endpoint authentication settings. A configured
// bearer token takes precedence over basic auth.
type AuthConfig struct {
	// BearerToken, when set, requires an exactly matching Authorization
	// bearer header on /metrics.
	BearerToken string `yaml:"bearer_token"`

	// Username and Password, when both set, require HTTP basic auth.
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// CacheConfig contains resource cache configuration.
type CacheConfig struct {
	// Disabled turns the resource cache off, making every scrape fetch the
	// resource lists directly.
	Disabled bool `yaml:"disabled"`

	// MaxAge is how long a snapshot is served before a read schedules a
	// background refresh.
	// Default: 5m
	MaxAge time.Duration `yaml:"max_age"`

	// SnapshotPath, when set, persists the latest snapshot to a SQLite file
	// so restarts serve resources immediately.
	SnapshotPath string `yaml:"snapshot_path"`

	// RefreshSchedule, when set, pre-warms the cache on a cron schedule
	// (e.g. "*/5 * * * *").
	RefreshSchedule string `yaml:"refresh_schedule"`
}

// TelemetryConfig contains the exporter's own observability settings.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is the minimum level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is "json" or "text". Default: "json" in production,
	// "text" in development.
	Format string `yaml:"format"`
}

// MetricsConfig configures the exporter's self-observation metrics.
type MetricsConfig struct {
	// Disabled hides the exporter's own Prometheus metrics endpoint.
	Disabled bool `yaml:"disabled"`

	// Path is where self-metrics are served, separate from the Render feed.
	// Default: "/telemetry"
	Path string `yaml:"path"`
}

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	// Enabled turns span export on. Default: false
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP/gRPC collector endpoint (host:port).
	Endpoint string `yaml:"endpoint"`

	// SampleRatio is the fraction of scrapes to sample. Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`
}
