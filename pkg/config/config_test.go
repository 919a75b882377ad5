package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

// TestLoad_Defaults verifies defaults land when only the credential is set.
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("RENDER_API_KEY", "rnd_test")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("unexpected listen address %q", cfg.Server.ListenAddress)
	}
	if cfg.Render.BatchSize != DefaultBatchSize {
		t.Errorf("unexpected batch size %d", cfg.Render.BatchSize)
	}
	if cfg.Render.QueryTimeout != DefaultQueryTimeout {
		t.Errorf("unexpected query timeout %s", cfg.Render.QueryTimeout)
	}
	if cfg.Render.MaxRetries != DefaultMaxRetries {
		t.Errorf("unexpected max retries %d", cfg.Render.MaxRetries)
	}
	if cfg.Cache.MaxAge != DefaultCacheMaxAge {
		t.Errorf("unexpected cache max age %s", cfg.Cache.MaxAge)
	}
	if cfg.Environment != "production" {
		t.Errorf("unexpected environment %q", cfg.Environment)
	}
	if cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("expected json logs in production, got %q", cfg.Telemetry.Logging.Format)
	}
	if cfg.Telemetry.Metrics.Path != DefaultMetricsPath {
		t.Errorf("unexpected metrics path %q", cfg.Telemetry.Metrics.Path)
	}
}

// TestLoad_MissingAPIKey verifies the credential is mandatory.
func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("RENDER_API_KEY", "")

	_, err := Load("")

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(vErr.Error(), "render.api_key") {
		t.Errorf("expected api key problem, got %q", vErr.Error())
	}
}

// TestLoad_YAMLFile verifies file values are read and typed correctly.
func TestLoad_YAMLFile(t *testing.T) {
	t.Setenv("RENDER_API_KEY", "rnd_test")
	path := writeConfigFile(t, `
environment: development
server:
  listen_address: "127.0.0.1:9999"
render:
  name_filter: "web"
  batch_size: 25
  query_timeout: 10s
cache:
  max_age: 90s
  refresh_schedule: "*/5 * * * *"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.ListenAddress != "127.0.0.1:9999" {
		t.Errorf("unexpected listen address %q", cfg.Server.ListenAddress)
	}
	if cfg.Render.NameFilter != "web" {
		t.Errorf("unexpected name filter %q", cfg.Render.NameFilter)
	}
	if cfg.Render.BatchSize != 25 {
		t.Errorf("unexpected batch size %d", cfg.Render.BatchSize)
	}
	if cfg.Render.QueryTimeout != 10*time.Second {
		t.Errorf("unexpected query timeout %s", cfg.Render.QueryTimeout)
	}
	if cfg.Cache.MaxAge != 90*time.Second {
		t.Errorf("unexpected cache max age %s", cfg.Cache.MaxAge)
	}
	if cfg.Cache.RefreshSchedule != "*/5 * * * *" {
		t.Errorf("unexpected refresh schedule %q", cfg.Cache.RefreshSchedule)
	}
	if cfg.Telemetry.Logging.Format != "text" {
		t.Errorf("expected text logs in development, got %q", cfg.Telemetry.Logging.Format)
	}
}

// TestLoad_EnvOverridesFile verifies the environment wins over the file.
func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("RENDER_API_KEY", "rnd_from_env")
	t.Setenv("RENDER_EXPORTER_PORT", "8080")
	t.Setenv("RENDER_EXPORTER_BATCH_SIZE", "10")
	path := writeConfigFile(t, `
render:
  api_key: rnd_from_file
  batch_size: 25
server:
  listen_address: "127.0.0.1:9999"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Render.APIKey != "rnd_from_env" {
		t.Errorf("expected env credential to win, got %q", cfg.Render.APIKey)
	}
	if cfg.Server.ListenAddress != "0.0.0.0:8080" {
		t.Errorf("expected PORT override, got %q", cfg.Server.ListenAddress)
	}
	if cfg.Render.BatchSize != 10 {
		t.Errorf("expected env batch size, got %d", cfg.Render.BatchSize)
	}
}

// TestLoad_MissingFile verifies a bad path is an error rather than silently
// ignored.
func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("RENDER_API_KEY", "rnd_test")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

// TestValidate collects the failure cases.
func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := NewDefaultConfig()
		cfg.Render.APIKey = "rnd_test"
		return cfg
	}

	cases := []struct {
		name    string
		mutate  func(*Config)
		problem string
	}{
		{
			name:    "bad environment",
			mutate:  func(c *Config) { c.Environment = "staging" },
			problem: "environment",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Telemetry.Logging.Level = "trace" },
			problem: "logging.level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Telemetry.Logging.Format = "xml" },
			problem: "logging.format",
		},
		{
			name:    "username without password",
			mutate:  func(c *Config) { c.Auth.Username = "metrics" },
			problem: "auth.username",
		},
		{
			name:    "tracing without endpoint",
			mutate:  func(c *Config) { c.Telemetry.Tracing.Enabled = true },
			problem: "tracing.endpoint",
		},
		{
			name:    "sample ratio out of range",
			mutate:  func(c *Config) { c.Telemetry.Tracing.SampleRatio = 1.5 },
			problem: "sample_ratio",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)

			err := Validate(cfg)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if !strings.Contains(vErr.Error(), tc.problem) {
				t.Errorf("expected %q in error, got %q", tc.problem, vErr.Error())
			}
		})
	}

	// The base config itself must be valid.
	if err := Validate(base()); err != nil {
		t.Errorf("base config should validate, got %v", err)
	}
}

// TestApplyDefaults_MaxRetries verifies the explicit-zero convention: -1
// disables retries, 0 means unset.
func TestApplyDefaults_MaxRetries(t *testing.T) {
	cfg := &Config{}
	cfg.Render.MaxRetries = -1
	ApplyDefaults(cfg)
	if cfg.Render.MaxRetries != 0 {
		t.Errorf("expected -1 to mean no retries, got %d", cfg.Render.MaxRetries)
	}

	cfg = &Config{}
	ApplyDefaults(cfg)
	if cfg.Render.MaxRetries != DefaultMaxRetries {
		t.Errorf("expected unset to default to %d, got %d", DefaultMaxRetries, cfg.Render.MaxRetries)
	}
}
