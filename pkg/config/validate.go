package config

import (
	"fmt"
	"strings"
)

// ValidationError reports configuration that cannot be served with. It is
// fatal at startup: the process must exit before serving any request.
type ValidationError struct {
	// Problems lists every validation failure found.
	Problems []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", strings.Join(e.Problems, "; "))
}

// Validate checks the configuration for fatal problems.
func Validate(cfg *Config) error {
	var problems []string

	if cfg.Render.APIKey == "" {
		problems = append(problems, "render.api_key is required (set RENDER_API_KEY)")
	}

	switch cfg.Environment {
	case "development", "production":
	default:
		problems = append(problems, fmt.Sprintf("environment must be %q or %q, got %q",
			"development", "production", cfg.Environment))
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("telemetry.logging.level %q is not one of debug, info, warn, error",
			cfg.Telemetry.Logging.Level))
	}

	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		problems = append(problems, fmt.Sprintf("telemetry.logging.format %q is not one of json, text",
			cfg.Telemetry.Logging.Format))
	}

	if (cfg.Auth.Username == "") != (cfg.Auth.Password == "") {
		problems = append(problems, "auth.username and auth.password must be set together")
	}

	if cfg.Telemetry.Tracing.Enabled && cfg.Telemetry.Tracing.Endpoint == "" {
		problems = append(problems, "telemetry.tracing.endpoint is required when tracing is enabled")
	}

	if ratio := cfg.Telemetry.Tracing.SampleRatio; ratio < 0 || ratio > 1 {
		problems = append(problems, fmt.Sprintf("telemetry.tracing.sample_ratio must be in [0, 1], got %g", ratio))
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
