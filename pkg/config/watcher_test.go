package config

import (
	"os"
	"testing"
	"time"
)

// TestWatcher_ReloadOnChange verifies a rewrite of the config file reaches
// the callback with the new values.
func TestWatcher_ReloadOnChange(t *testing.T) {
	t.Setenv("RENDER_API_KEY", "rnd_test")
	path := writeConfigFile(t, "auth:\n  bearer_token: old\n")

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("auth:\n  bearer_token: new\n"), 0o600); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Auth.BearerToken != "new" {
			t.Errorf("expected reloaded token, got %q", cfg.Auth.BearerToken)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("reload callback never fired")
	}
}

// TestWatcher_InvalidReloadKeepsPrevious verifies a broken rewrite does not
// reach the callback.
func TestWatcher_InvalidReloadKeepsPrevious(t *testing.T) {
	t.Setenv("RENDER_API_KEY", "rnd_test")
	path := writeConfigFile(t, "auth:\n  bearer_token: old\n")

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	defer w.Stop()

	// Not valid YAML for the config shape.
	if err := os.WriteFile(path, []byte(":::not yaml:::\n"), 0o600); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		t.Fatalf("callback fired for invalid config: %+v", cfg)
	case <-time.After(500 * time.Millisecond):
	}
}

// TestWatcher_StopIdempotent verifies Stop is safe to call twice.
func TestWatcher_StopIdempotent(t *testing.T) {
	path := writeConfigFile(t, "environment: production\n")

	w, err := NewWatcher(path, func(*Config) {})
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("unexpected stop error: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second stop should be a no-op, got %v", err)
	}
}
