// Package server provides the exporter's HTTP server: the scrape endpoint,
// a liveness endpoint, and the exporter's own telemetry feed.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/readmeio/render-exporter/pkg/config"
	"github.com/readmeio/render-exporter/pkg/server/middleware"
)

// Server is the exporter's HTTP server.
type Server struct {
	config        config.ServerConfig
	telemetry     config.MetricsConfig
	scrapeHandler http.Handler
	auth          *middleware.Authenticator
	registry      *prometheus.Registry
	httpServer    *http.Server
	shutdownChan  chan struct{}
	shutdownOnce  sync.Once
	mu            sync.Mutex
	isRunning     bool
}

// New creates a server that serves scrapeHandler at /metrics behind the
// authenticator. registry, when non-nil, is exposed at the configured
// self-telemetry path.
func New(cfg config.ServerConfig, telemetryCfg config.MetricsConfig, scrapeHandler http.Handler, auth *middleware.Authenticator, registry *prometheus.Registry) *Server {
	return &Server{
		config:        cfg,
		telemetry:     telemetryCfg,
		scrapeHandler: scrapeHandler,
		auth:          auth,
		registry:      registry,
		shutdownChan:  make(chan struct{}),
	}
}

// Start starts the HTTP server and blocks until the context is cancelled, a
// shutdown signal arrives, or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:         s.config.ListenAddress,
		Handler:      s.setupRoutes(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting server", "address", s.config.ListenAddress)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("server stopped")
	})

	return shutdownErr
}

// setupRoutes configures routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	// Only the scrape endpoint sits behind the auth gate.
	mux.Handle("/metrics", s.auth.Middleware(s.scrapeHandler))
	mux.Handle("/", http.HandlerFunc(livenessHandler))

	if s.registry != nil && !s.telemetry.Disabled {
		mux.Handle(s.telemetry.Path, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	var handler http.Handler = mux
	handler = middleware.RequestID(handler)
	handler = middleware.Logging(handler)
	handler = middleware.Recovery(handler)
	return handler
}

// livenessHandler answers the trivial liveness probe at /.
func livenessHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}
