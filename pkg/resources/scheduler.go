package resources

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Scheduler pre-warms the cache on a cron schedule so scrapes rarely see a
// stale snapshot. It is optional; without it the cache refreshes lazily on
// stale reads.
type Scheduler struct {
	cache    *Cache
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewScheduler creates a scheduler over the given cache.
//
// Common cron expressions:
//   - "*/5 * * * *" - every five minutes
//   - "0 * * * *"   - hourly
func NewScheduler(cache *Cache, schedule string) *Scheduler {
	return &Scheduler{
		cache:    cache,
		schedule: schedule,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "resources.scheduler"),
	}
}

// Start begins scheduled refreshes. An empty schedule is a no-op; an invalid
// one is an error.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("refresh schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", s.schedule, err)
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.cache.Refresh(ctx); err != nil {
			s.logger.Warn("scheduled refresh failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule refresh: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("refresh scheduler started", "schedule", s.schedule)
	return nil
}

// Stop halts scheduled refreshes and waits for a running one to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("refresh scheduler stopped")
}
