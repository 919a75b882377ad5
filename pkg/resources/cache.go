package resources

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/readmeio/render-exporter/pkg/render"
	"github.com/readmeio/render-exporter/pkg/telemetry"
)

// DefaultMaxAge is how long a snapshot is served before a read schedules a
// refresh.
const DefaultMaxAge = 5 * time.Minute

// CacheOptions configures a Cache.
type CacheOptions struct {
	// MaxAge is the staleness threshold. Defaults to DefaultMaxAge.
	MaxAge time.Duration

	// Store, when non-nil, persists the latest snapshot. The cache loads it
	// at construction and saves after every successful refresh.
	Store Store

	// Metrics, when non-nil, records refresh outcomes and snapshot sizes.
	Metrics *telemetry.Metrics
}

// Cache holds the last fully-refreshed resource snapshot and refreshes it
// asynchronously when stale, without ever blocking readers.
type Cache struct {
	fetch      FetchFunc
	maxAge     time.Duration
	snapshot   atomic.Pointer[Snapshot]
	refreshing atomic.Bool
	store      Store
	metrics    *telemetry.Metrics
	logger     *slog.Logger
}

// NewCache creates a Cache over the given fetch function. If a Store is
// configured and holds a persisted snapshot, the cache starts from it instead
// of empty; the persisted refresh time still counts toward staleness.
func NewCache(fetch FetchFunc, opts CacheOptions) *Cache {
	if opts.MaxAge <= 0 {
		opts.MaxAge = DefaultMaxAge
	}

	c := &Cache{
		fetch:   fetch,
		maxAge:  opts.MaxAge,
		store:   opts.Store,
		metrics: opts.Metrics,
		logger:  slog.Default().With("component", "resources.cache"),
	}

	if c.store != nil {
		snap, err := c.store.Load(context.Background())
		switch {
		case err != nil:
			c.logger.Warn("failed to load persisted snapshot", "error", err)
		case snap != nil:
			c.snapshot.Store(snap)
			c.logger.Info("loaded persisted snapshot",
				"services", len(snap.Services),
				"key_values", len(snap.KeyValues),
				"databases", len(snap.Databases),
				"refreshed_at", snap.RefreshedAt,
			)
		}
	}

	return c
}

// Get returns the current snapshot without blocking. A stale (or missing)
// snapshot schedules one background refresh; concurrent stale reads collapse
// into a single in-flight refresh. A never-refreshed cache returns an empty
// snapshot.
func (c *Cache) Get(ctx context.Context) *Snapshot {
	snap := c.snapshot.Load()
	if snap == nil {
		snap = &Snapshot{}
	}

	if time.Since(snap.RefreshedAt) > c.maxAge {
		if c.refreshing.CompareAndSwap(false, true) {
			// Detached from the request context: the scrape that noticed the
			// staleness must not cancel the refresh by completing first.
			go func() {
				defer c.refreshing.Store(false)
				if err := c.Refresh(context.Background()); err != nil {
					c.logger.Warn("background refresh failed, serving previous snapshot", "error", err)
				}
			}()
		}
	}

	return snap
}

// Refresh synchronously fetches a new snapshot and atomically replaces the
// current one. On failure the existing snapshot is left untouched and remains
// servable indefinitely.
func (c *Cache) Refresh(ctx context.Context) error {
	snap, err := c.fetch(ctx)
	if err != nil {
		if c.metrics != nil {
			c.metrics.RecordCacheRefresh(false)
		}
		return err
	}

	c.snapshot.Store(snap)

	if c.metrics != nil {
		c.metrics.RecordCacheRefresh(true)
		c.metrics.UpdateCachedResources(string(render.KindService), len(snap.Services))
		c.metrics.UpdateCachedResources(string(render.KindKeyValue), len(snap.KeyValues))
		c.metrics.UpdateCachedResources(string(render.KindPostgres), len(snap.Databases))
	}

	if c.store != nil {
		if err := c.store.Save(ctx, snap); err != nil {
			c.logger.Warn("failed to persist snapshot", "error", err)
		}
	}

	c.logger.Debug("snapshot refreshed",
		"services", len(snap.Services),
		"key_values", len(snap.KeyValues),
		"databases", len(snap.Databases),
	)
	return nil
}

// Resources implements the scrape handler's resolver. It never fails: a cold
// or stale cache serves what it has while a refresh runs in the background.
func (c *Cache) Resources(ctx context.Context) ([]render.Resource, error) {
	return c.Get(ctx).All(), nil
}
