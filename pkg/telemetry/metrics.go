package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains the exporter's self-observation Prometheus metrics.
type Metrics struct {
	// Scrape outcomes
	scrapes *prometheus.CounterVec

	// Per-family collection outcomes
	familyCollections *prometheus.CounterVec

	// Per-family collection latency
	collectionDuration *prometheus.HistogramVec

	// Resource cache refresh outcomes
	cacheRefreshes *prometheus.CounterVec

	// Resources in the current snapshot
	cachedResources *prometheus.GaugeVec
}

// NewMetrics creates a Metrics instance registered on the given registerer.
// Passing a fresh prometheus.Registry keeps test instances independent.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		scrapes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "render_exporter_scrapes_total",
				Help: "Total number of scrape requests served",
			},
			[]string{"status"},
		),

		familyCollections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "render_exporter_family_collections_total",
				Help: "Total number of per-family collection attempts",
			},
			[]string{"family", "result"},
		),

		collectionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "render_exporter_collection_duration_seconds",
				Help:    "Duration of per-family metric collections in seconds",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
			},
			[]string{"family"},
		),

		cacheRefreshes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "render_exporter_cache_refreshes_total",
				Help: "Total number of resource cache refreshes",
			},
			[]string{"result"},
		),

		cachedResources: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "render_exporter_cached_resources",
				Help: "Number of resources in the current cache snapshot",
			},
			[]string{"kind"},
		),
	}
}

// RecordScrape records a served scrape request.
// status is "ok", "partial", or "error".
func (m *Metrics) RecordScrape(status string) {
	m.scrapes.WithLabelValues(status).Inc()
}

// RecordCollection records one family collection attempt.
// result is "ok", "empty", or "error".
func (m *Metrics) RecordCollection(family, result string, duration time.Duration) {
	m.familyCollections.WithLabelValues(family, result).Inc()
	m.collectionDuration.WithLabelValues(family).Observe(duration.Seconds())
}

// RecordCacheRefresh records a resource cache refresh attempt.
func (m *Metrics) RecordCacheRefresh(success bool) {
	result := "ok"
	if !success {
		result = "error"
	}
	m.cacheRefreshes.WithLabelValues(result).Inc()
}

// UpdateCachedResources updates the per-kind snapshot size gauge.
func (m *Metrics) UpdateCachedResources(kind string, count int) {
	m.cachedResources.WithLabelValues(kind).Set(float64(count))
}
