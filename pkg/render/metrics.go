package render

import (
	"context"
	"net/url"
	"time"
)

// Metrics endpoint paths. Each accepts repeated "resource" parameters (up to
// the API's per-call cardinality limit) and a "startTime" window start.
const (
	metricsCPUPath               = "/metrics/cpu"
	metricsMemoryPath            = "/metrics/memory"
	metricsInstanceCountPath     = "/metrics/instance-count"
	metricsBandwidthPath         = "/metrics/bandwidth"
	metricsActiveConnectionsPath = "/metrics/active-connections"
)

// QueryFunc is the shape shared by all metrics query methods: one batch of
// resource identifiers, one window start, one series per resource.
type QueryFunc func(ctx context.Context, resourceIDs []string, windowStart time.Time) ([]MetricSeries, error)

// QueryCPU returns CPU usage series for the given resources since windowStart.
func (c *Client) QueryCPU(ctx context.Context, resourceIDs []string, windowStart time.Time) ([]MetricSeries, error) {
	return c.queryMetrics(ctx, metricsCPUPath, resourceIDs, windowStart)
}

// QueryMemory returns memory usage series for the given resources since windowStart.
func (c *Client) QueryMemory(ctx context.Context, resourceIDs []string, windowStart time.Time) ([]MetricSeries, error) {
	return c.queryMetrics(ctx, metricsMemoryPath, resourceIDs, windowStart)
}

// QueryInstanceCount returns running-instance-count series for the given
// resources since windowStart.
func (c *Client) QueryInstanceCount(ctx context.Context, resourceIDs []string, windowStart time.Time) ([]MetricSeries, error) {
	return c.queryMetrics(ctx, metricsInstanceCountPath, resourceIDs, windowStart)
}

// QueryBandwidth returns outbound bandwidth series for the given resources
// since windowStart. Bandwidth is aggregated hourly upstream, so callers
// should use a window of at least one hour.
func (c *Client) QueryBandwidth(ctx context.Context, resourceIDs []string, windowStart time.Time) ([]MetricSeries, error) {
	return c.queryMetrics(ctx, metricsBandwidthPath, resourceIDs, windowStart)
}

// QueryActiveConnections returns active-connection series for the given key
// value and Postgres resources since windowStart.
func (c *Client) QueryActiveConnections(ctx context.Context, resourceIDs []string, windowStart time.Time) ([]MetricSeries, error) {
	return c.queryMetrics(ctx, metricsActiveConnectionsPath, resourceIDs, windowStart)
}

func (c *Client) queryMetrics(ctx context.Context, path string, resourceIDs []string, windowStart time.Time) ([]MetricSeries, error) {
	query := url.Values{}
	for _, id := range resourceIDs {
		query.Add("resource", id)
	}
	query.Set("startTime", windowStart.UTC().Format(time.RFC3339))

	var series []MetricSeries
	if err := c.getJSON(ctx, path, query, &series); err != nil {
		return nil, err
	}
	return series, nil
}
