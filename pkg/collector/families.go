package collector

import (
	"context"
	"time"

	"github.com/readmeio/render-exporter/pkg/render"
)

// BandwidthWindow is the recency window for bandwidth queries. Bandwidth is
// aggregated hourly upstream, so a two-minute window would always be empty.
const BandwidthWindow = time.Hour

// MetricsAPI is the slice of the Render client the family collectors need.
type MetricsAPI interface {
	QueryCPU(ctx context.Context, resourceIDs []string, windowStart time.Time) ([]render.MetricSeries, error)
	QueryMemory(ctx context.Context, resourceIDs []string, windowStart time.Time) ([]render.MetricSeries, error)
	QueryInstanceCount(ctx context.Context, resourceIDs []string, windowStart time.Time) ([]render.MetricSeries, error)
	QueryBandwidth(ctx context.Context, resourceIDs []string, windowStart time.Time) ([]render.MetricSeries, error)
	QueryActiveConnections(ctx context.Context, resourceIDs []string, windowStart time.Time) ([]render.MetricSeries, error)
}

// Family is one named metric family and the function that collects its
// current values for a given resource list.
type Family struct {
	// Name is the family's base metric name, used for logging and telemetry.
	Name string

	// Collect produces the family's result for one scrape.
	Collect func(ctx context.Context, resources []render.Resource) (*Result, error)
}

// FamilyConfig carries the knobs shared by all family collectors.
type FamilyConfig struct {
	// BatchSize caps identifiers per upstream call. Defaults to DefaultBatchSize.
	BatchSize int

	// QueryTimeout is the per-batch deadline. Defaults to DefaultQueryTimeout.
	QueryTimeout time.Duration
}

// Families returns every family collector the exporter serves, wired to the
// given API client.
func Families(api MetricsAPI, cfg FamilyConfig) []Family {
	return []Family{
		ServiceCountFamily(),
		InstanceCountFamily(api, cfg),
		CPUUsageFamily(api, cfg),
		MemoryUsageFamily(api, cfg),
		BandwidthFamily(api, cfg),
		ActiveConnectionsFamily(api, cfg),
	}
}

// ServiceCountFamily counts the monitored resources. It never queries
// upstream and never fails: the count is known as soon as the resource list
// is resolved.
func ServiceCountFamily() Family {
	def := Definition{
		Name: "render_service_count",
		Help: "Number of Render resources currently monitored.",
		Type: TypeGauge,
	}
	return Family{
		Name: def.Name,
		Collect: func(ctx context.Context, resources []render.Resource) (*Result, error) {
			return &Result{
				Definition: def,
				Points:     []Point{{Value: float64(len(resources))}},
			}, nil
		},
	}
}

// InstanceCountFamily collects the running instance count for every resource.
func InstanceCountFamily(api MetricsAPI, cfg FamilyConfig) Family {
	def := Definition{
		Name: "render_service_instance_count",
		Help: "Number of running instances per Render resource.",
		Type: TypeGauge,
	}
	return Family{
		Name: def.Name,
		Collect: func(ctx context.Context, resources []render.Resource) (*Result, error) {
			return Collect(ctx, Options{
				Definition:   def,
				Resources:    resources,
				Query:        api.QueryInstanceCount,
				BatchSize:    cfg.BatchSize,
				QueryTimeout: cfg.QueryTimeout,
			})
		},
	}
}

// CPUUsageFamily collects CPU usage for every resource.
func CPUUsageFamily(api MetricsAPI, cfg FamilyConfig) Family {
	def := Definition{
		Name: "render_service_cpu_usage",
		Help: "CPU usage per Render resource.",
		Type: TypeGauge,
	}
	return Family{
		Name: def.Name,
		Collect: func(ctx context.Context, resources []render.Resource) (*Result, error) {
			return Collect(ctx, Options{
				Definition:   def,
				Resources:    resources,
				Query:        api.QueryCPU,
				BatchSize:    cfg.BatchSize,
				QueryTimeout: cfg.QueryTimeout,
			})
		},
	}
}

// MemoryUsageFamily collects memory usage for every resource.
func MemoryUsageFamily(api MetricsAPI, cfg FamilyConfig) Family {
	def := Definition{
		Name: "render_service_memory_usage",
		Help: "Memory usage per Render resource.",
		Type: TypeGauge,
	}
	return Family{
		Name: def.Name,
		Collect: func(ctx context.Context, resources []render.Resource) (*Result, error) {
			return Collect(ctx, Options{
				Definition:   def,
				Resources:    resources,
				Query:        api.QueryMemory,
				BatchSize:    cfg.BatchSize,
				QueryTimeout: cfg.QueryTimeout,
			})
		},
	}
}

// BandwidthFamily collects outbound bandwidth for compute services. Key value
// and Postgres resources report no bandwidth, so they are filtered out; an
// all-database resource mix short-circuits to an empty result without calling
// upstream.
func BandwidthFamily(api MetricsAPI, cfg FamilyConfig) Family {
	def := Definition{
		Name: "render_service_bandwidth",
		Help: "Outbound bandwidth per Render compute service.",
		Type: TypeGauge,
	}
	return Family{
		Name: def.Name,
		Collect: func(ctx context.Context, resources []render.Resource) (*Result, error) {
			filtered := filterByKind(resources, render.KindService)
			if len(filtered) == 0 {
				return &Result{Definition: def}, nil
			}
			return Collect(ctx, Options{
				Definition:   def,
				Resources:    filtered,
				Query:        api.QueryBandwidth,
				BatchSize:    cfg.BatchSize,
				WindowStart:  time.Now().Add(-BandwidthWindow),
				QueryTimeout: cfg.QueryTimeout,
			})
		},
	}
}

// ActiveConnectionsFamily collects active connection counts for key value and
// Postgres resources. Compute services are filtered out, with the same empty
// short-circuit as BandwidthFamily.
func ActiveConnectionsFamily(api MetricsAPI, cfg FamilyConfig) Family {
	def := Definition{
		Name: "render_service_active_connections",
		Help: "Active connections per Render key value or Postgres instance.",
		Type: TypeGauge,
	}
	return Family{
		Name: def.Name,
		Collect: func(ctx context.Context, resources []render.Resource) (*Result, error) {
			filtered := filterByKind(resources, render.KindKeyValue, render.KindPostgres)
			if len(filtered) == 0 {
				return &Result{Definition: def}, nil
			}
			return Collect(ctx, Options{
				Definition:   def,
				Resources:    filtered,
				Query:        api.QueryActiveConnections,
				BatchSize:    cfg.BatchSize,
				QueryTimeout: cfg.QueryTimeout,
			})
		},
	}
}

func filterByKind(resources []render.Resource, kinds ...render.ResourceKind) []render.Resource {
	var filtered []render.Resource
	for _, r := range resources {
		for _, k := range kinds {
			if r.Kind == k {
				filtered = append(filtered, r)
				break
			}
		}
	}
	return filtered
}
