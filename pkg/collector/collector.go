package collector

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/readmeio/render-exporter/pkg/render"
)

// DefaultWindow is how far back most usage queries look. The Render API
// aggregates by collection interval and very recent points may be incomplete
// or missing, so "current" usage is the newest point within the last two
// minutes.
const DefaultWindow = 2 * time.Minute

// DefaultQueryTimeout is the deadline imposed on each upstream batch query.
const DefaultQueryTimeout = 30 * time.Second

// Options configures one family collection.
type Options struct {
	// Definition is the metric family being collected. The unit suffix is
	// appended to its base name once the first point's unit is known.
	Definition Definition

	// Resources is the monitored resource list, used both as the set of
	// identifiers to query and as the lookup table for service_name labels.
	Resources []render.Resource

	// Query issues one batched upstream call.
	Query render.QueryFunc

	// BatchSize caps the identifiers per upstream call.
	// Defaults to DefaultBatchSize.
	BatchSize int

	// WindowStart is the start of the queried time window. The zero value
	// means "DefaultWindow before now".
	WindowStart time.Time

	// QueryTimeout is the per-batch deadline. Defaults to DefaultQueryTimeout.
	QueryTimeout time.Duration
}

// Collect produces one Result for one metric family.
//
// It partitions the resource identifiers into batches, issues every batch
// query concurrently, and joins them all-or-nothing: a single failed batch
// fails the whole family. Surviving series are merged into labeled points,
// taking each series' most recent value, resolving service_name through the
// resource list (defaulting to "unknown" for identifiers the list does not
// contain), and copying every upstream label verbatim; an upstream label
// named "unit" or "service_name" wins over the ones set here.
//
// When the upstream answers every batch but no usable point remains, Collect
// fails with an EmptyResultError so callers can tell "structurally valid but
// empty" apart from a hard outage.
func Collect(ctx context.Context, opts Options) (*Result, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = DefaultQueryTimeout
	}
	windowStart := opts.WindowStart
	if windowStart.IsZero() {
		windowStart = time.Now().Add(-DefaultWindow)
	}

	byID := make(map[string]render.Resource, len(opts.Resources))
	ids := make([]string, 0, len(opts.Resources))
	for _, r := range opts.Resources {
		byID[r.ID] = r
		ids = append(ids, r.ID)
	}

	batches := Batch(ids, opts.BatchSize)
	responses := make([][]render.MetricSeries, len(batches))
	errs := make([]error, len(batches))

	var wg sync.WaitGroup
	for i, batch := range batches {
		wg.Add(1)
		go func(i int, batch []string) {
			defer wg.Done()
			queryCtx, cancel := context.WithTimeout(ctx, opts.QueryTimeout)
			defer cancel()
			responses[i], errs[i] = opts.Query(queryCtx, batch, windowStart)
		}(i, batch)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	var points []Point
	for _, series := range responses {
		for _, s := range series {
			if len(s.Labels) == 0 || len(s.Values) == 0 {
				slog.Debug("skipping series without labels or data points",
					"family", opts.Definition.Name,
				)
				continue
			}

			// Series are ordered oldest to newest; the last point is current.
			value := s.Values[len(s.Values)-1].Value

			serviceName := "unknown"
			if r, ok := byID[s.ResourceID()]; ok {
				serviceName = r.Name
			}

			labels := make(map[string]string, len(s.Labels)+2)
			labels["unit"] = s.Unit
			labels["service_name"] = serviceName
			for _, l := range s.Labels {
				labels[l.Field] = l.Value
			}

			points = append(points, Point{Labels: labels, Value: value})
		}
	}

	if len(points) == 0 {
		return nil, &EmptyResultError{Family: opts.Definition.Name}
	}

	// All points in one scrape are assumed to share a unit, so the first
	// point's unit names the family. When they differ the per-point unit
	// label still carries the truth; the name may be misleading.
	return &Result{
		Definition: opts.Definition.WithSuffix(points[0].Labels["unit"]),
		Points:     points,
	}, nil
}
