package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/readmeio/render-exporter/pkg/render"
	"github.com/readmeio/render-exporter/pkg/telemetry"
	"github.com/readmeio/render-exporter/pkg/telemetry/tracing"
)

// ContentType is the content type of the scrape response body, matching the
// Prometheus text exposition format.
const ContentType = "text/plain; version=0.0.4; charset=utf-8"

// ResourceResolver supplies the current monitored resource list for a scrape.
// It is implemented by the resource cache and, for cacheless deployments, by
// a direct API fetch.
type ResourceResolver interface {
	Resources(ctx context.Context) ([]render.Resource, error)
}

// Handler answers one scrape request end to end: resolve resources, run every
// family collector concurrently, isolate per-family failures, and assemble
// the response body.
type Handler struct {
	resolver ResourceResolver
	families []Family
	metrics  *telemetry.Metrics
	tracer   *tracing.Tracer
	logger   *slog.Logger
}

// NewHandler creates a scrape handler over the given resolver and families.
func NewHandler(resolver ResourceResolver, families []Family, metrics *telemetry.Metrics, tracer *tracing.Tracer) *Handler {
	if tracer == nil {
		tracer = tracing.Noop()
	}
	return &Handler{
		resolver: resolver,
		families: families,
		metrics:  metrics,
		tracer:   tracer,
		logger:   slog.Default().With("component", "collector.handler"),
	}
}

// familyOutcome is what one concurrently-launched family contributed.
type familyOutcome struct {
	block string
	err   error
}

// ServeHTTP implements http.Handler for GET /metrics.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, span := h.tracer.Start(r.Context(), "scrape")
	defer span.End()

	resources, err := h.resolver.Resources(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to resolve resource list", "error", err)
		h.metrics.RecordScrape("error")
		http.Error(w, "failed to list Render resources", http.StatusInternalServerError)
		return
	}
	span.SetAttributes(attribute.Int("resources", len(resources)))

	body, err := h.collectAll(ctx, resources)
	if err != nil {
		h.logger.ErrorContext(ctx, "all metric families failed", "error", err)
		h.metrics.RecordScrape("error")
		http.Error(w, "failed to collect metrics from the Render API", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, body)
}

// collectAll runs every family collector concurrently and concatenates the
// non-empty blocks of the ones that succeeded, separated by a blank line.
// It fails only when every family fails.
func (h *Handler) collectAll(ctx context.Context, resources []render.Resource) (string, error) {
	outcomes := make([]familyOutcome, len(h.families))

	var wg sync.WaitGroup
	for i, family := range h.families {
		wg.Add(1)
		go func(i int, family Family) {
			defer wg.Done()
			outcomes[i] = h.collectFamily(ctx, family, resources)
		}(i, family)
	}
	wg.Wait()

	var blocks []string
	var failures []error
	for _, outcome := range outcomes {
		if outcome.err != nil {
			failures = append(failures, outcome.err)
			continue
		}
		if outcome.block != "" {
			blocks = append(blocks, outcome.block)
		}
	}

	if len(failures) == len(h.families) {
		return "", &TotalFailureError{Errors: failures}
	}

	if len(failures) > 0 {
		h.metrics.RecordScrape("partial")
	} else {
		h.metrics.RecordScrape("ok")
	}

	return strings.Join(blocks, "\n"), nil
}

// collectFamily runs one family collector, converting a failure (or a panic)
// into "no contribution" so it cannot abort the other families.
func (h *Handler) collectFamily(ctx context.Context, family Family, resources []render.Resource) (outcome familyOutcome) {
	ctx, span := h.tracer.Start(ctx, "collect."+family.Name)
	defer span.End()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			outcome = familyOutcome{err: fmt.Errorf("family %q panicked: %v", family.Name, r)}
		}
		h.recordOutcome(ctx, family.Name, outcome.err, time.Since(start))
	}()

	result, err := family.Collect(ctx, resources)
	if err != nil {
		return familyOutcome{err: err}
	}
	return familyOutcome{block: Format(result)}
}

func (h *Handler) recordOutcome(ctx context.Context, family string, err error, duration time.Duration) {
	var emptyErr *EmptyResultError
	switch {
	case err == nil:
		h.metrics.RecordCollection(family, "ok", duration)
	case errors.As(err, &emptyErr):
		h.metrics.RecordCollection(family, "empty", duration)
		h.logger.DebugContext(ctx, "family returned no points", "family", family)
	default:
		h.metrics.RecordCollection(family, "error", duration)
		h.logger.WarnContext(ctx, "family collection failed", "family", family, "error", err)
	}
}
