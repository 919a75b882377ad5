package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/readmeio/render-exporter/pkg/render"
	"github.com/readmeio/render-exporter/pkg/telemetry"
)

type fakeResolver struct {
	resources []render.Resource
	err       error
}

func (f *fakeResolver) Resources(ctx context.Context) ([]render.Resource, error) {
	return f.resources, f.err
}

func staticFamily(name string, result *Result, err error) Family {
	return Family{
		Name: name,
		Collect: func(ctx context.Context, resources []render.Resource) (*Result, error) {
			return result, err
		},
	}
}

func newTestHandler(resolver ResourceResolver, families ...Family) *Handler {
	metrics := telemetry.NewMetrics(prometheus.NewRegistry())
	return NewHandler(resolver, families, metrics, nil)
}

func scrape(t *testing.T, h *Handler, method string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// TestHandler_Success verifies a clean scrape: content type, status, and the
// blank line between family blocks.
func TestHandler_Success(t *testing.T) {
	first := &Result{
		Definition: Definition{Name: "render_service_count", Help: "Count.", Type: TypeGauge},
		Points:     []Point{{Value: 2}},
	}
	second := &Result{
		Definition: Definition{Name: "render_service_cpu_usage_percent", Help: "CPU.", Type: TypeGauge},
		Points: []Point{{
			Labels: map[string]string{"service_name": "web", "unit": "percent"},
			Value:  12.5,
		}},
	}

	h := newTestHandler(&fakeResolver{},
		staticFamily("render_service_count", first, nil),
		staticFamily("render_service_cpu_usage_percent", second, nil),
	)

	rec := scrape(t, h, http.MethodGet)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != ContentType {
		t.Errorf("unexpected content type %q", got)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "render_service_count 2\n") {
		t.Errorf("missing count family:\n%s", body)
	}
	if !strings.Contains(body, `render_service_cpu_usage_percent{service_name="web", unit="percent"} 12.5`) {
		t.Errorf("missing cpu family:\n%s", body)
	}
	// One blank line between the two family blocks.
	if !strings.Contains(body, "2\n\n# HELP render_service_cpu_usage_percent") {
		t.Errorf("expected blank line between family blocks:\n%s", body)
	}
	if strings.Contains(body, "\n\n\n") {
		t.Errorf("unexpected double blank line:\n%s", body)
	}
}

// TestHandler_PartialFailure verifies that one failed family is dropped while
// the rest of the scrape succeeds.
func TestHandler_PartialFailure(t *testing.T) {
	ok := &Result{
		Definition: Definition{Name: "render_service_count", Help: "Count.", Type: TypeGauge},
		Points:     []Point{{Value: 1}},
	}

	h := newTestHandler(&fakeResolver{},
		staticFamily("render_service_count", ok, nil),
		staticFamily("render_service_cpu_usage", nil, errors.New("upstream down")),
	)

	rec := scrape(t, h, http.MethodGet)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for partial failure, got %d", rec.Code)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "render_service_count 1\n") {
		t.Errorf("missing surviving family:\n%s", body)
	}
	if strings.Contains(body, "render_service_cpu_usage") {
		t.Errorf("failed family leaked into body:\n%s", body)
	}
}

// TestHandler_EmptyFamilyOmitted verifies that an empty family contributes
// nothing, headers included, without failing the scrape.
func TestHandler_EmptyFamilyOmitted(t *testing.T) {
	ok := &Result{
		Definition: Definition{Name: "render_service_count", Help: "Count.", Type: TypeGauge},
		Points:     []Point{{Value: 1}},
	}
	empty := &Result{
		Definition: Definition{Name: "render_service_bandwidth", Help: "BW.", Type: TypeGauge},
	}

	h := newTestHandler(&fakeResolver{},
		staticFamily("render_service_count", ok, nil),
		staticFamily("render_service_bandwidth", empty, nil),
	)

	rec := scrape(t, h, http.MethodGet)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "render_service_bandwidth") {
		t.Errorf("empty family leaked into body:\n%s", rec.Body.String())
	}
}

// TestHandler_TotalFailure verifies the 500 when every family fails.
func TestHandler_TotalFailure(t *testing.T) {
	h := newTestHandler(&fakeResolver{},
		staticFamily("a", nil, errors.New("down")),
		staticFamily("b", nil, errors.New("down")),
	)

	rec := scrape(t, h, http.MethodGet)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

// TestHandler_ResolverError verifies the 500 when the resource list itself
// cannot be resolved.
func TestHandler_ResolverError(t *testing.T) {
	h := newTestHandler(
		&fakeResolver{err: errors.New("api down")},
		staticFamily("render_service_count", nil, nil),
	)

	rec := scrape(t, h, http.MethodGet)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

// TestHandler_MethodNotAllowed verifies non-GET requests are rejected.
func TestHandler_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(&fakeResolver{})

	rec := scrape(t, h, http.MethodPost)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

// TestHandler_FamilyPanicIsolated verifies that a panicking family counts as
// a failure rather than taking the scrape down.
func TestHandler_FamilyPanicIsolated(t *testing.T) {
	ok := &Result{
		Definition: Definition{Name: "render_service_count", Help: "Count.", Type: TypeGauge},
		Points:     []Point{{Value: 1}},
	}
	panicking := Family{
		Name: "render_service_cpu_usage",
		Collect: func(ctx context.Context, resources []render.Resource) (*Result, error) {
			panic("boom")
		},
	}

	h := newTestHandler(&fakeResolver{},
		staticFamily("render_service_count", ok, nil),
		panicking,
	)

	rec := scrape(t, h, http.MethodGet)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "render_service_count 1\n") {
		t.Errorf("missing surviving family:\n%s", rec.Body.String())
	}
}
