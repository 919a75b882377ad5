package render

import (
	"strings"
	"time"
)

// ResourceKind identifies what kind of Render resource an identifier refers to.
// It is determined once when a resource is ingested from the API, so callers
// never have to re-derive it from identifier prefixes.
type ResourceKind string

const (
	// KindService is a compute service (web service, background worker, cron job).
	KindService ResourceKind = "service"

	// KindKeyValue is a managed key value (Redis) instance.
	KindKeyValue ResourceKind = "keyvalue"

	// KindPostgres is a managed Postgres database.
	KindPostgres ResourceKind = "postgres"

	// KindUnknown is reported for identifiers with an unrecognized prefix.
	KindUnknown ResourceKind = "unknown"
)

// Identifier prefixes assigned by Render per resource kind.
const (
	servicePrefix  = "srv-"
	keyValuePrefix = "red-"
	postgresPrefix = "dpg-"
)

// KindFromID derives the resource kind from a Render identifier prefix.
func KindFromID(id string) ResourceKind {
	switch {
	case strings.HasPrefix(id, servicePrefix):
		return KindService
	case strings.HasPrefix(id, keyValuePrefix):
		return KindKeyValue
	case strings.HasPrefix(id, postgresPrefix):
		return KindPostgres
	default:
		return KindUnknown
	}
}

// Resource is an upstream-managed entity as the exporter sees it: an immutable
// identifier, a display-name snapshot, and the kind tag derived at ingestion.
type Resource struct {
	// ID is the provider-assigned identifier (globally unique, immutable).
	ID string

	// Name is the display name at the time the resource was fetched.
	Name string

	// Kind is the resource kind, derived from the ID prefix at ingestion.
	Kind ResourceKind
}

// Label is one field/value pair attached to a metric series by the API.
type Label struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// SeriesPoint is a single timestamped sample within a metric series.
type SeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// MetricSeries is one per-resource time series returned by a metrics query.
// Values are ordered oldest to newest.
type MetricSeries struct {
	// Unit is the reporting unit for every point in the series (e.g. "percent").
	Unit string `json:"unit"`

	// Labels identify the series. One of the fields names the resource the
	// series belongs to ("resource" or "service" depending on the endpoint).
	Labels []Label `json:"labels"`

	// Values are the samples in the queried window, oldest first.
	Values []SeriesPoint `json:"values"`
}

// Label lookup helper. Returns the value for the given field, or "" if the
// series does not carry it.
func (s MetricSeries) Label(field string) string {
	for _, l := range s.Labels {
		if l.Field == field {
			return l.Value
		}
	}
	return ""
}

// ResourceID returns the identifier of the resource the series belongs to.
// Metrics endpoints label it "resource"; a few older ones use "service".
func (s MetricSeries) ResourceID() string {
	if id := s.Label("resource"); id != "" {
		return id
	}
	return s.Label("service")
}
