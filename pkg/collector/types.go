package collector

// MetricType is the exposition type of a metric family. Every metric this
// exporter produces is a point-in-time reading, so only gauges exist.
type MetricType string

// TypeGauge is the only metric type the exporter emits.
const TypeGauge MetricType = "gauge"

// Definition describes one metric family: its base name, help text, and type.
// The final exposed name appends an underscore-joined unit suffix discovered
// at collection time (e.g. render_service_cpu_usage_percent).
type Definition struct {
	Name string
	Help string
	Type MetricType
}

// WithSuffix returns a copy of the definition with the unit suffix appended
// to the base name. An empty suffix leaves the name unchanged.
func (d Definition) WithSuffix(suffix string) Definition {
	if suffix != "" {
		d.Name = d.Name + "_" + suffix
	}
	return d
}

// Point is one labeled value within a family. Labels always include "unit"
// and "service_name"; additional labels flow through verbatim from the
// upstream series.
type Point struct {
	Labels map[string]string
	Value  float64
}

// Result is the outcome of collecting one family: the (suffix-resolved)
// definition and its current points. A Result with zero points renders to
// nothing: no HELP, no TYPE, no value lines.
type Result struct {
	Definition Definition
	Points     []Point
}

// Empty reports whether the result carries no points.
func (r *Result) Empty() bool {
	return r == nil || len(r.Points) == 0
}
