// Package telemetry instruments the exporter itself.
//
// The exporter's business output is a hand-rendered Prometheus feed of Render
// usage data; this package covers the exporter's own health: how many scrapes
// it served, which metric families failed, how long collections took, and
// whether resource cache refreshes succeed. These metrics are registered on
// an injected prometheus.Registerer and exposed on a path separate from the
// Render metrics feed.
package telemetry
