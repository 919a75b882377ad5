// Package collector implements the metric collection and aggregation pipeline.
//
// A scrape flows through it as follows: the Handler resolves the current
// resource list, launches every family collector concurrently, and each family
// fans out batched range queries to the Render API, merges the heterogeneous
// per-resource series into one labeled-value set, and renders it into the
// Prometheus text exposition format. Failures are isolated per metric family:
// a family that fails contributes nothing to the scrape body, and only a
// scrape in which every family fails is reported as an error to the caller.
package collector
