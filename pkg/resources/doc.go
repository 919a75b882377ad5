// Package resources maintains the exporter's view of the monitored Render
// resources: compute services, key value instances, and Postgres databases.
//
// The central type is Cache, a last-known-snapshot cache with a time-based
// staleness policy. Reads never block: a stale read schedules one background
// refresh (concurrent triggers collapse into a single in-flight refresh) and
// immediately returns the current snapshot. A refresh replaces the whole
// snapshot atomically, so readers see either the old resource lists or the
// new ones, never a mix, and a failed refresh leaves the existing snapshot
// servable until one eventually succeeds.
//
// The snapshot can optionally be persisted through a Store (in-memory or
// SQLite) so a restarted exporter serves resources immediately, and a
// cron-driven Scheduler can pre-warm the cache between scrapes.
package resources
