// Package render is a client for the Render.com public API.
//
// It covers the two capabilities the exporter needs: listing owned resources
// (services, key value instances, Postgres databases) and querying per-resource
// usage metrics over a time window.
//
// The client authenticates with a bearer API key, pools connections, and
// retries transient failures (5xx, network errors) with exponential backoff.
// Errors are reported through a small typed taxonomy (APIError, AuthError,
// RateLimitError, TimeoutError) so callers can distinguish a rejected
// credential from a flaky upstream.
//
// Example usage:
//
//	client := render.NewClient(render.ClientConfig{APIKey: key})
//	services, err := client.ListServices(ctx, "")
//	series, err := client.QueryCPU(ctx, ids, time.Now().Add(-2*time.Minute))
package render
