// Package middleware provides HTTP middleware for the exporter's server:
// request ID tagging, request logging, panic recovery, and the optional
// authentication gate in front of the scrape endpoint.
package middleware
