package render

import (
	"fmt"
	"time"
)

// APIError represents a non-2xx response from the Render API.
// It includes the HTTP status code and the response body.
type APIError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// Endpoint is the API path that returned the error.
	Endpoint string

	// Message is the response body, as returned by the API.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("render API %s returned status %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

// AuthError represents a rejected API key (HTTP 401 or 403).
// It is never retried.
type AuthError struct {
	// Endpoint is the API path that rejected the credential.
	Endpoint string

	// Message is the error message from the API.
	Message string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("render API %s rejected credentials: %s", e.Endpoint, e.Message)
}

// RateLimitError represents an HTTP 429 response.
// RetryAfter carries the parsed Retry-After header when present.
type RateLimitError struct {
	Endpoint   string
	RetryAfter time.Duration
	Message    string
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("render API %s rate limited (retry after %s)", e.Endpoint, e.RetryAfter)
	}
	return fmt.Sprintf("render API %s rate limited: %s", e.Endpoint, e.Message)
}

// TimeoutError represents a request that hit the client's deadline.
type TimeoutError struct {
	Endpoint string
	Timeout  time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("render API %s timed out after %s", e.Endpoint, e.Timeout)
}

// ParseError represents a response body that could not be decoded.
type ParseError struct {
	Endpoint string
	Cause    error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("render API %s returned an unparseable response: %v", e.Endpoint, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}
