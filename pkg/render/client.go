package render

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the production Render API endpoint.
const DefaultBaseURL = "https://api.render.com/v1"

// ClientConfig contains configuration for the Render API client.
type ClientConfig struct {
	// APIKey is the bearer token used to authenticate every request.
	APIKey string

	// BaseURL is the API base URL. Defaults to DefaultBaseURL.
	BaseURL string

	// Timeout is the per-request deadline. Defaults to 30 seconds.
	Timeout time.Duration

	// MaxRetries is the number of retries for transient failures. Defaults to 2.
	MaxRetries int

	// MaxIdleConns is the connection pool size. Defaults to 10.
	MaxIdleConns int

	// IdleConnTimeout is how long idle connections are kept. Defaults to 90s.
	IdleConnTimeout time.Duration
}

// Client is an HTTP client for the Render API with connection pooling,
// retry logic, and typed error reporting.
type Client struct {
	config ClientConfig
	client *http.Client
	logger *slog.Logger
}

// NewClient creates a new Render API client.
func NewClient(config ClientConfig) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	} else if config.MaxRetries == 0 {
		config.MaxRetries = 2
	}
	if config.MaxIdleConns <= 0 {
		config.MaxIdleConns = 10
	}
	if config.IdleConnTimeout <= 0 {
		config.IdleConnTimeout = 90 * time.Second
	}

	transport := &http.Transport{
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConns,
		IdleConnTimeout:     config.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	return &Client{
		config: config,
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
		logger: slog.Default().With("component", "render.client"),
	}
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Close releases idle connections held by the client.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// getJSON performs an authenticated GET against an API path with the given
// query parameters and decodes the response body into out.
//
// Transient failures (5xx, network errors) are retried with exponential
// backoff up to MaxRetries. Authentication and rate limit errors are returned
// immediately. A deadline hit is reported as a TimeoutError.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.config.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			c.logger.Debug("retrying request",
				"path", path,
				"attempt", attempt,
				"max_retries", c.config.MaxRetries,
				"backoff", backoff,
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil || isTimeout(err) {
				// Deadline hit or caller gave up; not worth retrying.
				return &TimeoutError{Endpoint: path, Timeout: c.config.Timeout}
			}
			lastErr = err
			c.logger.Warn("request failed, will retry",
				"path", path,
				"attempt", attempt+1,
				"error", err,
			)
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			err := decodeBody(resp.Body, out)
			resp.Body.Close()
			if err != nil {
				return &ParseError{Endpoint: path, Cause: err}
			}
			return nil
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &AuthError{Endpoint: path, Message: string(body)}

		case http.StatusTooManyRequests:
			return &RateLimitError{
				Endpoint:   path,
				RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
				Message:    string(body),
			}

		case http.StatusBadRequest, http.StatusNotFound:
			return &APIError{StatusCode: resp.StatusCode, Endpoint: path, Message: string(body)}

		default:
			lastErr = &APIError{StatusCode: resp.StatusCode, Endpoint: path, Message: string(body)}
			c.logger.Warn("request returned error status, will retry",
				"path", path,
				"status", resp.StatusCode,
				"attempt", attempt+1,
			)
		}
	}

	return lastErr
}

// isTimeout reports whether err is a client-side timeout, which the transport
// surfaces as a net.Error rather than through the request context.
func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func decodeBody(r io.Reader, out any) error {
	if out == nil {
		return nil
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// parseRetryAfter parses the Retry-After header value.
// It supports both delay-seconds and HTTP-date formats.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}

	var seconds int
	if _, err := fmt.Sscanf(header, "%d", &seconds); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}

	return 0
}
