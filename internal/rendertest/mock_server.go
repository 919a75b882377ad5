// Package rendertest provides a mock Render API server for tests.
package rendertest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"
)

// MockServer is a mock Render API server. Tests register canned responses per
// endpoint path and point a client at URL().
type MockServer struct {
	server        *httptest.Server
	responses     map[string]MockResponse
	responseFuncs map[string]func() MockResponse
	requests      map[string][]url.Values
	mu            sync.Mutex
}

// MockResponse defines a mock response configuration.
type MockResponse struct {
	StatusCode int
	Body       interface{}
	Delay      time.Duration
	Headers    map[string]string
}

// NewMockServer creates a new mock server.
func NewMockServer() *MockServer {
	ms := &MockServer{
		responses:     make(map[string]MockResponse),
		responseFuncs: make(map[string]func() MockResponse),
		requests:      make(map[string][]url.Values),
	}
	ms.server = httptest.NewServer(http.HandlerFunc(ms.handler))
	return ms
}

// URL returns the mock server's base URL.
func (ms *MockServer) URL() string {
	return ms.server.URL
}

// Close closes the mock server.
func (ms *MockServer) Close() {
	ms.server.Close()
}

// SetResponse sets a mock response for a specific endpoint path.
func (ms *MockServer) SetResponse(path string, response MockResponse) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.responses[path] = response
}

// SetResponseFunc sets a per-request response factory for an endpoint path,
// for tests that need the response to change between calls (pagination).
func (ms *MockServer) SetResponseFunc(path string, fn func() MockResponse) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.responseFuncs[path] = fn
}

// RequestCount returns the number of requests received for a path.
func (ms *MockServer) RequestCount(path string) int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	return len(ms.requests[path])
}

// Requests returns the query values of every request received for a path, in
// arrival order.
func (ms *MockServer) Requests(path string) []url.Values {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	return append([]url.Values(nil), ms.requests[path]...)
}

func (ms *MockServer) handler(w http.ResponseWriter, r *http.Request) {
	ms.mu.Lock()
	ms.requests[r.URL.Path] = append(ms.requests[r.URL.Path], r.URL.Query())
	response, ok := ms.responses[r.URL.Path]
	if fn, hasFn := ms.responseFuncs[r.URL.Path]; hasFn {
		response, ok = fn(), true
	}
	ms.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	if response.Delay > 0 {
		time.Sleep(response.Delay)
	}

	for key, value := range response.Headers {
		w.Header().Set(key, value)
	}

	w.WriteHeader(response.StatusCode)

	if response.Body != nil {
		switch v := response.Body.(type) {
		case string:
			_, _ = w.Write([]byte(v))
		case []byte:
			_, _ = w.Write(v)
		default:
			_ = json.NewEncoder(w).Encode(response.Body)
		}
	}
}

// MockResourceItem is one entry in a list page, named after the envelope key
// the endpoint uses ("service", "keyValue", or "postgres").
func MockResourceItem(envelopeKey, id, name string) map[string]interface{} {
	return map[string]interface{}{
		envelopeKey: map[string]interface{}{
			"id":   id,
			"name": name,
		},
		"cursor": "cur-" + id,
	}
}

// MockServicePage builds a /services page from id/name pairs.
func MockServicePage(pairs ...[2]string) MockResponse {
	return mockListPage("service", pairs)
}

// MockKeyValuePage builds a /key-value page from id/name pairs.
func MockKeyValuePage(pairs ...[2]string) MockResponse {
	return mockListPage("keyValue", pairs)
}

// MockPostgresPage builds a /postgres page from id/name pairs.
func MockPostgresPage(pairs ...[2]string) MockResponse {
	return mockListPage("postgres", pairs)
}

func mockListPage(envelopeKey string, pairs [][2]string) MockResponse {
	items := make([]map[string]interface{}, 0, len(pairs))
	for _, p := range pairs {
		items = append(items, MockResourceItem(envelopeKey, p[0], p[1]))
	}
	return MockResponse{StatusCode: http.StatusOK, Body: items}
}

// MockSeries builds one metric series for a resource, with one timestamped
// point per value, oldest first.
func MockSeries(resourceID, unit string, values ...float64) map[string]interface{} {
	points := make([]map[string]interface{}, 0, len(values))
	base := time.Now().Add(-time.Duration(len(values)) * time.Minute)
	for i, v := range values {
		points = append(points, map[string]interface{}{
			"timestamp": base.Add(time.Duration(i) * time.Minute).Format(time.RFC3339),
			"value":     v,
		})
	}
	return map[string]interface{}{
		"unit": unit,
		"labels": []map[string]string{
			{"field": "resource", "value": resourceID},
		},
		"values": points,
	}
}

// MockMetricsResponse wraps series into a metrics endpoint response.
func MockMetricsResponse(series ...map[string]interface{}) MockResponse {
	body := make([]map[string]interface{}, 0, len(series))
	body = append(body, series...)
	return MockResponse{StatusCode: http.StatusOK, Body: body}
}

// MockErrorResponse creates an error response with a Render-style body.
func MockErrorResponse(statusCode int, message string) MockResponse {
	return MockResponse{
		StatusCode: statusCode,
		Body:       map[string]string{"message": message},
	}
}

// MockAuthError creates a 401 authentication error response.
func MockAuthError() MockResponse {
	return MockErrorResponse(http.StatusUnauthorized, "invalid API key")
}

// MockRateLimitError creates a 429 rate limit error response.
func MockRateLimitError(retryAfter int) MockResponse {
	response := MockErrorResponse(http.StatusTooManyRequests, "rate limit exceeded")
	response.Headers = map[string]string{
		"Retry-After": fmt.Sprintf("%d", retryAfter),
	}
	return response
}

// MockServerError creates a 500 internal server error response.
func MockServerError() MockResponse {
	return MockErrorResponse(http.StatusInternalServerError, "internal server error")
}

// MockSlowResponse creates a delayed empty metrics response to trigger client
// timeouts.
func MockSlowResponse(delay time.Duration) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       []map[string]interface{}{},
		Delay:      delay,
	}
}
