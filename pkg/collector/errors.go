package collector

import (
	"fmt"
	"strings"
)

// EmptyResultError reports that the upstream API answered every batch query
// for a family but none of the returned series carried a usable point. It is
// kept distinct from a transport or API failure because it usually means the
// queried window was too recent, not that the upstream is down.
type EmptyResultError struct {
	// Family is the base name of the metric family that came up empty.
	Family string
}

// Error implements the error interface.
func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("family %q: upstream returned no usable metric points", e.Family)
}

// TotalFailureError reports that every family collector failed within a
// single scrape. It signals a systemic upstream outage rather than a
// per-metric issue and turns the whole scrape into a 500.
type TotalFailureError struct {
	// Errors holds one error per failed family.
	Errors []error
}

// Error implements the error interface.
func (e *TotalFailureError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("all %d metric families failed to collect: %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap exposes the per-family errors for errors.Is and errors.As.
func (e *TotalFailureError) Unwrap() []error {
	return e.Errors
}
