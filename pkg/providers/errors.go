// Package providers contains shared types for the outbound API clients.
package providers

import "fmt"

// APIError is a non-2xx response from an external provider. The status
// code is preserved so callers can classify quota/rate-limit failures
// without parsing provider-specific message text.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Message)
}
