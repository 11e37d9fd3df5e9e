package sentry

import "fmt"

// APIError is returned for any non-2xx response from the Sentry API
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("sentry %s failed: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("sentry %s failed: status %d: %s", e.Op, e.StatusCode, e.Message)
}

// IsAuthError reports whether the error is an authentication or
// authorization failure, which means the API token needs to be replaced
// rather than the request retried.
func IsAuthError(err error) bool {
	apiErr, ok := err.(*APIError)
	if !ok {
		return false
	}
	return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
}
