package catalogsearch

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors matched by APIError. Use errors.Is() to check.
var (
	ErrBadRequest   = errors.New("catalogsearch: bad request")
	ErrUnauthorized = errors.New("catalogsearch: unauthorized")
	ErrServer       = errors.New("catalogsearch: server error")
)

// APIError is a non-success response of the service.
type APIError struct {
	StatusCode int
	Message    string
	// Fields holds per-field details, e.g. {"query": "Query parameter is required"}.
	Fields map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("catalogsearch: %d %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("catalogsearch: %d %s: %v", e.StatusCode, e.Message, e.Fields)
}

// Unwrap maps the status code to a sentinel error.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusBadRequest:
		return ErrBadRequest
	case e.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.StatusCode >= http.StatusInternalServerError:
		return ErrServer
	default:
		return nil
	}
}
