package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation signals a malformed or missing request parameter.
	ErrValidation = errors.New("validation failed")
	// ErrSearchBackend signals that the search index could not serve a request.
	ErrSearchBackend = errors.New("search backend error")
)

// ValidationError wraps ErrValidation with the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation.Error(), e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a field-level validation error.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// SearchBackendError wraps a failure of the search index for one collection.
// It matches both ErrSearchBackend and the underlying cause via errors.Is.
type SearchBackendError struct {
	Op  string
	Err error
}

func (e *SearchBackendError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrSearchBackend.Error(), e.Op, e.Err)
}

func (e *SearchBackendError) Unwrap() []error { return []error{ErrSearchBackend, e.Err} }

// NewSearchBackendError creates a backend error for the given operation.
func NewSearchBackendError(op string, err error) error {
	return &SearchBackendError{Op: op, Err: err}
}
