// Package apperr defines the error taxonomy shared by services and handlers:
// validation failures (400), permission denials (403) and missing
// resources (404). Anything outside the taxonomy surfaces as a 500.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
)

// ValidationError carries field-level detail so handlers can return
// the offending fields to the caller.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msgs := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// NewValidation builds a single-field validation error.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {message}}}
}

// Add appends a message for a field and returns the error for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], message)
	return e
}

// AsValidation unwraps err into a ValidationError, if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// NotFound wraps ErrNotFound with a resource name for log context.
func NotFound(resource string) error {
	return fmt.Errorf("%s: %w", resource, ErrNotFound)
}
