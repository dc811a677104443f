package core

import (
	"errors"
	"fmt"
)

// Error kinds. Callers test with errors.Is; transport maps each to a status.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrDownstream = errors.New("downstream dependency unavailable")
)

// ResourceError ties an error kind to the resource it concerns. Its message
// is short and safe to show to API clients.
type ResourceError struct {
	Resource string
	Detail   string
	Kind     error
}

func (e *ResourceError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("%s %s", e.Resource, e.Kind)
}

func (e *ResourceError) Unwrap() error { return e.Kind }

func NotFound(resource string) error {
	return &ResourceError{Resource: resource, Kind: ErrNotFound}
}

func Conflict(resource, detail string) error {
	return &ResourceError{Resource: resource, Detail: detail, Kind: ErrConflict}
}

// Downstream wraps a failing external dependency.
func Downstream(dependency string, err error) error {
	return fmt.Errorf("%s: %w: %w", dependency, ErrDownstream, err)
}

// ValidationError reports malformed or missing input on a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
