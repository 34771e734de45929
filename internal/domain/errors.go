package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain value fails validation.
	// Field-specific failures are reported as *ValidationError, which wraps it.
	ErrValidation = errors.New("validation failed")

	// ErrBadRequest is returned when an input cannot be interpreted at all,
	// for example an import payload that is not a sequence of rows.
	ErrBadRequest = errors.New("bad request")

	// ErrInvalidID is returned when an identifier is malformed.
	ErrInvalidID = fmt.Errorf("%w: invalid ID", ErrValidation)
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string // The field that failed validation (e.g., "title", "tags")
	Message string // Human-readable reason
	Err     error  // Underlying error, usually ErrValidation
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
// A nil err defaults to ErrValidation so errors.Is(err, ErrValidation) always holds.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
