package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidFormat is returned when data is not in the expected format.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidPriority is returned when a priority is not one of High, Medium or Low.
	ErrInvalidPriority = errors.New("invalid priority")
)

// ValidationError describes which field failed validation and why.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// IsValidationError reports whether err is any kind of todo validation failure.
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidPriority) ||
		errors.Is(err, ErrEmptyTodoTitle) ||
		errors.Is(err, ErrTodoTitleTooLong) ||
		errors.Is(err, ErrEmptyTodoID)
}
