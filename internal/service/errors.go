package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/todo-summary-api/internal/generation"
	"github.com/phrazzld/todo-summary-api/internal/notify"
	"github.com/phrazzld/todo-summary-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is; the API layer maps them to HTTP status codes.
var (
	// ErrTodoNotFound indicates that the todo does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrTodoNotFound = errors.New("todo not found")

	// ErrNoUpdateFields indicates a partial update that changes nothing.
	// API layer should map this to HTTP 400 Bad Request.
	ErrNoUpdateFields = errors.New("no update fields provided")

	// ErrStoreReadFailed matches any SummaryError of kind KindStoreReadFailed.
	ErrStoreReadFailed = errors.New("failed to read pending todos")

	// ErrSummarizationFailed matches any SummaryError of kind KindSummarizationFailed.
	ErrSummarizationFailed = errors.New("failed to summarize pending todos")

	// ErrNotificationFailed matches any SummaryError of kind KindNotificationFailed.
	ErrNotificationFailed = errors.New("failed to deliver summary")
)

// SummaryErrorKind identifies which pipeline step failed.
type SummaryErrorKind string

// Pipeline failure kinds, in pipeline order.
const (
	KindStoreReadFailed     SummaryErrorKind = "StoreReadFailed"
	KindSummarizationFailed SummaryErrorKind = "SummarizationFailed"
	KindNotificationFailed  SummaryErrorKind = "NotificationFailed"
)

func (k SummaryErrorKind) sentinel() error {
	switch k {
	case KindStoreReadFailed:
		return ErrStoreReadFailed
	case KindSummarizationFailed:
		return ErrSummarizationFailed
	case KindNotificationFailed:
		return ErrNotificationFailed
	default:
		return nil
	}
}

// SummaryError is returned by SummaryService.RunSummarization.
// Err is the cause reported by the failing dependency, so callers can test for
// generation.ErrEmptyModelOutput, notify.ErrWebhookRejected and friends.
type SummaryError struct {
	Kind SummaryErrorKind
	// Message is a client-safe description of the failure.
	Message string
	// Summary is the generated text; only set for KindNotificationFailed.
	Summary string
	Err     error
}

// Error implements the error interface for SummaryError.
func (e *SummaryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("summary run failed (%s): %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("summary run failed (%s): %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *SummaryError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e.Kind.
func (e *SummaryError) Is(target error) bool {
	sentinel := e.Kind.sentinel()
	return sentinel != nil && target == sentinel
}

// NotConfigured reports whether the failing dependency has no credential or destination.
func (e *SummaryError) NotConfigured() bool {
	return errors.Is(e.Err, generation.ErrNotConfigured) || errors.Is(e.Err, notify.ErrNotConfigured)
}

// TodoServiceError wraps errors from the todo service with context.
type TodoServiceError struct {
	// Operation is the operation that failed (e.g., "create_todo", "update_todo")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for TodoServiceError.
func (e *TodoServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("todo service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("todo service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TodoServiceError) Unwrap() error {
	return e.Err
}

// NewTodoServiceError creates a new TodoServiceError.
// Known sentinel errors are returned directly without wrapping.
func NewTodoServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrTodoNotFound) || errors.Is(err, store.ErrTodoNotFound) {
		return ErrTodoNotFound
	}
	if errors.Is(err, ErrNoUpdateFields) {
		return ErrNoUpdateFields
	}

	return &TodoServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
