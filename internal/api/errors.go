package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/todo-summary-api/internal/api/shared"
	"github.com/phrazzld/todo-summary-api/internal/domain"
	"github.com/phrazzld/todo-summary-api/internal/service"
	"github.com/phrazzld/todo-summary-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var summaryErr *service.SummaryError
	if errors.As(err, &summaryErr) {
		switch {
		case summaryErr.NotConfigured():
			return http.StatusServiceUnavailable
		case summaryErr.Kind == service.KindStoreReadFailed:
			return http.StatusInternalServerError
		default:
			// The model or the webhook failed, not this service.
			return http.StatusBadGateway
		}
	}

	switch {
	// Not found errors
	case errors.Is(err, service.ErrTodoNotFound),
		store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case store.IsDuplicateError(err):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, service.ErrNoUpdateFields),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, shared.ErrEmptyBody),
		domain.IsValidationError(err):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	// Summary errors carry a message written for clients.
	var summaryErr *service.SummaryError
	if errors.As(err, &summaryErr) {
		return summaryErr.Message
	}

	var validationErr *domain.ValidationError
	switch {
	case errors.Is(err, service.ErrTodoNotFound),
		errors.Is(err, store.ErrTodoNotFound):
		return "Todo not found"

	case errors.Is(err, service.ErrNoUpdateFields):
		return "No update fields provided"

	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"

	case errors.Is(err, domain.ErrEmptyTodoTitle):
		return "Title is required"

	case errors.Is(err, domain.ErrTodoTitleTooLong):
		return fmt.Sprintf("Title must be at most %d characters", domain.MaxTitleLength)

	case errors.Is(err, domain.ErrInvalidPriority):
		return "Priority must be one of High, Medium or Low"

	case errors.As(err, &validationErr):
		return "Invalid " + validationErr.Field

	case store.IsDuplicateError(err):
		return "Todo already exists"

	case errors.Is(err, store.ErrInvalidEntity), domain.IsValidationError(err):
		return "Invalid todo data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status and safe message for err and logs the
// redacted details. defaultMsg replaces the generic message for unknown errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)

	var opts []shared.ResponseOption
	var summaryErr *service.SummaryError
	if errors.As(err, &summaryErr) {
		if summaryErr.Summary != "" {
			opts = append(opts, shared.WithSummary(summaryErr.Summary))
		}
	} else if status == http.StatusInternalServerError && defaultMsg != "" {
		message = defaultMsg
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'CreateTodoRequest.Title' Error:Field validation for 'Title' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag == "required" {
					return field + " is required"
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
