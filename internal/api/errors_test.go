package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/todo-summary-api/internal/domain"
	"github.com/phrazzld/todo-summary-api/internal/generation"
	"github.com/phrazzld/todo-summary-api/internal/notify"
	"github.com/phrazzld/todo-summary-api/internal/service"
	"github.com/phrazzld/todo-summary-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"todo not found", service.ErrTodoNotFound, http.StatusNotFound},
		{"store not found", fmt.Errorf("get: %w", store.ErrTodoNotFound), http.StatusNotFound},
		{"duplicate", store.ErrDuplicate, http.StatusConflict},
		{"no update fields", service.ErrNoUpdateFields, http.StatusBadRequest},
		{"invalid priority", domain.ErrInvalidPriority, http.StatusBadRequest},
		{"validation error", domain.NewValidationError("id", "has invalid format", domain.ErrInvalidID), http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"store read failed", &service.SummaryError{Kind: service.KindStoreReadFailed, Err: errors.New("x")}, http.StatusInternalServerError},
		{"model unavailable", &service.SummaryError{Kind: service.KindSummarizationFailed, Err: generation.ErrModelUnavailable}, http.StatusBadGateway},
		{"model not configured", &service.SummaryError{Kind: service.KindSummarizationFailed, Err: generation.ErrNotConfigured}, http.StatusServiceUnavailable},
		{"webhook unreachable", &service.SummaryError{Kind: service.KindNotificationFailed, Err: notify.ErrWebhookUnreachable}, http.StatusBadGateway},
		{"webhook not configured", &service.SummaryError{Kind: service.KindNotificationFailed, Err: notify.ErrNotConfigured}, http.StatusServiceUnavailable},
		{"corrupt stored row", store.NewStoreError("todo", "get", "query failed", errors.New(`stored created_at "yesterday": parsing time`)), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "An unexpected error occurred"},
		{"todo not found", service.ErrTodoNotFound, "Todo not found"},
		{"title too long", domain.ErrTodoTitleTooLong, "Title must be at most 500 characters"},
		{"summary error", &service.SummaryError{Kind: service.KindSummarizationFailed, Message: "Language model is unavailable"}, "Language model is unavailable"},
		{"raw error is not echoed", errors.New("dial tcp 10.0.0.1:5432: refused"), "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetSafeErrorMessage(tt.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	type req struct {
		Title    string `validate:"required"`
		Priority string `validate:"max=3"`
	}
	v := validator.New()

	assert.Equal(t, "Title is required", SanitizeValidationError(v.Struct(req{Priority: "a"})))
	assert.Equal(t, "Invalid Priority: too long", SanitizeValidationError(v.Struct(req{Title: "x", Priority: "abcd"})))
	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else")))
}
