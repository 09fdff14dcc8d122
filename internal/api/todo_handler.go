package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/todo-summary-api/internal/api/shared"
	"github.com/phrazzld/todo-summary-api/internal/domain"
	"github.com/phrazzld/todo-summary-api/internal/platform/logger"
	"github.com/phrazzld/todo-summary-api/internal/service"
)

// SummaryRunner runs the summarize-and-notify pipeline once.
type SummaryRunner interface {
	RunSummarization(ctx context.Context) (*service.SummaryResult, error)
}

// TodoHandler handles todo-related HTTP requests
type TodoHandler struct {
	todoService      service.TodoService
	summaryRunner    SummaryRunner
	summarizeTimeout time.Duration
	logger           *slog.Logger
}

// NewTodoHandler creates a new TodoHandler.
// summarizeTimeout bounds each summary run; zero means no bound.
func NewTodoHandler(
	todoService service.TodoService,
	summaryRunner SummaryRunner,
	summarizeTimeout time.Duration,
	logger *slog.Logger,
) *TodoHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TodoHandler{
		todoService:      todoService,
		summaryRunner:    summaryRunner,
		summarizeTimeout: summarizeTimeout,
		logger:           logger.With(slog.String("component", "todo_handler")),
	}
}

// ListTodos handles GET /todos requests
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.todoService.ListTodos(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch todos")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, todosToResponse(todos))
}

// CreateTodo handles POST /todos requests
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var req CreateTodoRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		h.respondDecodeError(w, r, err)
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	priority, err := domain.ParsePriority(req.Priority)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	todo, err := h.todoService.CreateTodo(r.Context(), req.Title, priority)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add todo")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, todoToResponse(todo))
}

// UpdateTodo handles PATCH /todos/{id} requests
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateTodoRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		h.respondDecodeError(w, r, err)
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	todo, err := h.todoService.UpdateTodo(r.Context(), id, patch)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update todo")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, todoToResponse(todo))
}

// DeleteTodo handles DELETE /todos/{id} requests
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.todoService.DeleteTodo(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete todo")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Summarize handles POST /todos/summarize requests.
// It runs the pipeline once; the request takes no body.
func (h *TodoHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.summarizeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.summarizeTimeout)
		defer cancel()
	}

	result, err := h.summaryRunner.RunSummarization(ctx)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to summarize and send to Slack")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("summary request completed",
		slog.String("message", result.Message))

	shared.RespondWithJSON(w, r, http.StatusOK, SummaryResponse{
		Message: result.Message,
		Summary: result.Summary,
	})
}

func (h *TodoHandler) respondDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, shared.ErrEmptyBody) {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err,
		shared.WithElevatedLogLevel())
}
