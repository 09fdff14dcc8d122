package api

import (
	"time"

	"github.com/phrazzld/todo-summary-api/internal/domain"
)

// CreateTodoRequest defines the payload for POST /todos.
type CreateTodoRequest struct {
	Title string `json:"title" validate:"required"`
	// Priority is High, Medium or Low in any letter case; empty means Medium.
	Priority string `json:"priority" validate:"omitempty,max=16"`
}

// UpdateTodoRequest defines the payload for PATCH /todos/{id}.
// Absent fields are left unchanged.
type UpdateTodoRequest struct {
	Title       *string `json:"title"`
	IsCompleted *bool   `json:"is_completed"`
	Priority    *string `json:"priority" validate:"omitempty,max=16"`
}

// TodoResponse is the JSON representation of a todo.
type TodoResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	IsCompleted bool      `json:"is_completed"`
	Priority    string    `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SummaryResponse is the body of a successful POST /todos/summarize.
type SummaryResponse struct {
	Message string `json:"message"`
	Summary string `json:"summary"`
}

// toPatch converts the request into a domain patch, parsing the priority.
func (r UpdateTodoRequest) toPatch() (domain.TodoPatch, error) {
	patch := domain.TodoPatch{
		Title:       r.Title,
		IsCompleted: r.IsCompleted,
	}
	if r.Priority != nil {
		priority, err := parseRequiredPriority(*r.Priority)
		if err != nil {
			return domain.TodoPatch{}, err
		}
		patch.Priority = &priority
	}
	return patch, nil
}

// parseRequiredPriority is ParsePriority except that an explicit empty value
// is rejected instead of meaning Medium.
func parseRequiredPriority(s string) (domain.Priority, error) {
	if s == "" {
		return "", domain.ErrInvalidPriority
	}
	return domain.ParsePriority(s)
}

func todoToResponse(todo *domain.Todo) TodoResponse {
	return TodoResponse{
		ID:          todo.ID.String(),
		Title:       todo.Title,
		IsCompleted: todo.IsCompleted,
		Priority:    string(todo.Priority),
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
}

func todosToResponse(todos []*domain.Todo) []TodoResponse {
	out := make([]TodoResponse, 0, len(todos))
	for _, todo := range todos {
		out = append(out, todoToResponse(todo))
	}
	return out
}
