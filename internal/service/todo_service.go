package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-summary-api/internal/domain"
	"github.com/phrazzld/todo-summary-api/internal/platform/logger"
	"github.com/phrazzld/todo-summary-api/internal/store"
)

// TodoService provides the CRUD use cases behind the /todos endpoints.
type TodoService interface {
	// ListTodos returns every todo, newest first.
	ListTodos(ctx context.Context) ([]*domain.Todo, error)

	// CreateTodo creates a pending todo. An empty priority means Medium.
	CreateTodo(ctx context.Context, title string, priority domain.Priority) (*domain.Todo, error)

	// UpdateTodo applies a partial update and returns the updated todo.
	// Returns ErrNoUpdateFields for an empty patch and ErrTodoNotFound for an unknown id.
	UpdateTodo(ctx context.Context, id uuid.UUID, patch domain.TodoPatch) (*domain.Todo, error)

	// DeleteTodo removes a todo. Returns ErrTodoNotFound for an unknown id.
	DeleteTodo(ctx context.Context, id uuid.UUID) error
}

// todoServiceImpl implements the TodoService interface
type todoServiceImpl struct {
	todoStore store.TodoStore
	logger    *slog.Logger
}

// NewTodoService creates a new TodoService.
// It returns an error if todoStore is nil.
func NewTodoService(todoStore store.TodoStore, logger *slog.Logger) (TodoService, error) {
	if todoStore == nil {
		return nil, &TodoServiceError{
			Operation: "create_service",
			Message:   "todoStore cannot be nil",
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &todoServiceImpl{
		todoStore: todoStore,
		logger:    logger.With(slog.String("component", "todo_service")),
	}, nil
}

// ListTodos implements TodoService.ListTodos
func (s *todoServiceImpl) ListTodos(ctx context.Context) ([]*domain.Todo, error) {
	todos, err := s.todoStore.List(ctx)
	if err != nil {
		return nil, NewTodoServiceError("list_todos", "failed to list todos", err)
	}
	return todos, nil
}

// CreateTodo implements TodoService.CreateTodo
func (s *todoServiceImpl) CreateTodo(ctx context.Context, title string, priority domain.Priority) (*domain.Todo, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	todo, err := domain.NewTodo(title, priority)
	if err != nil {
		log.Debug("rejected invalid todo", slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.todoStore.Create(ctx, todo); err != nil {
		return nil, NewTodoServiceError("create_todo", "failed to save todo", err)
	}

	log.Info("todo created",
		slog.String("todo_id", todo.ID.String()),
		slog.String("priority", string(todo.Priority)))
	return todo, nil
}

// UpdateTodo implements TodoService.UpdateTodo
// The row is locked for the length of the transaction, so concurrent patches
// apply one after the other to the latest values.
func (s *todoServiceImpl) UpdateTodo(ctx context.Context, id uuid.UUID, patch domain.TodoPatch) (*domain.Todo, error) {
	if patch.IsEmpty() {
		return nil, ErrNoUpdateFields
	}

	var updated *domain.Todo
	err := store.RunInTransaction(ctx, s.todoStore.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.todoStore.WithTx(tx)

		todo, err := txStore.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if err := todo.ApplyPatch(patch); err != nil {
			return err
		}

		if err := txStore.Update(ctx, todo); err != nil {
			return err
		}

		updated = todo
		return nil
	})
	if err != nil {
		if domain.IsValidationError(err) {
			return nil, err
		}
		return nil, NewTodoServiceError("update_todo", "failed to update todo", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("todo updated",
		slog.String("todo_id", id.String()),
		slog.Bool("is_completed", updated.IsCompleted))
	return updated, nil
}

// DeleteTodo implements TodoService.DeleteTodo
func (s *todoServiceImpl) DeleteTodo(ctx context.Context, id uuid.UUID) error {
	if err := s.todoStore.Delete(ctx, id); err != nil {
		return NewTodoServiceError("delete_todo", "failed to delete todo", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("todo deleted", slog.String("todo_id", id.String()))
	return nil
}
