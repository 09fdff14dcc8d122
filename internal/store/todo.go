package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-summary-api/internal/domain"
)

// PendingLister is the read-only view of the store that the summarization
// pipeline depends on.
type PendingLister interface {
	// ListPending returns every todo that is not completed, ordered by
	// CreatedAt ascending (oldest first). Ties are broken by ID so the
	// order is deterministic for a fixed data set.
	// Returns an empty slice if nothing is pending.
	ListPending(ctx context.Context) ([]*domain.Todo, error)
}

// TodoStore defines the interface for todo data persistence.
type TodoStore interface {
	PendingLister

	// List returns all todos, newest first.
	List(ctx context.Context) ([]*domain.Todo, error)

	// GetByID retrieves a todo by its unique ID.
	// Returns ErrTodoNotFound if the todo does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Todo, error)

	// GetByIDForUpdate retrieves a todo and locks its row until the enclosing
	// transaction ends. It must be called on a store returned by WithTx.
	// Returns ErrTodoNotFound if the todo does not exist.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Todo, error)

	// Create saves a new todo to the store.
	// Returns validation errors from the domain Todo if data is invalid.
	Create(ctx context.Context, todo *domain.Todo) error

	// Update saves changes to the mutable fields of an existing todo
	// (title, completion, priority, updated_at). CreatedAt is never written.
	// Returns ErrTodoNotFound if the todo does not exist.
	Update(ctx context.Context, todo *domain.Todo) error

	// Delete removes a todo.
	// Returns ErrTodoNotFound if the todo does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new TodoStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TodoStore

	// DB returns the underlying database handle used to begin transactions.
	DB() *sql.DB
}
