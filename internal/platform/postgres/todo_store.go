package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-summary-api/internal/domain"
	"github.com/phrazzld/todo-summary-api/internal/platform/logger"
	"github.com/phrazzld/todo-summary-api/internal/store"
)

const todoColumns = `id, title, is_completed, priority, created_at, updated_at`

// PostgresTodoStore implements the store.TodoStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTodoStore struct {
	db     store.DBTX
	sqlDB  *sql.DB
	logger *slog.Logger
}

// NewPostgresTodoStore creates a new PostgreSQL implementation of the TodoStore interface.
// It accepts a database connection that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTodoStore(db *sql.DB, logger *slog.Logger) *PostgresTodoStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTodoStore{
		db:     db,
		sqlDB:  db,
		logger: logger.With(slog.String("component", "todo_store")),
	}
}

// Ensure PostgresTodoStore implements store.TodoStore interface
var _ store.TodoStore = (*PostgresTodoStore)(nil)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*domain.Todo, error) {
	var todo domain.Todo
	var priority string

	if err := row.Scan(
		&todo.ID,
		&todo.Title,
		&todo.IsCompleted,
		&priority,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	); err != nil {
		return nil, err
	}

	todo.Priority = domain.Priority(priority)
	todo.CreatedAt = todo.CreatedAt.UTC()
	todo.UpdatedAt = todo.UpdatedAt.UTC()
	return &todo, nil
}

func (s *PostgresTodoStore) queryTodos(ctx context.Context, op string, query string) ([]*domain.Todo, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query todos",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("todo", op, "query failed", MapError(err))
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	todos := make([]*domain.Todo, 0)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			log.Error("failed to scan todo row",
				slog.String("operation", op),
				slog.String("error", err.Error()))
			return nil, store.NewStoreError("todo", op, "scan failed", err)
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating todo rows",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("todo", op, "row iteration failed", MapError(err))
	}

	log.Debug("todos retrieved",
		slog.String("operation", op),
		slog.Int("count", len(todos)))
	return todos, nil
}

// ListPending implements store.PendingLister.ListPending.
// It returns every todo that is not completed, oldest first.
func (s *PostgresTodoStore) ListPending(ctx context.Context) ([]*domain.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE is_completed = FALSE
		ORDER BY created_at ASC, id ASC
	`
	return s.queryTodos(ctx, "list_pending", query)
}

// List implements store.TodoStore.List.
// It returns every todo, newest first.
func (s *PostgresTodoStore) List(ctx context.Context) ([]*domain.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		ORDER BY created_at DESC, id DESC
	`
	return s.queryTodos(ctx, "list", query)
}

// GetByID implements store.TodoStore.GetByID.
// Returns store.ErrTodoNotFound if the todo does not exist.
func (s *PostgresTodoStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Todo, error) {
	return s.getByID(ctx, id, "get", `
		SELECT `+todoColumns+`
		FROM todos
		WHERE id = $1
	`)
}

// GetByIDForUpdate implements store.TodoStore.GetByIDForUpdate.
// The row stays locked with SELECT ... FOR UPDATE until the transaction ends,
// so a concurrent patch waits instead of reading a stale copy.
func (s *PostgresTodoStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Todo, error) {
	return s.getByID(ctx, id, "get_for_update", `
		SELECT `+todoColumns+`
		FROM todos
		WHERE id = $1
		FOR UPDATE
	`)
}

func (s *PostgresTodoStore) getByID(ctx context.Context, id uuid.UUID, op, query string) (*domain.Todo, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	todo, err := scanTodo(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("todo not found", slog.String("todo_id", id.String()))
			return nil, store.ErrTodoNotFound
		}
		log.Error("failed to get todo by ID",
			slog.String("error", err.Error()),
			slog.String("todo_id", id.String()))
		return nil, store.NewStoreError("todo", op, "query failed", MapError(err))
	}

	return todo, nil
}

// Create implements store.TodoStore.Create.
// Returns validation errors from the domain Todo if data is invalid.
func (s *PostgresTodoStore) Create(ctx context.Context, todo *domain.Todo) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := todo.Validate(); err != nil {
		log.Warn("todo validation failed during create",
			slog.String("error", err.Error()),
			slog.String("todo_id", todo.ID.String()))
		return err
	}

	query := `
		INSERT INTO todos (` + todoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		todo.ID,
		todo.Title,
		todo.IsCompleted,
		string(todo.Priority),
		todo.CreatedAt,
		todo.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create todo",
			slog.String("error", err.Error()),
			slog.String("todo_id", todo.ID.String()))
		return store.NewStoreError("todo", "create", "insert failed", MapError(err))
	}

	log.Info("todo created successfully",
		slog.String("todo_id", todo.ID.String()),
		slog.String("priority", string(todo.Priority)))
	return nil
}

// Update implements store.TodoStore.Update.
// Only the mutable columns are written; created_at is left untouched.
// Returns store.ErrTodoNotFound if the todo does not exist.
func (s *PostgresTodoStore) Update(ctx context.Context, todo *domain.Todo) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := todo.Validate(); err != nil {
		log.Warn("todo validation failed during update",
			slog.String("error", err.Error()),
			slog.String("todo_id", todo.ID.String()))
		return err
	}

	query := `
		UPDATE todos
		SET title = $1, is_completed = $2, priority = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		todo.Title,
		todo.IsCompleted,
		string(todo.Priority),
		todo.UpdatedAt,
		todo.ID,
	)
	if err != nil {
		log.Error("failed to update todo",
			slog.String("error", err.Error()),
			slog.String("todo_id", todo.ID.String()))
		return store.NewStoreError("todo", "update", "update failed", MapError(err))
	}

	if err := checkRowsAffected(result, "update"); err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("todo not found for update", slog.String("todo_id", todo.ID.String()))
		}
		return err
	}

	log.Info("todo updated successfully",
		slog.String("todo_id", todo.ID.String()),
		slog.Bool("is_completed", todo.IsCompleted))
	return nil
}

// Delete implements store.TodoStore.Delete.
// Returns store.ErrTodoNotFound if the todo does not exist.
func (s *PostgresTodoStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete todo",
			slog.String("error", err.Error()),
			slog.String("todo_id", id.String()))
		return store.NewStoreError("todo", "delete", "delete failed", MapError(err))
	}

	if err := checkRowsAffected(result, "delete"); err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("todo not found for delete", slog.String("todo_id", id.String()))
		}
		return err
	}

	log.Info("todo deleted successfully", slog.String("todo_id", id.String()))
	return nil
}

// WithTx implements store.TodoStore.WithTx.
// The returned store runs every statement inside tx.
func (s *PostgresTodoStore) WithTx(tx *sql.Tx) store.TodoStore {
	return &PostgresTodoStore{
		db:     tx,
		sqlDB:  s.sqlDB,
		logger: s.logger,
	}
}

// DB implements store.TodoStore.DB.
func (s *PostgresTodoStore) DB() *sql.DB {
	return s.sqlDB
}
