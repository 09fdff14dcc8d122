package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-summary-api/internal/domain"
	"github.com/phrazzld/todo-summary-api/internal/platform/logger"
	"github.com/phrazzld/todo-summary-api/internal/store"
)

// timeLayout is fixed width so lexical order of the stored text equals time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const todoColumns = `id, title, is_completed, priority, created_at, updated_at`

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// TodoStore implements store.TodoStore on top of SQLite.
type TodoStore struct {
	db     store.DBTX
	sqlDB  *sql.DB
	logger *slog.Logger
}

// NewTodoStore creates a SQLite TodoStore. The schema must already be migrated.
// If logger is nil, a default logger will be used.
func NewTodoStore(db *sql.DB, logger *slog.Logger) *TodoStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TodoStore{
		db:     db,
		sqlDB:  db,
		logger: logger.With(slog.String("component", "todo_store"), slog.String("driver", DriverName)),
	}
}

var _ store.TodoStore = (*TodoStore)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*domain.Todo, error) {
	var (
		todo      domain.Todo
		priority  string
		createdAt string
		updatedAt string
	)

	if err := row.Scan(&todo.ID, &todo.Title, &todo.IsCompleted, &priority, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if todo.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("stored created_at %q: %w", createdAt, err)
	}
	if todo.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("stored updated_at %q: %w", updatedAt, err)
	}
	todo.Priority = domain.Priority(priority)

	return &todo, nil
}

func (s *TodoStore) queryTodos(ctx context.Context, op, query string) ([]*domain.Todo, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query todos",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("todo", op, "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

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
		return nil, store.NewStoreError("todo", op, "row iteration failed", MapError(err))
	}

	return todos, nil
}

// ListPending returns every incomplete todo, oldest first.
func (s *TodoStore) ListPending(ctx context.Context) ([]*domain.Todo, error) {
	return s.queryTodos(ctx, "list_pending", `
		SELECT `+todoColumns+`
		FROM todos
		WHERE is_completed = 0
		ORDER BY created_at ASC, id ASC`)
}

// List returns every todo, newest first.
func (s *TodoStore) List(ctx context.Context) ([]*domain.Todo, error) {
	return s.queryTodos(ctx, "list", `
		SELECT `+todoColumns+`
		FROM todos
		ORDER BY created_at DESC, id DESC`)
}

// GetByID returns store.ErrTodoNotFound if no todo has the given id.
func (s *TodoStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Todo, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+todoColumns+` FROM todos WHERE id = ?`, id.String())

	todo, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTodoNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get todo by ID",
			slog.String("error", err.Error()),
			slog.String("todo_id", id.String()))
		return nil, store.NewStoreError("todo", "get", "query failed", MapError(err))
	}
	return todo, nil
}

// GetByIDForUpdate is GetByID. SQLite has no row locks; the store's single
// connection already serializes transactions.
func (s *TodoStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Todo, error) {
	return s.GetByID(ctx, id)
}

// Create inserts a validated todo.
func (s *TodoStore) Create(ctx context.Context, todo *domain.Todo) error {
	if err := todo.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO todos (`+todoColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		todo.ID.String(),
		todo.Title,
		todo.IsCompleted,
		string(todo.Priority),
		formatTime(todo.CreatedAt),
		formatTime(todo.UpdatedAt),
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create todo",
			slog.String("error", err.Error()),
			slog.String("todo_id", todo.ID.String()))
		return store.NewStoreError("todo", "create", "insert failed", MapError(err))
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("todo created successfully",
		slog.String("todo_id", todo.ID.String()))
	return nil
}

// Update writes the mutable columns of todo. created_at is never changed.
func (s *TodoStore) Update(ctx context.Context, todo *domain.Todo) error {
	if err := todo.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE todos SET title = ?, is_completed = ?, priority = ?, updated_at = ? WHERE id = ?`,
		todo.Title,
		todo.IsCompleted,
		string(todo.Priority),
		formatTime(todo.UpdatedAt),
		todo.ID.String(),
	)
	if err != nil {
		return store.NewStoreError("todo", "update", "update failed", MapError(err))
	}

	return checkRowsAffected(result, "update")
}

// Delete removes the todo with the given id.
func (s *TodoStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id.String())
	if err != nil {
		return store.NewStoreError("todo", "delete", "delete failed", MapError(err))
	}

	return checkRowsAffected(result, "delete")
}

func checkRowsAffected(result sql.Result, op string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("todo", op, "rows affected check failed", err)
	}
	if n == 0 {
		return store.ErrTodoNotFound
	}
	return nil
}

// WithTx returns a store bound to tx.
func (s *TodoStore) WithTx(tx *sql.Tx) store.TodoStore {
	return &TodoStore{db: tx, sqlDB: s.sqlDB, logger: s.logger}
}

// DB returns the underlying connection pool.
func (s *TodoStore) DB() *sql.DB {
	return s.sqlDB
}
