//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/phrazzld/todo-summary-api/internal/domain"
	"github.com/phrazzld/todo-summary-api/internal/platform/migrate"
	"github.com/phrazzld/todo-summary-api/internal/platform/postgres"
	"github.com/phrazzld/todo-summary-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to DATABASE_URL, applies migrations and empties the todos table.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping PostgreSQL integration test")
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, migrate.Run(ctx, db, postgres.Dialect, postgres.Migrations, "up", nil))

	_, err = db.ExecContext(ctx, "DELETE FROM todos")
	require.NoError(t, err)

	return db
}

func TestPostgresTodoStore_Integration(t *testing.T) {
	db := openTestDB(t)
	s := postgres.NewPostgresTodoStore(db, nil)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Microsecond)
	titles := []string{"Write report", "Call client", "Book travel"}
	created := make([]*domain.Todo, 0, len(titles))
	for i, title := range titles {
		todo, err := domain.NewTodo(title, domain.PriorityMedium)
		require.NoError(t, err)
		todo.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		todo.UpdatedAt = todo.CreatedAt
		require.NoError(t, s.Create(ctx, todo))
		created = append(created, todo)
	}

	completed := *created[1]
	require.NoError(t, completed.ApplyPatch(domain.TodoPatch{IsCompleted: boolPtr(true)}))
	require.NoError(t, s.Update(ctx, &completed))

	pending, err := s.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "Write report", pending[0].Title)
	assert.Equal(t, "Book travel", pending[1].Title)

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Book travel", all[0].Title, "List returns newest first")

	got, err := s.GetByID(ctx, created[1].ID)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)
	assert.True(t, got.CreatedAt.Equal(created[1].CreatedAt), "update must not touch created_at")

	require.NoError(t, s.Delete(ctx, created[0].ID))
	_, err = s.GetByID(ctx, created[0].ID)
	assert.ErrorIs(t, err, store.ErrTodoNotFound)
}
