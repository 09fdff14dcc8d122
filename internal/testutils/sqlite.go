package testutils

import (
	"context"
	"database/sql"
	"testing"

	"github.com/phrazzld/todo-summary-api/internal/platform/migrate"
	"github.com/phrazzld/todo-summary-api/internal/platform/sqlite"
	"github.com/stretchr/testify/require"
)

// OpenSQLite opens an in-memory SQLite database with every migration applied.
// The database is closed during test cleanup.
func OpenSQLite(t testing.TB) *sql.DB {
	t.Helper()

	ctx := context.Background()
	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrate.Run(ctx, db, sqlite.Dialect, sqlite.Migrations, "up", NewLogRecorder().Logger()))
	return db
}
