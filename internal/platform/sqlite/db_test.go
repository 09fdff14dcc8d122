package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/phrazzld/todo-summary-api/internal/platform/sqlite"
	"github.com/phrazzld/todo-summary-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_RequiresDSN(t *testing.T) {
	_, err := sqlite.Open(context.Background(), "  ")
	assert.Error(t, err)
}

func TestMapError(t *testing.T) {
	assert.NoError(t, sqlite.MapError(nil))
	assert.ErrorIs(t, sqlite.MapError(sql.ErrNoRows), store.ErrNotFound)

	plain := errors.New("disk full")
	assert.Same(t, plain, sqlite.MapError(plain))
}

func TestMapError_CheckConstraint(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = db.ExecContext(ctx, `CREATE TABLE t (v TEXT NOT NULL CHECK (v <> ''))`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO t (v) VALUES ('')`)
	require.Error(t, err)

	assert.ErrorIs(t, sqlite.MapError(err), store.ErrInvalidEntity)
}
