package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/todo-summary-api/internal/store"
)

type pgErrorMapping struct {
	sentinel error
	kind     string
}

// pgErrorMappings maps SQLSTATE codes raised by the todos schema to store sentinels.
var pgErrorMappings = map[string]pgErrorMapping{
	"23505": {store.ErrDuplicate, "unique violation"},
	"23514": {store.ErrInvalidEntity, "check constraint violation"},
	"23502": {store.ErrInvalidEntity, "not null violation"},
	"22001": {store.ErrInvalidEntity, "value too long"},
	"22P02": {store.ErrInvalidEntity, "invalid text representation"},
}

// MapError maps a database error to the matching store sentinel.
// The driver error stays in the chain for logs and errors.As.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if m, ok := pgErrorMappings[pgErr.Code]; ok {
			detail := pgErr.ConstraintName
			if detail == "" {
				detail = pgErr.ColumnName
			}
			return fmt.Errorf("%w: %s (%s): %w", m.sentinel, m.kind, detail, err)
		}
	}

	return err
}

// checkRowsAffected returns store.ErrTodoNotFound when an UPDATE or DELETE
// touched no rows.
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
