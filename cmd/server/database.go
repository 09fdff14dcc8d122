package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/phrazzld/todo-summary-api/internal/config"
	"github.com/phrazzld/todo-summary-api/internal/platform/postgres"
	"github.com/phrazzld/todo-summary-api/internal/platform/sqlite"
	"github.com/phrazzld/todo-summary-api/internal/store"
)

const driverSQLite = "sqlite"

// openDatabase establishes a connection for the configured driver and verifies it.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	if cfg.Driver == driverSQLite {
		db, err := sqlite.Open(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		logger.Info("database connection established", slog.String("driver", cfg.Driver))
		return db, nil
	}

	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established", slog.String("driver", cfg.Driver))
	return db, nil
}

// newTodoStore returns the store implementation for the configured driver.
func newTodoStore(driver string, db *sql.DB, logger *slog.Logger) store.TodoStore {
	if driver == driverSQLite {
		return sqlite.NewTodoStore(db, logger)
	}
	return postgres.NewPostgresTodoStore(db, logger)
}

// migrationSource returns the goose dialect and embedded migrations for driver.
func migrationSource(driver string) (string, fs.FS) {
	if driver == driverSQLite {
		return sqlite.Dialect, sqlite.Migrations
	}
	return postgres.Dialect, postgres.Migrations
}
