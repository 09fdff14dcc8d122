// Package migrate applies the embedded goose migrations shipped with each
// database backend.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
)

// Dir is the directory inside each backend's embedded filesystem that holds
// the SQL migration files.
const Dir = "migrations"

// Commands lists the supported migration commands.
var Commands = []string{"up", "down", "reset", "status", "version"}

// goose keeps its dialect, base filesystem and logger in package globals.
var mu sync.Mutex

// slogGooseLogger routes goose output through slog.
// Fatalf logs at error level instead of exiting so failures surface as returned errors.
type slogGooseLogger struct {
	logger *slog.Logger
}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Run executes a goose command against db using the migrations embedded in fsys.
// dialect is a goose dialect name such as "postgres" or "sqlite3".
func Run(
	ctx context.Context,
	db *sql.DB,
	dialect string,
	fsys fs.FS,
	command string,
	logger *slog.Logger,
) error {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(
		slog.String("component", "migrations"),
		slog.String("dialect", dialect),
		slog.String("command", command),
	)

	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(&slogGooseLogger{logger: log})

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	start := time.Now()

	var err error
	switch command {
	case "up":
		err = goose.UpContext(ctx, db, Dir)
	case "down":
		err = goose.DownContext(ctx, db, Dir)
	case "reset":
		err = goose.ResetContext(ctx, db, Dir)
	case "status":
		err = goose.StatusContext(ctx, db, Dir)
	case "version":
		err = goose.VersionContext(ctx, db, Dir)
	default:
		return fmt.Errorf(
			"unknown migration command: %s (expected one of %s)",
			command,
			strings.Join(Commands, ", "),
		)
	}

	if err != nil {
		log.Error("migration command failed",
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		return fmt.Errorf("migration command '%s' failed: %w", command, err)
	}

	log.Info("migration command executed successfully",
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}
