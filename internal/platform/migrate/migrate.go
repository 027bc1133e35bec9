// Package migrate runs goose migrations from an embedded filesystem and
// routes goose's output through slog.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/phrazzld/studydeck/internal/platform/logger"
	"github.com/pressly/goose/v3"
)

// TableName is the goose version table used by every backend.
const TableName = "schema_migrations"

// Commands lists the supported goose commands.
var Commands = []string{"up", "down", "reset", "status", "version"}

// Source describes where a backend keeps its migrations.
type Source struct {
	Dialect string
	FS      fs.FS
	Dir     string
}

// goose keeps its configuration in package globals.
var gooseMu sync.Mutex

// slogGooseLogger adapts the goose logger interface to use slog
type slogGooseLogger struct {
	log *slog.Logger
}

// Printf implements the goose.Logger Printf method by forwarding messages to slog.Info
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.log.Info(fmt.Sprintf(format, v...))
}

// Fatalf implements the goose.Logger Fatalf method by forwarding error messages to slog.Error.
// It does not exit; the error is returned to the caller instead.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Error(fmt.Sprintf(format, v...))
}

// Run executes command against db using the migrations in src.
func Run(ctx context.Context, db *sql.DB, src Source, command string) error {
	if db == nil {
		return fmt.Errorf("migrate: db cannot be nil")
	}

	log := logger.FromContext(ctx).With(
		slog.String("component", "migrations"),
		slog.String("dialect", src.Dialect),
		slog.String("command", command))

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetLogger(&slogGooseLogger{log: log})
	goose.SetBaseFS(src.FS)
	defer goose.SetBaseFS(nil)
	goose.SetTableName(TableName)

	if err := goose.SetDialect(src.Dialect); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	log.Info("running migration command")

	var err error
	switch command {
	case "up":
		err = goose.UpContext(ctx, db, src.Dir)
	case "down":
		err = goose.DownContext(ctx, db, src.Dir)
	case "reset":
		err = goose.ResetContext(ctx, db, src.Dir)
	case "status":
		err = goose.StatusContext(ctx, db, src.Dir)
	case "version":
		err = goose.VersionContext(ctx, db, src.Dir)
	default:
		return fmt.Errorf("unknown migration command: %s (expected one of %v)", command, Commands)
	}
	if err != nil {
		log.Error("migration command failed", slog.String("error", err.Error()))
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	log.Info("migration command completed")
	return nil
}
