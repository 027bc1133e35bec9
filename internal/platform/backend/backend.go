// Package backend opens the configured storage backend and exposes its stores.
package backend

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/studydeck/internal/config"
	"github.com/phrazzld/studydeck/internal/platform/postgres"
	"github.com/phrazzld/studydeck/internal/platform/sqlite"
	"github.com/phrazzld/studydeck/internal/store"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Backend bundles a database connection with the stores built on it.
type Backend struct {
	Driver   string
	DB       *sql.DB
	Cards    store.CardStore
	Progress store.ProgressStore
	Settings store.SettingsStore
}

// Open connects to the database described by cfg and builds its stores.
// When cfg.AutoMigrate is set, pending migrations are applied.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}

	b := &Backend{Driver: cfg.Driver}

	switch cfg.Driver {
	case DriverPostgres:
		db, err := postgres.Open(ctx, cfg.URL, postgres.PoolConfig{
			MaxOpenConns: cfg.MaxOpenConns,
			MaxIdleConns: cfg.MaxIdleConns,
		})
		if err != nil {
			return nil, err
		}
		b.DB = db
		b.Cards = postgres.NewPostgresCardStore(db, logger)
		b.Progress = postgres.NewPostgresProgressStore(db, logger)
		b.Settings = postgres.NewPostgresSettingsStore(db, logger)
	case DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		b.DB = db.DB
		b.Cards = sqlite.NewCardStore(db.DB, logger)
		b.Progress = sqlite.NewProgressStore(db.DB, logger)
		b.Settings = sqlite.NewSettingsStore(db.DB, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	logger.Info("database connection established", slog.String("driver", cfg.Driver))

	if cfg.AutoMigrate {
		if err := b.Migrate(ctx, "up"); err != nil {
			_ = b.Close()
			return nil, err
		}
	}

	return b, nil
}

// Migrate runs a goose command against the backend's embedded migrations.
func (b *Backend) Migrate(ctx context.Context, command string) error {
	var err error
	switch b.Driver {
	case DriverPostgres:
		err = postgres.Migrate(ctx, b.DB, command)
	case DriverSQLite:
		err = sqlite.Migrate(ctx, b.DB, command)
	default:
		err = fmt.Errorf("unsupported database driver %q", b.Driver)
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	return nil
}

// Close closes the database connection.
func (b *Backend) Close() error {
	if b.DB == nil {
		return nil
	}
	return b.DB.Close()
}
