package postgres

import (
	"context"
	"database/sql"
	"embed"

	"github.com/phrazzld/studydeck/internal/platform/migrate"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrate runs a goose command ("up", "down", "status", "version", "reset")
// against db using the embedded PostgreSQL migrations.
func Migrate(ctx context.Context, db *sql.DB, command string) error {
	return migrate.Run(ctx, db, migrate.Source{
		Dialect: "postgres",
		FS:      migrationFS,
		Dir:     "migrations",
	}, command)
}
