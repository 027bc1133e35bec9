package sqlite

import (
	"context"
	"database/sql"
	"embed"

	"github.com/phrazzld/studydeck/internal/platform/migrate"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrate runs a goose command against db using the embedded SQLite migrations.
func Migrate(ctx context.Context, db *sql.DB, command string) error {
	return migrate.Run(ctx, db, migrate.Source{
		Dialect: "sqlite3",
		FS:      migrationFS,
		Dir:     "migrations",
	}, command)
}
