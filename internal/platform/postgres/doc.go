// Package postgres provides PostgreSQL-backed implementations of the
// interfaces in internal/store, plus the embedded schema migrations.
//
// Connections are opened through the pgx stdlib driver ("pgx") by the caller;
// every store accepts a store.DBTX so it can run on a *sql.DB or a *sql.Tx.
package postgres
