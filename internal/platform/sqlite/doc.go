// Package sqlite provides SQLite-backed implementations of the interfaces in
// internal/store for local, single-user use such as the deck CLI.
//
// It uses the pure Go modernc.org/sqlite driver and sqlx for row mapping.
package sqlite
