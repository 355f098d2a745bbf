// Package sqlite provides the SQLite-backed submission history.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each NNN_name.up.sql file records its own version
// in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.tagger/data/history.db
package sqlite
