// Package sqlite provides a SQLite-backed conversion history store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. The database schema is
// managed through versioned migrations embedded in the migrations/ directory.
//
// By default, the database is stored at ~/.notedmd/data/history.db.
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
