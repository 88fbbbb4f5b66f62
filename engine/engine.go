package engine

import (
	"database/sql"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver
)

// Open opens a SQLite database using the modernc.org/sqlite driver.
//
// For file-based databases, pass a path like "./samples.sqlite". For
// in-memory databases, pass ":memory:". A pooled :memory: database is private
// to each connection, so callers sharing one should SetMaxOpenConns(1).
func Open(dsn string) (*sql.DB, error) { return sql.Open("sqlite", dsn) }
