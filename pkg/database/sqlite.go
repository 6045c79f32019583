// Package database manages the embedded SQLite store.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the embedded SQLite handle.
type DB struct {
	*sql.DB
	path string
}

// Config holds store configuration.
type Config struct {
	// Path is the SQLite database file. ":memory:" gives an ephemeral store,
	// used by tests.
	Path string
	// BusyTimeout is how long a writer waits on a locked database before
	// giving up. Defaults to 5s.
	BusyTimeout time.Duration
}

// NewConnection opens (creating if needed) the embedded database.
// WAL mode keeps readers unblocked while a write is in flight; foreign keys
// must be switched on per connection for the cascade deletes to work.
func NewConnection(ctx context.Context, cfg *Config) (*DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	busyTimeout := cfg.BusyTimeout
	if busyTimeout == 0 {
		busyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf(
		"file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)",
		cfg.Path, busyTimeout.Milliseconds(),
	)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer at a time; funnelling all access through a
	// single connection avoids SQLITE_BUSY under concurrent requests while
	// WAL keeps reads cheap.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db, path: cfg.Path}, nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}
