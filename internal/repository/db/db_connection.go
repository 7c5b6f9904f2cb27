// Package db opens the controller's SQLite file and keeps its schema current.
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteDriverName = "sqlite"

// One writer at a time; the status store and the event recorder share it.
var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA foreign_keys = ON",
	"PRAGMA busy_timeout = 5000",
}

// migrations are applied in order. The position of the last applied entry
// is stored in PRAGMA user_version, so entries are append-only.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS brew_status (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		tick INTEGER NOT NULL,
		brew_status TEXT NOT NULL,
		active_step TEXT,
		payload TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS brew_events (
		id TEXT PRIMARY KEY,
		occurred_at TIMESTAMP NOT NULL,
		type TEXT NOT NULL,
		message TEXT NOT NULL,
		meta TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_brew_events_occurred ON brew_events (occurred_at, type)`,
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
}

// InitDB opens or creates the SQLite file at path and migrates it.
func InitDB(path string) (*sql.DB, error) {
	conn, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := prepare(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

func prepare(conn *sql.DB) error {
	if err := conn.Ping(); err != nil {
		return fmt.Errorf("ping sqlite: %w", err)
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return migrate(conn)
}

// migrate applies the migrations newer than the file's user_version in one
// transaction.
func migrate(conn *sql.DB) error {
	var version int
	if err := conn.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version > len(migrations) {
		return fmt.Errorf("schema version %d is newer than this build (%d)", version, len(migrations))
	}
	if version == len(migrations) {
		return nil
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i := version; i < len(migrations); i++ {
		if _, err := tx.Exec(migrations[i]); err != nil {
			return fmt.Errorf("apply migration %d: %w", i+1, err)
		}
	}
	// PRAGMA does not take bind parameters.
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", len(migrations))); err != nil {
		return fmt.Errorf("store schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}
