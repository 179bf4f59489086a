// Package db provides the SQLite connection and schema for the sync ledger.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQLite database connection
type DB struct {
	*sql.DB
}

// Open opens the database and initializes the schema
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &DB{db}, nil
}

// initSchema creates all required tables
func initSchema(db *sql.DB) error {
	// Append-only history of device interactions, one session per run
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS sync_ledger (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_type TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			session_id TEXT NOT NULL,
			idempotency_key TEXT,
			address TEXT,
			payload TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_sync_ledger_ts ON sync_ledger(timestamp);
		CREATE INDEX IF NOT EXISTS idx_sync_ledger_session ON sync_ledger(session_id, event_type);
	`)
	if err != nil {
		return fmt.Errorf("failed to create sync_ledger table: %w", err)
	}

	// One row per idempotency key
	_, err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_sync_ledger_idempotency
		ON sync_ledger(idempotency_key)
		WHERE idempotency_key IS NOT NULL AND idempotency_key != '';
	`)
	if err != nil {
		return fmt.Errorf("failed to create idx_sync_ledger_idempotency index: %w", err)
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
