// Package sqlitedb owns the shared SQLite plumbing for the ledger and
// memory stores: opening a database file, running embedded migrations and
// scoping every store operation to a single transaction.
package sqlitedb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Open opens (creating if needed) a SQLite database file. A busy timeout
// is set so concurrent writers from other connections or processes queue
// instead of failing immediately.
func Open(dbPath string) (*sql.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	return db, nil
}

// WithTx runs fn inside a unit of work: it begins a transaction, commits
// when fn returns nil and rolls back otherwise. Any failure surfaces as a
// *StorageError naming op; the transaction is released on every path.
func WithTx(ctx context.Context, db *sql.DB, op string, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return &StorageError{Op: op, Err: fmt.Errorf("begin: %w", err)}
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		if IsStorage(err) {
			return err
		}
		return &StorageError{Op: op, Err: err}
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return &StorageError{Op: op, Err: fmt.Errorf("commit: %w", err)}
	}

	return nil
}
