// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which means a C compiler on every build host
// and painful cross-compilation. modernc.org/sqlite is a pure Go
// translation of the SQLite sources — works everywhere Go works.
//
// The schema is migrated at open time with CREATE TABLE IF NOT EXISTS,
// which is idempotent and good enough for an embedded single-file database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	// Blank import: the driver registers itself with database/sql under the
	// name "sqlite" in its init().
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides the repository methods.
// One value implements every repository interface; the server wires the
// same *DB into each service under the interface it needs.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
// Use ":memory:" in tests for a throwaway database.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Force an immediate connection so a bad path surfaces here, not on
	// the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in progress — required
	// for a web server where list requests race ad deletions.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are off by default in SQLite; the comment/image/avatar
	// rows all reference their parents, so turn enforcement on.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. The server defers this on shutdown so
// the WAL is flushed and the file lock released.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			first_name    TEXT NOT NULL DEFAULT '',
			last_name     TEXT NOT NULL DEFAULT '',
			phone         TEXT NOT NULL DEFAULT '',
			role          TEXT NOT NULL DEFAULT 'USER' CHECK (role IN ('USER','ADMIN'))
		);

		CREATE TABLE IF NOT EXISTS ads (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			title       TEXT NOT NULL,
			price       INTEGER NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			user_id     INTEGER NOT NULL REFERENCES users(id)
		);
		CREATE INDEX IF NOT EXISTS idx_ads_user_id ON ads(user_id);

		CREATE TABLE IF NOT EXISTS comments (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			text       TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			user_id    INTEGER NOT NULL REFERENCES users(id),
			ad_id      INTEGER NOT NULL REFERENCES ads(id)
		);
		CREATE INDEX IF NOT EXISTS idx_comments_ad_id ON comments(ad_id);
		CREATE INDEX IF NOT EXISTS idx_comments_user_id ON comments(user_id);

		CREATE TABLE IF NOT EXISTS avatars (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			file_path     TEXT NOT NULL,
			endpoint_path TEXT NOT NULL,
			media_type    TEXT NOT NULL,
			user_id       INTEGER NOT NULL UNIQUE REFERENCES users(id)
		);

		CREATE TABLE IF NOT EXISTS images (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			file_path     TEXT NOT NULL,
			endpoint_path TEXT NOT NULL,
			media_type    TEXT NOT NULL,
			ad_id         INTEGER NOT NULL UNIQUE REFERENCES ads(id)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// inTx runs fn inside a transaction, rolling back on error or panic.
// Commit errors are returned to the caller — a failed commit means none of
// fn's writes happened.
func (db *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() // no-op after a successful Commit

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
