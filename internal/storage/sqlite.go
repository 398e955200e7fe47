package storage

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
	key        TEXT PRIMARY KEY,
	data       BLOB NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// SQLite implements Provider with a single-table embedded database. Each
// document is still written whole; the backend only changes where the bytes
// land, not the mutation model.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and applies the schema.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("storage: open sqlite: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Load returns the document row for key.
func (s *SQLite) Load(key string) ([]byte, error) {
	if !keyRe.MatchString(key) {
		return nil, fmt.Errorf("storage: invalid document key: %q", key)
	}
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM documents WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("storage: select %s: %w", key, err)
	}
	return data, nil
}

// Save upserts the document row. A single statement, so the replacement is
// atomic under SQLite's locking.
func (s *SQLite) Save(key string, data []byte) error {
	if !keyRe.MatchString(key) {
		return fmt.Errorf("storage: invalid document key: %q", key)
	}
	_, err := s.db.Exec(`
		INSERT INTO documents (key, data, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key, data)
	if err != nil {
		return fmt.Errorf("storage: upsert %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error { return s.db.Close() }
