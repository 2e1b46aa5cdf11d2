// Package cache provides an ephemeral SQLite cache of fetched citation
// records, keyed by persistent key, so re-exporting a bibliography does not
// re-hit the remote service.
package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps a SQLite cache database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path, creating
// parent directories as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &Store{db: db}, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS records (
			key        TEXT PRIMARY KEY,
			text       TEXT NOT NULL,
			fetched_at INTEGER NOT NULL
		);
	`)
	return err
}

// Get returns the cached record text for a key, if present.
func (s *Store) Get(key string) (string, bool, error) {
	var text string
	err := s.db.QueryRow(`SELECT text FROM records WHERE key = ?`, key).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading cache: %w", err)
	}
	return text, true, nil
}

// Put stores the record text for a key, replacing any prior entry.
func (s *Store) Put(key, text string) error {
	_, err := s.db.Exec(
		`INSERT INTO records (key, text, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET text = excluded.text, fetched_at = excluded.fetched_at`,
		key, text, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}

// Close closes the cache database.
func (s *Store) Close() error {
	return s.db.Close()
}
