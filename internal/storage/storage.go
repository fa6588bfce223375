// Package storage is a small string key/value store persisted in SQLite.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// DB is a key/value store backed by a single SQLite table.
type DB struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string
}

// Open opens (creating if necessary) the database at dbPath.
func Open(dbPath string) (*DB, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage database: %w", err)
	}

	// SQLite serialises writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to connect to storage database: %w", err), closeErr)
	}

	if _, err := db.Exec(LocalStorageSchema); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to create storage table: %w", err), closeErr)
	}

	slog.Debug("Opened local storage", "path", dbPath)
	return &DB{db: db, path: dbPath}, nil
}

// Path returns the database file path.
func (s *DB) Path() string {
	return s.path
}

// Close closes the database connection
func (s *DB) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

// Get returns the value stored under key. ok is false when the key is absent.
func (s *DB) Get(key string) (value string, ok bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return "", false, errClosed
	}

	err = s.db.QueryRow(`SELECT value FROM local_storage WHERE storage_key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *DB) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return errClosed
	}

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO local_storage (storage_key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

// Delete removes key. It reports whether a value was removed.
func (s *DB) Delete(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return false, errClosed
	}

	result, err := s.db.Exec(`DELETE FROM local_storage WHERE storage_key = ?`, key)
	if err != nil {
		return false, fmt.Errorf("failed to delete %q: %w", key, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

var errClosed = errors.New("storage is closed")
