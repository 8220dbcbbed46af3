// ABOUTME: SQLite connection and lifecycle for document metadata
// ABOUTME: Uses modernc.org/sqlite for pure-Go SQLite support
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store is the durable record of ingested files and query history. It
// owns document records and query log entries; it has no view into the
// vector index, which is why metadata-only deletes can orphan vectors.
type Store struct {
	conn *sql.DB
	path string
}

// Open opens or creates the metadata database at path
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create metadata directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := conn.Exec(Schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{conn: conn, path: path}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.path
}

// Reset deletes the backing database file entirely and reopens a fresh
// one. Used by the destructive rebuild path; all document records and
// query history are lost.
func (s *Store) Reset() error {
	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(s.path + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove database file: %w", err)
		}
	}

	fresh, err := Open(s.path)
	if err != nil {
		return fmt.Errorf("failed to reopen database: %w", err)
	}
	s.conn = fresh.conn
	return nil
}
