// ABOUTME: Document record operations for the metadata store
// ABOUTME: Upsert keyed on file path; lookups by path and by content hash
package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/nclsec/ctfrag/internal/models"
)

// FindByPath retrieves a document record by file path. Returns nil
// without error when absent.
func (s *Store) FindByPath(filePath string) (*models.DocumentRecord, error) {
	return s.findDocument(`file_path = ?`, filePath)
}

// FindByHash retrieves a document record by content hash. Returns nil
// without error when absent.
func (s *Store) FindByHash(fileHash string) (*models.DocumentRecord, error) {
	return s.findDocument(`file_hash = ?`, fileHash)
}

func (s *Store) findDocument(where string, arg any) (*models.DocumentRecord, error) {
	row := s.conn.QueryRow(`
		SELECT id, file_path, file_name, file_size, file_hash, chunk_count,
		       category, tags, notes, ingested_at, updated_at
		FROM documents
		WHERE `+where+`
		LIMIT 1
	`, arg)

	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}
	return doc, nil
}

// Upsert inserts a document record, or refreshes hash, size, chunk count,
// category, tags, notes and the updated timestamp when the path already
// exists (forced re-ingestion).
func (s *Store) Upsert(doc *models.DocumentRecord) error {
	now := time.Now().UTC()
	res, err := s.conn.Exec(`
		INSERT INTO documents (file_path, file_name, file_size, file_hash, chunk_count,
		                       category, tags, notes, ingested_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_path) DO UPDATE SET
			file_size = excluded.file_size,
			file_hash = excluded.file_hash,
			chunk_count = excluded.chunk_count,
			category = excluded.category,
			tags = excluded.tags,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`, doc.FilePath, doc.FileName, doc.FileSize, doc.FileHash, doc.ChunkCount,
		doc.Category, joinTags(doc.Tags), doc.Notes, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil && id > 0 {
		doc.ID = id
	}
	doc.UpdatedAt = now
	return nil
}

// List returns documents, newest first, optionally filtered by category
func (s *Store) List(category string, limit int) ([]models.DocumentRecord, error) {
	query := `
		SELECT id, file_path, file_name, file_size, file_hash, chunk_count,
		       category, tags, notes, ingested_at, updated_at
		FROM documents`
	args := []any{}
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY ingested_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	docs := []models.DocumentRecord{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

// Delete removes a document record by ID. Metadata-only: vectors indexed
// from the file remain and are orphaned until a full rebuild.
func (s *Store) Delete(id int64) (bool, error) {
	res, err := s.conn.Exec(`DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(r rowScanner) (*models.DocumentRecord, error) {
	var (
		doc   models.DocumentRecord
		tags  sql.NullString
		notes sql.NullString
	)
	err := r.Scan(&doc.ID, &doc.FilePath, &doc.FileName, &doc.FileSize, &doc.FileHash,
		&doc.ChunkCount, &doc.Category, &tags, &notes, &doc.IngestedAt, &doc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if tags.Valid {
		doc.Tags = splitTags(tags.String)
	}
	if notes.Valid {
		doc.Notes = notes.String
	}
	return &doc, nil
}

func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
