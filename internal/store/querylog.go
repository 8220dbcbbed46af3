// ABOUTME: Query log operations for the metadata store
// ABOUTME: Append-only; entries are never deleted by this layer
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/nclsec/ctfrag/internal/models"
)

// AggregateStats summarizes the metadata store contents
type AggregateStats struct {
	TotalDocuments int `json:"total_documents"`
	TotalChunks    int `json:"total_chunks"`
	TotalQueries   int `json:"total_queries"`
}

// AppendQueryLog records one query attempt. Called exactly once per
// query regardless of outcome.
func (s *Store) AppendQueryLog(entry *models.QueryLogEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	res, err := s.conn.Exec(`
		INSERT INTO query_logs (query_text, response_text, retrieved_chunks,
		                        response_time, timestamp, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.QueryText, nullIfEmpty(entry.ResponseText), entry.RetrievedChunks,
		entry.ResponseTime, entry.Timestamp, boolToInt(entry.Success), nullIfEmpty(entry.ErrorMessage))
	if err != nil {
		return fmt.Errorf("failed to append query log: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		entry.ID = id
	}
	return nil
}

// RecentQueryLogs returns the newest query log entries
func (s *Store) RecentQueryLogs(limit int) ([]models.QueryLogEntry, error) {
	rows, err := s.conn.Query(`
		SELECT id, query_text, response_text, retrieved_chunks, response_time,
		       timestamp, success, error_message
		FROM query_logs
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs: %w", err)
	}
	defer rows.Close()

	entries := []models.QueryLogEntry{}
	for rows.Next() {
		var (
			e        models.QueryLogEntry
			response sql.NullString
			errMsg   sql.NullString
			success  int
		)
		if err := rows.Scan(&e.ID, &e.QueryText, &response, &e.RetrievedChunks,
			&e.ResponseTime, &e.Timestamp, &success, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan query log: %w", err)
		}
		e.ResponseText = response.String
		e.ErrorMessage = errMsg.String
		e.Success = success == 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats returns aggregate counts across documents and query logs
func (s *Store) Stats() (*AggregateStats, error) {
	stats := &AggregateStats{}

	row := s.conn.QueryRow(`SELECT COUNT(*), COALESCE(SUM(chunk_count), 0) FROM documents`)
	if err := row.Scan(&stats.TotalDocuments, &stats.TotalChunks); err != nil {
		return nil, fmt.Errorf("failed to aggregate documents: %w", err)
	}

	row = s.conn.QueryRow(`SELECT COUNT(*) FROM query_logs`)
	if err := row.Scan(&stats.TotalQueries); err != nil {
		return nil, fmt.Errorf("failed to count query logs: %w", err)
	}

	return stats, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
