// ABOUTME: Metadata records for ingested documents and the query log
// ABOUTME: One DocumentRecord per source file, one QueryLogEntry per query attempt
package models

import "time"

// DocumentRecord tracks an ingested source file. (FilePath, FileHash) is
// a pair of unique keys: duplicate ingestion of either is rejected unless
// forced.
type DocumentRecord struct {
	ID         int64     `json:"id"`
	FilePath   string    `json:"file_path"`
	FileName   string    `json:"file_name"`
	FileSize   int64     `json:"file_size"`
	FileHash   string    `json:"file_hash"`
	ChunkCount int       `json:"chunk_count"`
	Category   string    `json:"category"`
	Tags       []string  `json:"tags,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	IngestedAt time.Time `json:"ingested_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// QueryLogEntry records one query attempt, success or failure.
// Entries are written exactly once per query and never deleted here.
type QueryLogEntry struct {
	ID              int64     `json:"id"`
	QueryText       string    `json:"query_text"`
	ResponseText    string    `json:"response_text,omitempty"`
	RetrievedChunks int       `json:"retrieved_chunks"`
	ResponseTime    float64   `json:"response_time"`
	Timestamp       time.Time `json:"timestamp"`
	Success         bool      `json:"success"`
	ErrorMessage    string    `json:"error_message,omitempty"`
}
