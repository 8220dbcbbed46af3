// ABOUTME: SQLite schema for document metadata and the query log
// ABOUTME: Documents carry two unique keys: file path and content hash
package store

// Schema contains all SQL statements for database initialization
const Schema = `
-- One row per ingested source file
CREATE TABLE IF NOT EXISTS documents (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    file_path TEXT NOT NULL UNIQUE,
    file_name TEXT NOT NULL,
    file_size INTEGER DEFAULT 0,
    file_hash TEXT NOT NULL,
    chunk_count INTEGER DEFAULT 0,
    category TEXT DEFAULT 'general',
    tags TEXT,
    notes TEXT,
    ingested_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- One row per query attempt, success or failure
CREATE TABLE IF NOT EXISTS query_logs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    query_text TEXT NOT NULL,
    response_text TEXT,
    retrieved_chunks INTEGER DEFAULT 0,
    response_time REAL DEFAULT 0,
    timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
    success INTEGER DEFAULT 1,
    error_message TEXT
);

CREATE INDEX IF NOT EXISTS idx_documents_hash ON documents(file_hash);
CREATE INDEX IF NOT EXISTS idx_documents_category ON documents(category);
CREATE INDEX IF NOT EXISTS idx_query_logs_timestamp ON query_logs(timestamp);
`
