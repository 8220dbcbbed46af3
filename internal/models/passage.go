// ABOUTME: Passage is the unit of retrieval: a chunk of source text plus its embedding
// ABOUTME: Defines Passage, SearchResult, and ScoredPassage structures
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Passage represents an embedded chunk of a source document.
// Passages are immutable once created; the only way to remove one
// from the index is a full rebuild.
type Passage struct {
	ID       string    `json:"id"`
	Content  string    `json:"content"`
	Vector   []float64 `json:"-"`
	FilePath string    `json:"file_path"`
	FileName string    `json:"file_name"`
	Category string    `json:"category"`
	Tags     []string  `json:"tags,omitempty"`
	Position int       `json:"position"`
}

// NewPassageID generates a unique passage identifier
func NewPassageID() string {
	return fmt.Sprintf("chunk_%s_%s", time.Now().Format("20060102_150405"), uuid.New().String()[:8])
}

// SearchResult is a passage with its similarity score from index search.
// Scores are inner products over unit vectors, so cosine similarity.
type SearchResult struct {
	Passage Passage `json:"passage"`
	Score   float64 `json:"score"`
}

// ScoredPassage is a passage with a reranker relevance score, which may
// order differently than the embedding similarity.
type ScoredPassage struct {
	Passage        Passage `json:"passage"`
	RelevanceScore float64 `json:"relevance_score"`
}
