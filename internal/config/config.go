// ABOUTME: Centralized configuration for the ctfrag retrieval service
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Config holds all configuration for the retrieval system
type Config struct {
	// OpenAI settings
	OpenAIKey      string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	LLMTimeout     time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Storage paths
	IndexDir       string
	MetadataDBPath string
	DataDir        string

	// Retrieval settings
	EmbeddingDimension int
	ChunkSize          int
	ChunkOverlap       int
	TopK               int
	MaxTopK            int
	RerankTopN         int
	UseReranker        bool
}

// DefaultDataDir returns the XDG-compliant base directory for ctfrag data
func DefaultDataDir() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "ctfrag")
	}
	return filepath.Join(xdg.DataHome, "ctfrag")
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	base := DefaultDataDir()

	cfg := &Config{
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		ChatModel:      getEnv("RAG_CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingModel: getEnv("RAG_EMBEDDING_MODEL", "text-embedding-3-small"),
		Timeout:        getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		LLMTimeout:     getEnvDuration("RAG_LLM_TIMEOUT", 120*time.Second),
		MaxRetries:     getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:     getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),

		IndexDir:       getEnv("RAG_INDEX_DIR", filepath.Join(base, "index")),
		MetadataDBPath: getEnv("RAG_METADATA_DB", filepath.Join(base, "metadata", "documents.db")),
		DataDir:        getEnv("RAG_DATA_DIR", "./docs"),

		EmbeddingDimension: getEnvInt("RAG_EMBEDDING_DIMENSION", 1536),
		ChunkSize:          getEnvInt("RAG_CHUNK_SIZE", 512),
		ChunkOverlap:       getEnvInt("RAG_CHUNK_OVERLAP", 50),
		TopK:               getEnvInt("RAG_TOP_K", 5),
		MaxTopK:            getEnvInt("RAG_MAX_TOP_K", 20),
		RerankTopN:         getEnvInt("RAG_RERANK_TOP_N", 3),
		UseReranker:        getEnvBool("RAG_USE_RERANKER", true),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.EmbeddingDimension <= 0 {
		return fmt.Errorf("RAG_EMBEDDING_DIMENSION must be positive, got %d", c.EmbeddingDimension)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("RAG_CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("RAG_CHUNK_OVERLAP must be in [0, chunk size), got %d", c.ChunkOverlap)
	}
	if c.TopK <= 0 || c.TopK > c.MaxTopK {
		return fmt.Errorf("RAG_TOP_K must be in [1, %d], got %d", c.MaxTopK, c.TopK)
	}
	if c.RerankTopN <= 0 {
		return fmt.Errorf("RAG_RERANK_TOP_N must be positive, got %d", c.RerankTopN)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	return nil
}

// EnsureDirectories creates the storage directories if they do not exist
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.IndexDir, filepath.Dir(c.MetadataDBPath)}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

// SplitTags parses a comma-separated tag string into a slice
func SplitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
