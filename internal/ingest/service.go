// ABOUTME: Document ingestion: hash, dedup, chunk, embed, index, record
// ABOUTME: Also owns the destructive rebuild used to repair index/metadata divergence
package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/nclsec/ctfrag/internal/chunker"
	"github.com/nclsec/ctfrag/internal/config"
	"github.com/nclsec/ctfrag/internal/index"
	"github.com/nclsec/ctfrag/internal/models"
	"github.com/nclsec/ctfrag/internal/store"
)

// Ingestion statuses
const (
	StatusSuccess = "success"
	StatusSkipped = "skipped"
	StatusError   = "error"
)

// DefaultExtensions are the file types ingested from directories
var DefaultExtensions = []string{".txt", ".md"}

// Embedder maps text to a fixed-dimension unit vector
type Embedder interface {
	EmbedText(text string) ([]float64, error)
}

// Options control a single file ingestion
type Options struct {
	Category string
	Tags     []string
	Notes    string
	// Force bypasses duplicate detection entirely. A forced re-ingest
	// appends parallel vectors without removing the old ones; only a
	// full rebuild removes the stale set.
	Force bool
}

// Result reports the outcome of one file ingestion
type Result struct {
	Status     string `json:"status"`
	FilePath   string `json:"file_path"`
	FileName   string `json:"file_name,omitempty"`
	ChunkCount int    `json:"chunk_count,omitempty"`
	FileSize   int64  `json:"file_size,omitempty"`
	Category   string `json:"category,omitempty"`
	Reason     string `json:"reason,omitempty"`
	Error      string `json:"error,omitempty"`
}

// DirResult aggregates per-file results for a directory ingestion
type DirResult struct {
	TotalFiles int      `json:"total_files"`
	Successful int      `json:"successful"`
	Skipped    int      `json:"skipped"`
	Failed     int      `json:"failed"`
	Details    []Result `json:"details"`
}

// RebuildResult reports what a rebuild recovered
type RebuildResult struct {
	Documents int `json:"documents"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// Service ingests documents into the vector index and metadata store.
// Whole-file ingestion is serialized by mu so the index's
// persist-per-write never interleaves between files.
type Service struct {
	cfg      *config.Config
	manager  *index.Manager
	metadata *store.Store
	embedder Embedder
	splitter *chunker.Chunker

	mu sync.Mutex
}

// NewService creates an ingestion service
func NewService(cfg *config.Config, manager *index.Manager, metadata *store.Store, embedder Embedder) *Service {
	return &Service{
		cfg:      cfg,
		manager:  manager,
		metadata: metadata,
		embedder: embedder,
		splitter: chunker.New(cfg.ChunkSize, cfg.ChunkOverlap),
	}
}

// IngestFile ingests a single file. Duplicate files (by path or by
// content hash) are skipped unless opts.Force is set. Errors are
// reported in the Result rather than aborting directory runs.
func (s *Service) IngestFile(filePath string, opts Options) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ingestLocked(filePath, opts)
}

func (s *Service) ingestLocked(filePath string, opts Options) Result {
	info, err := os.Stat(filePath)
	if err != nil {
		return Result{Status: StatusError, FilePath: filePath, Error: fmt.Sprintf("file not found: %v", err)}
	}

	fileHash, err := hashFile(filePath)
	if err != nil {
		return Result{Status: StatusError, FilePath: filePath, Error: err.Error()}
	}

	if !opts.Force {
		dup, err := s.isDuplicate(filePath, fileHash)
		if err != nil {
			return Result{Status: StatusError, FilePath: filePath, Error: err.Error()}
		}
		if dup {
			log.Printf("Skipping duplicate document: %s", filePath)
			return Result{Status: StatusSkipped, FilePath: filePath, Reason: "duplicate"}
		}
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return Result{Status: StatusError, FilePath: filePath, Error: err.Error()}
	}

	chunks := s.splitter.Split(string(content))
	if len(chunks) == 0 {
		return Result{Status: StatusError, FilePath: filePath, Error: "no content extracted from file"}
	}

	category := opts.Category
	if category == "" {
		category = "general"
	}
	fileName := filepath.Base(filePath)

	passages := make([]models.Passage, 0, len(chunks))
	for i, chunk := range chunks {
		vector, err := s.embedder.EmbedText(chunk)
		if err != nil {
			return Result{Status: StatusError, FilePath: filePath, Error: fmt.Sprintf("embedding chunk %d: %v", i, err)}
		}
		passages = append(passages, models.Passage{
			ID:       models.NewPassageID(),
			Content:  chunk,
			Vector:   vector,
			FilePath: filePath,
			FileName: fileName,
			Category: category,
			Tags:     opts.Tags,
			Position: i,
		})
	}

	if _, err := s.manager.AddPassages(passages); err != nil {
		// In-memory index may now be ahead of disk; the add is not durable
		return Result{Status: StatusError, FilePath: filePath, Error: err.Error()}
	}

	doc := &models.DocumentRecord{
		FilePath:   filePath,
		FileName:   fileName,
		FileSize:   info.Size(),
		FileHash:   fileHash,
		ChunkCount: len(chunks),
		Category:   category,
		Tags:       opts.Tags,
		Notes:      opts.Notes,
	}
	if err := s.metadata.Upsert(doc); err != nil {
		return Result{Status: StatusError, FilePath: filePath, Error: err.Error()}
	}

	log.Printf("Ingested %s: %d chunks", fileName, len(chunks))
	return Result{
		Status:     StatusSuccess,
		FilePath:   filePath,
		FileName:   fileName,
		ChunkCount: len(chunks),
		FileSize:   info.Size(),
		Category:   category,
	}
}

// IngestDirectory ingests all matching files under dir, recursively
func (s *Service) IngestDirectory(dir string, opts Options) (*DirResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ingestDirectoryLocked(dir, opts)
}

func (s *Service) ingestDirectoryLocked(dir string, opts Options) (*DirResult, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("invalid directory: %s", dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		for _, want := range DefaultExtensions {
			if ext == want {
				files = append(files, path)
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	result := &DirResult{TotalFiles: len(files)}
	for _, f := range files {
		r := s.ingestLocked(f, opts)
		result.Details = append(result.Details, r)
		switch r.Status {
		case StatusSuccess:
			result.Successful++
		case StatusSkipped:
			result.Skipped++
		default:
			result.Failed++
		}
	}

	log.Printf("Directory ingestion complete: %d successful, %d skipped, %d failed",
		result.Successful, result.Skipped, result.Failed)
	return result, nil
}

// Rebuild is the destructive recovery path: it clears the vector index
// (persisting the empty state), deletes the metadata database file, and
// re-ingests the configured data directory from scratch. All prior
// metadata customization (category, tags, notes) is lost.
func (s *Service) Rebuild() (*RebuildResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Printf("Rebuilding index from %s", s.cfg.DataDir)

	if err := s.manager.Clear(); err != nil {
		return nil, fmt.Errorf("failed to clear index: %w", err)
	}
	if err := s.metadata.Reset(); err != nil {
		return nil, fmt.Errorf("failed to reset metadata store: %w", err)
	}

	dir, err := s.ingestDirectoryLocked(s.cfg.DataDir, Options{})
	if err != nil {
		// Missing data dir means the rebuild recovered nothing; the
		// system is left empty but consistent
		log.Printf("Warning: rebuild found no ingestable source: %v", err)
		return &RebuildResult{}, nil
	}

	if dir.Successful == 0 {
		log.Println("Warning: rebuild ingested zero documents")
	} else {
		log.Printf("Rebuild complete: %d documents re-ingested", dir.Successful)
	}

	return &RebuildResult{
		Documents: dir.Successful,
		Skipped:   dir.Skipped,
		Failed:    dir.Failed,
	}, nil
}

// DeleteDocument removes a document's metadata record only. The
// passages indexed from it remain in the vector index until a full
// rebuild; this is a documented limitation, not an oversight.
func (s *Service) DeleteDocument(id int64) (bool, error) {
	log.Printf("Warning: deleting document %d (metadata only, vectors remain)", id)
	return s.metadata.Delete(id)
}

// isDuplicate checks both unique keys: exact path match and exact
// content-hash match (catches renamed/moved copies of known content)
func (s *Service) isDuplicate(filePath, fileHash string) (bool, error) {
	byPath, err := s.metadata.FindByPath(filePath)
	if err != nil {
		return false, err
	}
	if byPath != nil {
		return true, nil
	}

	byHash, err := s.metadata.FindByHash(fileHash)
	if err != nil {
		return false, err
	}
	return byHash != nil, nil
}

// hashFile computes the streaming SHA-256 of a file
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
