// ABOUTME: Shared wiring and formatting helpers for CLI commands
// ABOUTME: Opens the config, metadata store, index, and LLM-backed services
package commands

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"

	"github.com/nclsec/ctfrag/internal/config"
	"github.com/nclsec/ctfrag/internal/index"
	"github.com/nclsec/ctfrag/internal/ingest"
	"github.com/nclsec/ctfrag/internal/llm"
	"github.com/nclsec/ctfrag/internal/pipeline"
	"github.com/nclsec/ctfrag/internal/store"
)

// services bundles the wired components a command needs
type services struct {
	cfg      *config.Config
	metadata *store.Store
	manager  *index.Manager
	client   *llm.Client
	ingest   *ingest.Service
	pipeline *pipeline.Pipeline
}

func (s *services) close() {
	if s.metadata != nil {
		_ = s.metadata.Close()
	}
}

// rebuildAdapter lets the pipeline trigger ingest-layer rebuilds
type rebuildAdapter struct {
	svc *ingest.Service
}

func (r rebuildAdapter) Rebuild() (*pipeline.RebuildSummary, error) {
	res, err := r.svc.Rebuild()
	if err != nil {
		return nil, err
	}
	return &pipeline.RebuildSummary{
		Documents: res.Documents,
		Skipped:   res.Skipped,
		Failed:    res.Failed,
	}, nil
}

// openServices wires the stores and, when needLLM is set, the
// embedding/generation services on top of them.
func openServices(needLLM bool) (*services, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("creating data directories: %w", err)
	}

	metadata, err := store.Open(cfg.MetadataDBPath)
	if err != nil {
		return nil, fmt.Errorf("opening metadata store: %w", err)
	}

	manager := index.NewManager(cfg.IndexDir, cfg.EmbeddingDimension)
	if _, err := manager.Initialize(); err != nil {
		_ = metadata.Close()
		return nil, fmt.Errorf("initializing vector index: %w", err)
	}

	svc := &services{cfg: cfg, metadata: metadata, manager: manager}
	if !needLLM {
		return svc, nil
	}

	client, err := llm.NewClient(cfg)
	if err != nil {
		_ = metadata.Close()
		return nil, fmt.Errorf("creating LLM client: %w", err)
	}
	svc.client = client
	svc.ingest = ingest.NewService(cfg, manager, metadata, client)

	var reranker pipeline.Reranker
	if cfg.UseReranker {
		reranker = client
	}
	svc.pipeline = pipeline.New(cfg, manager, metadata, client, client, reranker, rebuildAdapter{svc: svc.ingest})

	return svc, nil
}

// truncate shortens a string to maxLen runes, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	diff := time.Since(t)

	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	} else if diff < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	} else if diff < 7*24*time.Hour {
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
	return t.Format("2006-01-02")
}
