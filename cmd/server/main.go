// ABOUTME: Main entry point for the document QA MCP server with stdio transport
// ABOUTME: Wires config, metadata store, vector index, LLM client, and tools
package main

import (
	"log"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/nclsec/ctfrag/internal/config"
	"github.com/nclsec/ctfrag/internal/index"
	"github.com/nclsec/ctfrag/internal/ingest"
	"github.com/nclsec/ctfrag/internal/llm"
	"github.com/nclsec/ctfrag/internal/mcp"
	"github.com/nclsec/ctfrag/internal/pipeline"
	"github.com/nclsec/ctfrag/internal/store"
)

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

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("Failed to create data directories: %v", err)
	}

	metadata, err := store.Open(cfg.MetadataDBPath)
	if err != nil {
		log.Fatalf("Failed to open metadata store: %v", err)
	}
	defer metadata.Close()

	manager := index.NewManager(cfg.IndexDir, cfg.EmbeddingDimension)
	outcome, err := manager.Initialize()
	if err != nil {
		log.Fatalf("Failed to initialize vector index: %v", err)
	}
	log.Printf("Vector index ready (%s, %d vectors)", outcome, manager.Stats().VectorCount)

	client, err := llm.NewClient(cfg)
	if err != nil {
		log.Fatalf("Failed to create LLM client: %v", err)
	}

	ingestSvc := ingest.NewService(cfg, manager, metadata, client)

	var reranker pipeline.Reranker
	if cfg.UseReranker {
		reranker = client
	}
	pipe := pipeline.New(cfg, manager, metadata, client, client, reranker, rebuildAdapter{svc: ingestSvc})

	server := mcpserver.NewMCPServer(
		"CTF Document QA",
		"0.1.0",
	)

	mcp.RegisterTools(server, cfg, manager, metadata, ingestSvc, pipe)

	log.Println("Document QA MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
