// ABOUTME: MCP tool handler implementations for the document QA server
// ABOUTME: Bridges tool requests to the ingest service, query pipeline, and metadata store
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nclsec/ctfrag/internal/config"
	"github.com/nclsec/ctfrag/internal/index"
	"github.com/nclsec/ctfrag/internal/ingest"
	"github.com/nclsec/ctfrag/internal/pipeline"
	"github.com/nclsec/ctfrag/internal/store"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	cfg      *config.Config
	manager  *index.Manager
	metadata *store.Store
	ingest   *ingest.Service
	pipeline *pipeline.Pipeline
}

// IngestDocument handles the ingest_document tool
func (h *Handlers) IngestDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filePath, err := request.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError("file_path argument is required and must be a string"), nil
	}

	opts := ingest.Options{
		Category: request.GetString("category", ""),
		Tags:     config.SplitTags(request.GetString("tags", "")),
		Notes:    request.GetString("notes", ""),
		Force:    request.GetBool("force", false),
	}

	result := h.ingest.IngestFile(filePath, opts)
	return toolResultJSON(result)
}

// QueryDocuments handles the query_documents tool
func (h *Handlers) QueryDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	topK := request.GetInt("top_k", 0)
	includeSources := request.GetBool("include_sources", true)

	result := h.pipeline.Answer(query, topK, includeSources)
	return toolResultJSON(result)
}

// ListDocuments handles the list_documents tool
func (h *Handlers) ListDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := request.GetString("category", "")
	limit := request.GetInt("limit", 50)

	docs, err := h.metadata.List(category, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list documents: %v", err)), nil
	}

	entries := make([]map[string]interface{}, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, map[string]interface{}{
			"id":          doc.ID,
			"file_name":   doc.FileName,
			"file_path":   doc.FilePath,
			"file_size":   doc.FileSize,
			"chunk_count": doc.ChunkCount,
			"category":    doc.Category,
			"tags":        doc.Tags,
			"notes":       doc.Notes,
			"ingested_at": doc.IngestedAt.Format(time.RFC3339),
		})
	}

	return toolResultJSON(map[string]interface{}{
		"total":     len(entries),
		"documents": entries,
	})
}

// IndexStats handles the index_stats tool
func (h *Handlers) IndexStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idxStats := h.manager.Stats()

	aggregate, err := h.metadata.Stats()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read metadata stats: %v", err)), nil
	}

	return toolResultJSON(map[string]interface{}{
		"initialized":     idxStats.Initialized,
		"vector_count":    idxStats.VectorCount,
		"dimension":       idxStats.Dimension,
		"integrity_ok":    h.manager.ValidateIntegrity(),
		"total_documents": aggregate.TotalDocuments,
		"total_chunks":    aggregate.TotalChunks,
		"total_queries":   aggregate.TotalQueries,
	})
}

// RebuildIndex handles the rebuild_index tool
func (h *Handlers) RebuildIndex(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log.Println("Rebuild requested via MCP")

	summary, err := h.ingest.Rebuild()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rebuild failed: %v", err)), nil
	}

	return toolResultJSON(map[string]interface{}{
		"status":    "success",
		"documents": summary.Documents,
		"skipped":   summary.Skipped,
		"failed":    summary.Failed,
	})
}

// DeleteDocument handles the delete_document tool
func (h *Handlers) DeleteDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetInt("document_id", 0)
	if id <= 0 {
		return mcp.NewToolResultError("document_id argument is required and must be a positive number"), nil
	}

	deleted, err := h.ingest.DeleteDocument(int64(id))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete document: %v", err)), nil
	}
	if !deleted {
		return mcp.NewToolResultError(fmt.Sprintf("document %d not found", id)), nil
	}

	return toolResultJSON(map[string]interface{}{
		"status":      "success",
		"document_id": id,
	})
}

func toolResultJSON(payload interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
