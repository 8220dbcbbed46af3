// ABOUTME: MCP tool definitions and registration for the document QA server
// ABOUTME: Defines JSON schemas for the ingest, query, and maintenance tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/nclsec/ctfrag/internal/config"
	"github.com/nclsec/ctfrag/internal/index"
	"github.com/nclsec/ctfrag/internal/ingest"
	"github.com/nclsec/ctfrag/internal/pipeline"
	"github.com/nclsec/ctfrag/internal/store"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, cfg *config.Config, manager *index.Manager, metadata *store.Store, ingestSvc *ingest.Service, pipe *pipeline.Pipeline) *Handlers {
	handlers := &Handlers{
		cfg:      cfg,
		manager:  manager,
		metadata: metadata,
		ingest:   ingestSvc,
		pipeline: pipe,
	}

	// 1. ingest_document - Chunk, embed, and index a document
	server.AddTool(mcp.Tool{
		Name:        "ingest_document",
		Description: "Ingest a document into the knowledge base. Splits the file into chunks, embeds them, and records metadata. Duplicate files are skipped unless force is set.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"file_path": map[string]interface{}{
					"type":        "string",
					"description": "Path to the document file to ingest",
				},
				"category": map[string]interface{}{
					"type":        "string",
					"description": "Category label (e.g. 'crypto', 'pwn', 'web'). Defaults to 'general'.",
				},
				"tags": map[string]interface{}{
					"type":        "string",
					"description": "Comma-separated tags",
				},
				"notes": map[string]interface{}{
					"type":        "string",
					"description": "Free-form notes about the document",
				},
				"force": map[string]interface{}{
					"type":        "boolean",
					"description": "Re-ingest even if the file was already ingested",
				},
			},
			Required: []string{"file_path"},
		},
	}, handlers.IngestDocument)

	// 2. query_documents - Ask a question over the indexed documents
	server.AddTool(mcp.Tool{
		Name:        "query_documents",
		Description: "Answer a question using the indexed documents. Retrieves the most relevant chunks, optionally reranks them, and generates an answer with source attributions.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Question to answer",
				},
				"top_k": map[string]interface{}{
					"type":        "number",
					"description": "Number of chunks to retrieve (default: 5)",
					"default":     5,
				},
				"include_sources": map[string]interface{}{
					"type":        "boolean",
					"description": "Include source chunk previews in the response (default: true)",
					"default":     true,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.QueryDocuments)

	// 3. list_documents - List ingested documents
	server.AddTool(mcp.Tool{
		Name:        "list_documents",
		Description: "List ingested documents with their metadata, newest first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"category": map[string]interface{}{
					"type":        "string",
					"description": "Only list documents in this category",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of documents to return (default: 50)",
					"default":     50,
				},
			},
		},
	}, handlers.ListDocuments)

	// 4. index_stats - Report index and metadata statistics
	server.AddTool(mcp.Tool{
		Name:        "index_stats",
		Description: "Report vector index and metadata statistics, including an integrity check result.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.IndexStats)

	// 5. rebuild_index - Destructive rebuild from the data directory
	server.AddTool(mcp.Tool{
		Name:        "rebuild_index",
		Description: "Destructively rebuild the index: clears all vectors and metadata, then re-ingests every document in the data directory. Custom categories, tags, and notes are lost.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.RebuildIndex)

	// 6. delete_document - Remove a document's metadata record
	server.AddTool(mcp.Tool{
		Name:        "delete_document",
		Description: "Delete a document's metadata record. Its vectors remain in the index until the next rebuild.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"document_id": map[string]interface{}{
					"type":        "number",
					"description": "ID of the document record to delete",
				},
			},
			Required: []string{"document_id"},
		},
	}, handlers.DeleteDocument)

	return handlers
}
