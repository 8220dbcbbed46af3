// ABOUTME: MCP command starts the Model Context Protocol server
// ABOUTME: Enables LLM agents to use the document QA tools via stdio
package commands

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/nclsec/ctfrag/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start the MCP (Model Context Protocol) server on stdio.

Exposes the ingest, query, and maintenance tools to LLM agents.
Configure the command in your agent's MCP server settings.`,
		RunE: runMCPServe,
		Example: `  # Start MCP server (typically launched by the agent)
  ctfrag mcp

  # Configure in the agent's MCP settings:
  # {
  #   "mcpServers": {
  #     "ctfrag": {
  #       "command": "ctfrag",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

func runMCPServe(cmd *cobra.Command, args []string) error {
	svc, err := openServices(true)
	if err != nil {
		return err
	}
	defer svc.close()

	server := mcpserver.NewMCPServer(
		"CTF Document QA",
		versionInfo.Version,
	)

	mcp.RegisterTools(server, svc.cfg, svc.manager, svc.metadata, svc.ingest, svc.pipeline)

	if !quiet {
		log.Println("Document QA MCP server starting on stdio...")
	}
	if err := mcpserver.ServeStdio(server); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
