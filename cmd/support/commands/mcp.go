// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents like Claude to run support turns via stdio
package commands

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/harper/support-desk/internal/config"
	"github.com/harper/support-desk/internal/mcp"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the support desk as an MCP (Model Context Protocol) server,
enabling LLM agents like Claude to process support turns and review
transcripts via stdio.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  support mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "support": {
  #       "command": "support",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil && !quiet {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	coordinator, err := buildCoordinator(cfg)
	if err != nil {
		return err
	}

	sessions, err := buildHistoryStore(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = sessions.Close() }()

	db, transcripts, err := openTranscripts(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	server := mcpserver.NewMCPServer(
		"Support Desk",
		"0.1.0",
	)
	mcp.RegisterTools(server, coordinator, sessions, transcripts)

	log.Println("support desk MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
