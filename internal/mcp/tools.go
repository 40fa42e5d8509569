// ABOUTME: MCP tool definitions and registration for the support desk
// ABOUTME: Exposes turn processing and transcript review over stdio
package mcp

import (
	"github.com/harper/support-desk/internal/history"
	"github.com/harper/support-desk/internal/orchestrator"
	"github.com/harper/support-desk/internal/storage/sqlite"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server. transcripts may be
// nil when transcript recording is disabled.
func RegisterTools(server *mcpserver.MCPServer, coordinator *orchestrator.Coordinator, sessions history.Store, transcripts *sqlite.TranscriptStore) *Handlers {
	handlers := &Handlers{
		coordinator: coordinator,
		sessions:    sessions,
		transcripts: transcripts,
	}

	// 1. process_turn - Run one customer-support turn through the routing loop
	server.AddTool(mcp.Tool{
		Name:        "process_turn",
		Description: "Process one customer-support message. Routes the message through triage, dispatch, and the order handlers, and returns the final reply or a structured error.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"message": map[string]interface{}{
					"type":        "string",
					"description": "The customer's message",
				},
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Optional session to continue; omit to start a new conversation",
				},
			},
			Required: []string{"message"},
		},
	}, handlers.ProcessTurn)

	// 2. list_transcripts - Review recently completed turns
	server.AddTool(mcp.Tool{
		Name:        "list_transcripts",
		Description: "List recently completed support turns, newest first, including failures.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum transcripts to return (default 20)",
				},
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Restrict to one session's turns",
				},
			},
		},
	}, handlers.ListTranscripts)

	return handlers
}
