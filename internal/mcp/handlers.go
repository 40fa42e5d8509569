// ABOUTME: MCP tool handler implementations for the support desk server
// ABOUTME: Tool failures are tool results, never transport errors
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/harper/support-desk/internal/history"
	"github.com/harper/support-desk/internal/orchestrator"
	"github.com/harper/support-desk/internal/storage/sqlite"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	coordinator *orchestrator.Coordinator
	sessions    history.Store
	transcripts *sqlite.TranscriptStore
}

// ProcessTurn handles the process_turn tool
func (h *Handlers) ProcessTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("message argument is required and must be a string"), nil
	}

	sessionID := request.GetString("session_id", "")
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	prior, err := h.sessions.Load(ctx, sessionID)
	if err != nil {
		log.Printf("loading session %s: %v (continuing with empty history)", sessionID, err)
		prior = nil
	}

	result := h.coordinator.ProcessTurn(ctx, message, prior)

	// A failed turn leaves the stored history untouched so the next turn
	// can still restart at the classifier (two consecutive user entries
	// would fail routing closed forever).
	if !result.Failed() {
		if err := h.sessions.Save(ctx, sessionID, result.History); err != nil {
			log.Printf("saving session %s: %v", sessionID, err)
		}
	}
	if h.transcripts != nil {
		if _, err := h.transcripts.Record(sessionID, message, result); err != nil {
			log.Printf("recording transcript for session %s: %v", sessionID, err)
		}
	}

	response := map[string]interface{}{
		"session_id": sessionID,
	}
	if result.Failed() {
		response["error"] = result.Failure
	} else {
		response["reply"] = result.Reply
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// ListTranscripts handles the list_transcripts tool
func (h *Handlers) ListTranscripts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.transcripts == nil {
		return mcp.NewToolResultError("transcript storage is not enabled"), nil
	}

	limit := request.GetInt("limit", 20)
	sessionID := request.GetString("session_id", "")

	var (
		transcripts []sqlite.Transcript
		err         error
	)
	if sessionID != "" {
		transcripts, err = h.transcripts.BySession(sessionID)
	} else {
		transcripts, err = h.transcripts.Recent(limit)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list transcripts: %v", err)), nil
	}

	responseJSON, err := json.Marshal(map[string]interface{}{
		"count":       len(transcripts),
		"transcripts": transcripts,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
