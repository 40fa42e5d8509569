// ABOUTME: HTTP boundary for the support desk: /chat, /ws, /healthz, static frontend
// ABOUTME: Per-turn failures ride inside a 200 body; HTTP errors are request-shape only
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/harper/support-desk/internal/history"
	"github.com/harper/support-desk/internal/orchestrator"
	"github.com/harper/support-desk/internal/storage/sqlite"
)

// ChatRequest is the inbound turn payload. SessionID is optional; a new
// session is minted when it is absent.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse carries the turn outcome. Messages holds either the reply
// text or a structured error object - callers discriminate on shape, not
// on HTTP status.
type ChatResponse struct {
	SessionID string        `json:"session_id"`
	Messages  []interface{} `json:"messages"`
}

// Server wires the coordinator to its inbound boundaries.
type Server struct {
	coordinator *orchestrator.Coordinator
	sessions    history.Store
	transcripts *sqlite.TranscriptStore
	staticDir   string
	mux         *http.ServeMux
}

// New creates a server. transcripts may be nil to disable recording;
// staticDir may be empty or missing to disable the frontend.
func New(coordinator *orchestrator.Coordinator, sessions history.Store, transcripts *sqlite.TranscriptStore, staticDir string) *Server {
	s := &Server{
		coordinator: coordinator,
		sessions:    sessions,
		transcripts: transcripts,
		staticDir:   staticDir,
		mux:         http.NewServeMux(),
	}

	s.mux.HandleFunc("/chat", s.handleChat)
	s.mux.HandleFunc("/ws", s.handleWS)
	s.mux.HandleFunc("/healthz", s.handleHealthz)

	if staticDir != "" {
		if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
			s.mux.Handle("/assets/", http.StripPrefix("/assets/",
				http.FileServer(http.Dir(filepath.Join(staticDir, "assets")))))
			s.mux.HandleFunc("/", s.handleIndex)
		} else {
			log.Printf("static dir %q not found, frontend disabled", staticDir)
		}
	}

	return s
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, filepath.Join(s.staticDir, "index.html"))
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	resp := s.processTurn(r.Context(), req)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("encoding chat response: %v", err)
	}
}

// processTurn loads the session's history, runs the turn, and persists the
// updated history and transcript. Shared by the HTTP, websocket, and MCP
// boundaries.
func (s *Server) processTurn(ctx context.Context, req ChatRequest) ChatResponse {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	prior, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		log.Printf("loading session %s: %v (continuing with empty history)", sessionID, err)
		prior = nil
	}

	result := s.coordinator.ProcessTurn(ctx, req.Message, prior)

	// A failed turn leaves the stored history untouched. Persisting its
	// trailing user message would make every later SelectNext see two user
	// entries in a row and fail closed, wedging the session for good.
	if !result.Failed() {
		if err := s.sessions.Save(ctx, sessionID, result.History); err != nil {
			log.Printf("saving session %s: %v", sessionID, err)
		}
	}
	if s.transcripts != nil {
		if _, err := s.transcripts.Record(sessionID, req.Message, result); err != nil {
			log.Printf("recording transcript for session %s: %v", sessionID, err)
		}
	}

	resp := ChatResponse{SessionID: sessionID}
	if result.Failed() {
		resp.Messages = []interface{}{map[string]interface{}{"error": result.Failure}}
	} else {
		resp.Messages = []interface{}{result.Reply}
	}
	return resp
}

// ProcessTurn exposes the shared turn path to non-HTTP boundaries.
func (s *Server) ProcessTurn(ctx context.Context, req ChatRequest) ChatResponse {
	return s.processTurn(ctx, req)
}
