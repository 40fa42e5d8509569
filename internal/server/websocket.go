// ABOUTME: WebSocket chat endpoint, one support turn per inbound frame
// ABOUTME: Frames reuse the /chat request and response shapes
package server

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // same-origin frontend plus non-browser clients
	},
}

// wsEvent is the server-to-client frame envelope.
type wsEvent struct {
	Type      string        `json:"type"`
	SessionID string        `json:"session_id,omitempty"`
	Messages  []interface{} `json:"messages,omitempty"`
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	if err := conn.WriteJSON(wsEvent{Type: "connected", SessionID: sessionID}); err != nil {
		log.Printf("websocket session %s: %v", sessionID, err)
		return
	}

	for {
		var req ChatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket session %s: %v", sessionID, err)
			}
			return
		}
		if req.Message == "" {
			continue
		}
		// The socket's session wins over whatever the frame carries, so one
		// connection stays one conversation.
		req.SessionID = sessionID

		_ = conn.WriteJSON(wsEvent{Type: "typing", SessionID: sessionID})

		resp := s.processTurn(r.Context(), req)
		if err := conn.WriteJSON(wsEvent{
			Type:      "turn",
			SessionID: resp.SessionID,
			Messages:  resp.Messages,
		}); err != nil {
			log.Printf("websocket session %s: %v", sessionID, err)
			return
		}
	}
}
