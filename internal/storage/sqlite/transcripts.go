// ABOUTME: Transcript persistence for completed support turns
// ABOUTME: Records user message plus final reply or failure for later review
package sqlite

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/harper/support-desk/internal/models"
)

// Transcript is one completed turn as stored on disk.
type Transcript struct {
	ID             string    `json:"id"`
	SessionID      string    `json:"session_id"`
	UserMessage    string    `json:"user_message"`
	Reply          string    `json:"reply,omitempty"`
	FailureKind    string    `json:"failure_kind,omitempty"`
	FailureMessage string    `json:"failure_message,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Failed reports whether the turn ended with an exhausted retry budget.
func (t Transcript) Failed() bool {
	return t.FailureKind != ""
}

// TranscriptStore records completed turns.
type TranscriptStore struct {
	db *DB
}

// NewTranscriptStore creates a store over an open database.
func NewTranscriptStore(db *DB) *TranscriptStore {
	return &TranscriptStore{db: db}
}

// Record persists the outcome of one turn and returns the transcript id.
func (s *TranscriptStore) Record(sessionID, userMessage string, result models.TurnResult) (string, error) {
	id := uuid.New().String()

	var reply, failureKind, failureMessage sql.NullString
	if result.Failed() {
		failureKind = sql.NullString{String: result.Failure.Kind, Valid: true}
		failureMessage = sql.NullString{String: result.Failure.Message, Valid: true}
	} else {
		reply = sql.NullString{String: result.Reply, Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO transcripts (id, session_id, user_message, reply, failure_kind, failure_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, sessionID, userMessage, reply, failureKind, failureMessage, time.Now().UTC())
	if err != nil {
		return "", err
	}
	return id, nil
}

// Recent returns the most recent transcripts, newest first.
func (s *TranscriptStore) Recent(limit int) ([]Transcript, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, session_id, user_message, reply, failure_kind, failure_message, created_at
		FROM transcripts
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanTranscripts(rows)
}

// BySession returns a session's transcripts in arrival order.
func (s *TranscriptStore) BySession(sessionID string) ([]Transcript, error) {
	rows, err := s.db.Query(`
		SELECT id, session_id, user_message, reply, failure_kind, failure_message, created_at
		FROM transcripts
		WHERE session_id = ?
		ORDER BY created_at ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanTranscripts(rows)
}

func scanTranscripts(rows *sql.Rows) ([]Transcript, error) {
	var out []Transcript
	for rows.Next() {
		var t Transcript
		var reply, fKind, fMsg sql.NullString
		if err := rows.Scan(&t.ID, &t.SessionID, &t.UserMessage, &reply, &fKind, &fMsg, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Reply = reply.String
		t.FailureKind = fKind.String
		t.FailureMessage = fMsg.String
		out = append(out, t)
	}
	return out, rows.Err()
}
