// ABOUTME: Store keeps per-session conversation history between turns
// ABOUTME: In-memory implementation for single-process and test use
package history

import (
	"context"
	"sync"

	"github.com/harper/support-desk/internal/models"
)

// Store loads and saves a session's full conversation history. The
// coordinator requires whatever history exists to be passed in full on
// every turn; the store is how the serving layer keeps that history between
// requests (pinned-responder continuity depends on it).
type Store interface {
	Load(ctx context.Context, sessionID string) ([]models.Message, error)
	Save(ctx context.Context, sessionID string, history []models.Message) error
	Close() error
}

// MemoryStore is a process-local Store. A missing session loads as an empty
// history.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]models.Message
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]models.Message)}
}

// Load returns a copy of the session's history.
func (s *MemoryStore) Load(_ context.Context, sessionID string) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.sessions[sessionID]
	out := make([]models.Message, len(stored))
	copy(out, stored)
	return out, nil
}

// Save replaces the session's history.
func (s *MemoryStore) Save(_ context.Context, sessionID string, history []models.Message) error {
	stored := make([]models.Message, len(history))
	copy(stored, history)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = stored
	return nil
}

// Close releases nothing; it satisfies Store.
func (s *MemoryStore) Close() error {
	return nil
}
