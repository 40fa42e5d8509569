// ABOUTME: Session is the disposable runtime for one attempt at a support turn
// ABOUTME: Run drives the select-invoke-append loop; Close tears down exactly once
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/harper/support-desk/internal/agents"
	"github.com/harper/support-desk/internal/models"
	"github.com/harper/support-desk/internal/routing"
)

// ErrRoutingDeadEnd is returned by Run when routing resolves no responder
// before any terminal reply was produced. The attempt has nothing to show
// the user and counts as a failure against the retry budget.
var ErrRoutingDeadEnd = errors.New("no responder resolvable and no terminal reply produced")

// Session is one attempt's isolated execution scope. It owns a derived
// context that every responder invocation runs under, so closing the
// session abandons in-flight work. Sessions are never reused: the
// coordinator creates a fresh one per attempt and closes it on every exit
// path.
type Session struct {
	id       string
	registry agents.Registry
	roster   routing.Roster

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewSession creates a session bound to the given registry and roster. Its
// lifetime is scoped inside ctx.
func NewSession(ctx context.Context, registry agents.Registry, roster routing.Roster) *Session {
	sctx, cancel := context.WithCancel(ctx)
	return &Session{
		id:       uuid.New().String(),
		registry: registry,
		roster:   roster,
		ctx:      sctx,
		cancel:   cancel,
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Run executes the routing loop until a terminal reply is produced or no
// responder can be resolved. It returns the full history of the attempt and
// the final parsed envelope.
func (s *Session) Run(history []models.Message) ([]models.Message, models.Envelope, error) {
	for {
		next, ok := routing.SelectNext(history, s.roster)
		if !ok {
			if len(history) > 0 {
				env := models.ParseEnvelope(history[len(history)-1].Content)
				if routing.ShouldStop(env) {
					return history, env, nil
				}
			}
			return history, nil, ErrRoutingDeadEnd
		}

		log.Printf("[SYSTEM] session %s: routing to %s", s.id, next)
		reply, err := s.registry.Invoke(s.ctx, next, history)
		if err != nil {
			return history, nil, fmt.Errorf("invoking %s: %w", next, err)
		}

		history = models.Append(history, reply.Author, reply.Content)

		env := models.ParseEnvelope(reply.Content)
		if routing.ShouldStop(env) {
			return history, env, nil
		}
	}
}

// Close tears the session down, abandoning any in-flight responder call. It
// is safe to call on every exit path and runs at most once; teardown never
// masks the attempt's own outcome.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		log.Printf("[SYSTEM] session %s: disposed", s.id)
	})
}
