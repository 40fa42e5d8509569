// ABOUTME: Coordinator runs one support turn to completion despite failures
// ABOUTME: Fresh session per attempt, bounded wait, fixed backoff, bounded retries
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/harper/support-desk/internal/agents"
	"github.com/harper/support-desk/internal/models"
	"github.com/harper/support-desk/internal/routing"
)

// Defaults for the retry wrapper, matching the reference deployment.
const (
	DefaultMaxRetries  = 3
	DefaultTurnTimeout = 35 * time.Second
	DefaultRetryDelay  = 1 * time.Second
)

// Options tunes the coordinator's retry wrapper. Zero values fall back to
// the defaults.
type Options struct {
	MaxRetries  int
	TurnTimeout time.Duration
	RetryDelay  time.Duration
}

// Coordinator processes support turns. Its configuration is read-only after
// construction, so one coordinator may serve concurrent turns; everything
// mutable lives in the per-attempt session and history.
type Coordinator struct {
	registry    agents.Registry
	roster      routing.Roster
	maxRetries  int
	turnTimeout time.Duration
	retryDelay  time.Duration
}

// NewCoordinator creates a coordinator over the given responder registry
// and roster.
func NewCoordinator(registry agents.Registry, roster routing.Roster, opts Options) *Coordinator {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.TurnTimeout <= 0 {
		opts.TurnTimeout = DefaultTurnTimeout
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	return &Coordinator{
		registry:    registry,
		roster:      roster,
		maxRetries:  opts.MaxRetries,
		turnTimeout: opts.TurnTimeout,
		retryDelay:  opts.RetryDelay,
	}
}

type runOutcome struct {
	history []models.Message
	env     models.Envelope
	err     error
}

// ProcessTurn runs the routing loop for one user message on top of the
// supplied prior history. Each attempt restarts from the raw user message
// in a fresh session; partial progress from a failed attempt is discarded.
// The result is always a value - after the retry budget is exhausted the
// last failure is embedded in it rather than raised.
func (c *Coordinator) ProcessTurn(ctx context.Context, userMessage string, prior []models.Message) models.TurnResult {
	var lastFailure *models.FailureRecord

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return c.failed(lastFailure, ctx.Err(), userMessage, prior)
			}
		}

		log.Printf("[SYSTEM] attempt %d: starting new session", attempt)
		session := NewSession(ctx, c.registry, c.roster)
		history := models.Append(prior, models.UserAuthor, userMessage)

		ch := make(chan runOutcome, 1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					ch <- runOutcome{err: fmt.Errorf("responder panic: %v", r)}
				}
			}()
			h, env, err := session.Run(history)
			ch <- runOutcome{history: h, env: env, err: err}
		}()

		timer := time.NewTimer(c.turnTimeout)
		select {
		case out := <-ch:
			timer.Stop()
			session.Close()
			if out.err != nil {
				lastFailure = recordFailure(out.err)
				log.Printf("[SYSTEM] attempt %d failed: %s: %s", attempt, lastFailure.Kind, lastFailure.Message)
				continue
			}
			return models.TurnResult{
				Reply:   finalReply(out.env, out.history),
				History: out.history,
			}
		case <-timer.C:
			session.Close()
			lastFailure = &models.FailureRecord{
				Kind:    models.FailureTimeout,
				Message: fmt.Sprintf("turn exceeded %s", c.turnTimeout),
			}
			log.Printf("[SYSTEM] attempt %d timed out after %s", attempt, c.turnTimeout)
		case <-ctx.Done():
			timer.Stop()
			session.Close()
			return c.failed(lastFailure, ctx.Err(), userMessage, prior)
		}
	}

	return c.failed(lastFailure, nil, userMessage, prior)
}

// failed builds the error-shaped result for an exhausted or cancelled turn.
// Failed attempts contribute no responder replies to the history.
func (c *Coordinator) failed(last *models.FailureRecord, ctxErr error, userMessage string, prior []models.Message) models.TurnResult {
	if ctxErr != nil && last == nil {
		last = &models.FailureRecord{
			Kind:    models.FailureTimeout,
			Message: ctxErr.Error(),
		}
	}
	if last == nil {
		last = &models.FailureRecord{
			Kind:    models.FailureInvocation,
			Message: "turn failed with no recorded attempt failure",
		}
	}
	return models.TurnResult{
		Failure: last,
		History: models.Append(prior, models.UserAuthor, userMessage),
	}
}

func recordFailure(err error) *models.FailureRecord {
	kind := models.FailureInvocation
	if errors.Is(err, ErrRoutingDeadEnd) {
		kind = models.FailureRouting
	}
	return &models.FailureRecord{Kind: kind, Message: err.Error()}
}

// finalReply extracts the user-facing text from the terminal envelope: the
// FAQ answer, the handler's response, or the raw reply for anything else
// that declared itself terminated.
func finalReply(env models.Envelope, history []models.Message) string {
	switch e := env.(type) {
	case models.FaqResult:
		return e.Answer
	case models.HandlerReply:
		return e.Response
	}
	if len(history) > 0 {
		return history[len(history)-1].Content
	}
	return ""
}
