// ABOUTME: Tests for the turn coordinator's retry wrapper
// ABOUTME: Covers success, retry-then-succeed, exhaustion, timeout, panics, and cancellation

package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/harper/support-desk/internal/models"
)

// flakyRegistry fails a fixed number of invocations before delegating to the
// scripted registry underneath.
type flakyRegistry struct {
	mu           sync.Mutex
	failuresLeft int
	attempts     int
	inner        *scriptedRegistry
}

func (r *flakyRegistry) Invoke(ctx context.Context, name string, history []models.Message) (models.Message, error) {
	r.mu.Lock()
	r.attempts++
	if r.failuresLeft > 0 {
		r.failuresLeft--
		r.mu.Unlock()
		return models.Message{}, errors.New("transient model failure")
	}
	r.mu.Unlock()
	return r.inner.Invoke(ctx, name, history)
}

// stallingRegistry blocks every invocation until its context is cancelled.
type stallingRegistry struct{}

func (stallingRegistry) Invoke(ctx context.Context, name string, history []models.Message) (models.Message, error) {
	<-ctx.Done()
	return models.Message{}, ctx.Err()
}

// panickingRegistry panics on every invocation.
type panickingRegistry struct{}

func (panickingRegistry) Invoke(ctx context.Context, name string, history []models.Message) (models.Message, error) {
	panic("responder blew up")
}

func fastOptions() Options {
	return Options{
		MaxRetries:  3,
		TurnTimeout: 2 * time.Second,
		RetryDelay:  time.Millisecond,
	}
}

func TestProcessTurn_FAQFirstTry(t *testing.T) {
	reg := newScriptedRegistry().reply("TriageAgent", faqReply)
	c := NewCoordinator(reg, testRoster, fastOptions())

	result := c.ProcessTurn(context.Background(), "What are your store hours?", nil)
	if result.Failed() {
		t.Fatalf("ProcessTurn() failed: %+v", result.Failure)
	}
	if result.Reply != "9am-5pm Mon-Fri" {
		t.Errorf("Reply = %q, want FAQ answer", result.Reply)
	}
	if len(result.History) != 2 {
		t.Errorf("history length = %d, want 2", len(result.History))
	}
}

func TestProcessTurn_DispatchPath(t *testing.T) {
	reg := newScriptedRegistry().
		reply("TriageAgent", intentReply).
		reply("HeadSupportAgent", dispatchReply).
		reply("OrderCancelAgent", handlerReply)
	c := NewCoordinator(reg, testRoster, fastOptions())

	result := c.ProcessTurn(context.Background(), "Cancel order 1234", nil)
	if result.Failed() {
		t.Fatalf("ProcessTurn() failed: %+v", result.Failure)
	}
	if result.Reply != "Order 1234 cancelled." {
		t.Errorf("Reply = %q, want handler response", result.Reply)
	}
	if len(result.History) != 4 {
		t.Errorf("history length = %d, want 4", len(result.History))
	}
}

func TestProcessTurn_RetriesThenSucceeds(t *testing.T) {
	// First two attempts fail at the classifier; the third runs clean. Each
	// attempt restarts from the raw user message, so the scripted queue only
	// needs one clean pass.
	inner := newScriptedRegistry().reply("TriageAgent", faqReply)
	reg := &flakyRegistry{failuresLeft: 2, inner: inner}
	c := NewCoordinator(reg, testRoster, fastOptions())

	result := c.ProcessTurn(context.Background(), "store hours?", nil)
	if result.Failed() {
		t.Fatalf("ProcessTurn() failed after retries: %+v", result.Failure)
	}
	if result.Reply != "9am-5pm Mon-Fri" {
		t.Errorf("Reply = %q", result.Reply)
	}
	if reg.attempts != 3 {
		t.Errorf("registry invoked %d times, want 3", reg.attempts)
	}
	// Failed attempts must not leak partial replies into the history.
	if len(result.History) != 2 {
		t.Errorf("history length = %d, want 2", len(result.History))
	}
}

func TestProcessTurn_ExhaustsRetries(t *testing.T) {
	inner := newScriptedRegistry()
	reg := &flakyRegistry{failuresLeft: 100, inner: inner}
	c := NewCoordinator(reg, testRoster, fastOptions())

	// Prior history ends with a responder asking for more information, so
	// each attempt routes straight to the pinned handler and hits the
	// registry before failing.
	prior := models.Append(nil, models.UserAuthor, "Cancel my order")
	prior = models.Append(prior, "OrderCancelAgent", moreInfoReply)
	result := c.ProcessTurn(context.Background(), "It's order 1234", prior)

	if !result.Failed() {
		t.Fatal("ProcessTurn() succeeded, want embedded failure")
	}
	if result.Failure.Kind != models.FailureInvocation {
		t.Errorf("Failure.Kind = %q, want %q", result.Failure.Kind, models.FailureInvocation)
	}
	if reg.attempts != 3 {
		t.Errorf("registry invoked %d times, want exactly maxRetries", reg.attempts)
	}
	// The error result carries the prior history plus the user message, with
	// no responder replies from the failed attempts.
	if len(result.History) != 3 {
		t.Fatalf("history length = %d, want 3", len(result.History))
	}
	last := result.History[len(result.History)-1]
	if !last.IsUser() || last.Content != "It's order 1234" {
		t.Errorf("last history entry = %+v, want the user message", last)
	}
}

func TestProcessTurn_RoutingDeadEndReported(t *testing.T) {
	reg := newScriptedRegistry().
		reply("TriageAgent", intentReply, intentReply, intentReply).
		reply("HeadSupportAgent",
			`{"target_agent":"NoSuchAgent","terminated":"False"}`,
			`{"target_agent":"NoSuchAgent","terminated":"False"}`,
			`{"target_agent":"NoSuchAgent","terminated":"False"}`,
		)
	c := NewCoordinator(reg, testRoster, fastOptions())

	result := c.ProcessTurn(context.Background(), "Cancel order 1234", nil)
	if !result.Failed() {
		t.Fatal("ProcessTurn() succeeded, want routing failure")
	}
	if result.Failure.Kind != models.FailureRouting {
		t.Errorf("Failure.Kind = %q, want %q", result.Failure.Kind, models.FailureRouting)
	}
}

func TestProcessTurn_TimeoutBoundsAttempt(t *testing.T) {
	c := NewCoordinator(stallingRegistry{}, testRoster, Options{
		MaxRetries:  2,
		TurnTimeout: 20 * time.Millisecond,
		RetryDelay:  time.Millisecond,
	})

	start := time.Now()
	result := c.ProcessTurn(context.Background(), "hello", nil)
	elapsed := time.Since(start)

	if !result.Failed() {
		t.Fatal("ProcessTurn() succeeded against a stalled registry")
	}
	if result.Failure.Kind != models.FailureTimeout {
		t.Errorf("Failure.Kind = %q, want %q", result.Failure.Kind, models.FailureTimeout)
	}
	if elapsed > 2*time.Second {
		t.Errorf("turn took %s, bounded wait did not fire", elapsed)
	}
}

func TestProcessTurn_PanicBecomesFailure(t *testing.T) {
	c := NewCoordinator(panickingRegistry{}, testRoster, fastOptions())

	result := c.ProcessTurn(context.Background(), "hello", nil)
	if !result.Failed() {
		t.Fatal("ProcessTurn() succeeded against a panicking registry")
	}
	if result.Failure.Kind != models.FailureInvocation {
		t.Errorf("Failure.Kind = %q, want %q", result.Failure.Kind, models.FailureInvocation)
	}
	if !strings.Contains(result.Failure.Message, "panic") {
		t.Errorf("Failure.Message = %q, want panic mention", result.Failure.Message)
	}
}

func TestProcessTurn_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCoordinator(stallingRegistry{}, testRoster, fastOptions())
	result := c.ProcessTurn(ctx, "hello", nil)
	if !result.Failed() {
		t.Fatal("ProcessTurn() succeeded with a cancelled context")
	}
}

func TestProcessTurn_PriorHistoryPreserved(t *testing.T) {
	prior := models.Append(nil, models.UserAuthor, "Cancel my order")
	prior = models.Append(prior, "OrderCancelAgent", moreInfoReply)

	reg := newScriptedRegistry().reply("OrderCancelAgent", handlerReply)
	c := NewCoordinator(reg, testRoster, fastOptions())

	result := c.ProcessTurn(context.Background(), "It's order 1234", prior)
	if result.Failed() {
		t.Fatalf("ProcessTurn() failed: %+v", result.Failure)
	}
	if result.Reply != "Order 1234 cancelled." {
		t.Errorf("Reply = %q", result.Reply)
	}
	if len(result.History) != 4 {
		t.Fatalf("history length = %d, want 4", len(result.History))
	}
	if result.History[0].Content != "Cancel my order" {
		t.Errorf("prior history not preserved: %+v", result.History[0])
	}
	// The pinned handler, not the classifier, answered the follow-up.
	if got := reg.invoked(); len(got) != 1 || got[0] != "OrderCancelAgent" {
		t.Errorf("invocations = %v, want [OrderCancelAgent]", got)
	}
}

func TestNewCoordinator_Defaults(t *testing.T) {
	c := NewCoordinator(newScriptedRegistry(), testRoster, Options{})
	if c.maxRetries != DefaultMaxRetries {
		t.Errorf("maxRetries = %d, want %d", c.maxRetries, DefaultMaxRetries)
	}
	if c.turnTimeout != DefaultTurnTimeout {
		t.Errorf("turnTimeout = %s, want %s", c.turnTimeout, DefaultTurnTimeout)
	}
	if c.retryDelay != DefaultRetryDelay {
		t.Errorf("retryDelay = %s, want %s", c.retryDelay, DefaultRetryDelay)
	}
}
