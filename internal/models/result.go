// ABOUTME: Turn result and failure record types returned by the coordinator
// ABOUTME: Success and failure are values of one discriminated shape, never panics
package models

// Failure kinds recorded against the retry budget.
const (
	FailureInvocation = "invocation_failure"
	FailureTimeout    = "timeout_exceeded"
	FailureRouting    = "routing_dead_end"
)

// FailureRecord captures the last failure of an exhausted turn.
type FailureRecord struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// TurnResult is the final outcome of one processed turn. Exactly one of
// Reply or Failure is meaningful: Failure is nil on success. History is the
// full conversation after the turn - on success it includes every responder
// reply from the winning attempt; on failure it carries only the prior
// history plus the user's message, since failed attempts discard progress.
type TurnResult struct {
	Reply   string         `json:"reply,omitempty"`
	Failure *FailureRecord `json:"error,omitempty"`
	History []Message      `json:"-"`
}

// Failed reports whether the turn exhausted its retry budget.
func (r TurnResult) Failed() bool {
	return r.Failure != nil
}
