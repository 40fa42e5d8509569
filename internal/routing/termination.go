// ABOUTME: ShouldStop is the termination predicate over the last parsed reply
// ABOUTME: Unparseable replies continue the loop, the opposite of routing's fail-closed rule
package routing

import "github.com/harper/support-desk/internal/models"

// ShouldStop reports whether the last reply ends the routing loop. A turn
// stops when a parseable envelope is terminated or asks the user for more
// information.
//
// Unparseable replies return false. Termination deliberately fails open
// where routing fails closed: a garbled reply keeps the loop alive so a
// later routing decision (or the attempt's bounded wait) settles the turn,
// rather than presenting garbage to the user as a final answer.
func ShouldStop(env models.Envelope) bool {
	switch e := env.(type) {
	case models.IntentResult:
		return e.Terminated
	case models.FaqResult:
		return e.Terminated
	case models.DispatchDecision:
		return e.Terminated
	case models.HandlerReply:
		return e.Terminated || e.NeedMoreInfo
	}
	return false
}
