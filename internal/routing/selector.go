// ABOUTME: SelectNext decides which responder speaks next in a support turn
// ABOUTME: Pure function of history and roster; no-route is an explicit result
package routing

import "github.com/harper/support-desk/internal/models"

// SelectNext returns the name of the responder that should produce the next
// reply, given the conversation so far. The second return is false when no
// responder can be resolved: routing fails closed rather than guessing.
//
// The decision depends only on its arguments, so replaying the same history
// prefix always yields the same responder.
func SelectNext(history []models.Message, roster Roster) (string, bool) {
	if len(history) == 0 {
		return "", false
	}

	last := history[len(history)-1]

	if last.IsUser() {
		// The opening user message always goes to the classifier. A
		// follow-up user message in a continuing conversation goes back to
		// whichever responder spoke last, so a handler that asked for more
		// information stays pinned across turns.
		if len(history) == 1 {
			return roster.Classifier, true
		}
		prior := history[len(history)-2]
		if roster.Known(prior.Author) {
			return prior.Author, true
		}
		return "", false
	}

	switch last.Author {
	case roster.Classifier:
		switch models.ParseEnvelope(last.Content).(type) {
		case models.FaqResult:
			// The FAQ answer is itself terminal; the termination policy
			// stops the loop on it.
			return "", false
		case models.IntentResult:
			return roster.Dispatcher, true
		}
		return "", false

	case roster.Dispatcher:
		if decision, ok := models.ParseEnvelope(last.Content).(models.DispatchDecision); ok {
			if roster.Known(decision.TargetAgent) {
				return decision.TargetAgent, true
			}
		}
		return "", false
	}

	// Leaf handlers never route onward; their replies end the loop via the
	// termination policy.
	return "", false
}
