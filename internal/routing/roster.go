// ABOUTME: Roster is the injected set of responder names known to routing
// ABOUTME: Classifier and Dispatcher are fixed roles, handlers are leaf responders
package routing

import "github.com/harper/support-desk/internal/models"

// Roster names the responders a deployment knows about. It is constructed
// once from configuration and passed by value into routing decisions; there
// is no ambient registry lookup inside the routing logic.
type Roster struct {
	Classifier string
	Dispatcher string
	Handlers   []string
}

// Known reports whether name is a responder in this roster. The reserved
// user author is never a responder.
func (r Roster) Known(name string) bool {
	if name == "" || name == models.UserAuthor {
		return false
	}
	if name == r.Classifier || name == r.Dispatcher {
		return true
	}
	for _, h := range r.Handlers {
		if h == name {
			return true
		}
	}
	return false
}

// Names returns every responder name in the roster, fixed roles first.
func (r Roster) Names() []string {
	names := make([]string, 0, len(r.Handlers)+2)
	names = append(names, r.Classifier, r.Dispatcher)
	return append(names, r.Handlers...)
}
