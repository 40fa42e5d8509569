// ABOUTME: System prompts for the classifier, dispatcher, and order handlers
// ABOUTME: Prompts pin the JSON envelope shapes the routing loop understands
package agents

import (
	"fmt"
	"sort"
	"strings"

	"github.com/harper/support-desk/internal/routing"
)

// DefaultChatModel is the default completion model for responders.
const DefaultChatModel = "gpt-4o-mini"

const classifierPrompt = `You are a customer-support triage assistant. Decide whether the user's message is answerable from the FAQ or needs intent extraction.

If the FAQ answers it, return ONLY this JSON:
{"type": "cqa_result", "answer": "<answer text>", "terminated": "True"}

Otherwise extract the intent and entities and return ONLY this JSON:
{"type": "clu_result", "intent": "<intent name>", "entities": [{"category": "<category>", "text": "<text>"}], "confidence": <0.0-1.0>, "terminated": "False"}

Known intents: OrderStatus, CancelOrder, RefundStatus.
Do not use any special characters that would make the JSON invalid. Return nothing but the JSON object.`

const dispatcherPrompt = `You are a head support assistant. The previous message is a triage result with an intent and entities. Choose the support agent that handles that intent and return ONLY this JSON:
{"target_agent": "<agent name>", "intent": "<intent name>", "entities": [...], "terminated": "False"}

Route OrderStatus to %s, CancelOrder to %s, RefundStatus to %s.
The response must be a valid JSON object with no special characters.`

const handlerPromptFormat = `You are %s, a customer-support agent that handles %s requests. Resolve the request from the conversation. If you need more information from the user, say so in the response and set need_more_info to "True", otherwise set it to "False". Return ONLY this JSON:
{"response": "<response text>", "terminated": "True", "need_more_info": "<True or False>"}`

// handlerDuty maps a handler's position in the roster to what it does. The
// reference deployment ships status, cancellation, and refund handlers in
// that order; extra handlers fall back to a generic duty.
var handlerDuties = []string{"order status", "order cancellation", "order refund"}

// buildPrompts returns the system prompt for every responder in the roster.
func buildPrompts(roster routing.Roster) map[string]string {
	prompts := make(map[string]string, len(roster.Handlers)+2)
	prompts[roster.Classifier] = classifierPrompt

	// The dispatcher prompt names the actual handlers so dispatch decisions
	// stay inside the roster.
	dispatcherTargets := make([]string, 3)
	for i := range dispatcherTargets {
		if i < len(roster.Handlers) {
			dispatcherTargets[i] = roster.Handlers[i]
		} else {
			dispatcherTargets[i] = roster.Classifier
		}
	}
	prompts[roster.Dispatcher] = fmt.Sprintf(dispatcherPrompt,
		dispatcherTargets[0], dispatcherTargets[1], dispatcherTargets[2])

	for i, h := range roster.Handlers {
		duty := "customer support"
		if i < len(handlerDuties) {
			duty = handlerDuties[i]
		}
		prompts[h] = fmt.Sprintf(handlerPromptFormat, h, duty)
	}
	return prompts
}

// PromptFor exposes a responder's system prompt, mainly for diagnostics.
func (r *OpenAIRegistry) PromptFor(name string) (string, bool) {
	p, ok := r.prompts[name]
	return p, ok
}

// Describe returns a short human-readable summary of the registry.
func (r *OpenAIRegistry) Describe() string {
	names := make([]string, 0, len(r.prompts))
	for name := range r.prompts {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("model=%s responders=%s", r.model, strings.Join(names, ","))
}
