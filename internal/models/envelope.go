// ABOUTME: Envelope variants parsed from responder replies
// ABOUTME: ParseEnvelope classifies raw text into a tagged union, never errors
package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Wire-format type discriminators emitted by the classifier responder.
const (
	TypeIntentResult = "clu_result"
	TypeFaqResult    = "cqa_result"
)

// Entity is one extracted entity from an intent classification.
type Entity struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

// Envelope is the structured payload decoded from a responder's raw reply.
// It is a closed union: IntentResult, FaqResult, DispatchDecision,
// HandlerReply, or Unparseable.
type Envelope interface {
	isEnvelope()
}

// IntentResult is the classifier's intent-extraction outcome.
type IntentResult struct {
	Intent     string
	Entities   []Entity
	Confidence float64
	Terminated bool
}

// FaqResult is the classifier's FAQ-answering outcome. The reply itself is
// terminal; no further routing happens after it.
type FaqResult struct {
	Answer     string
	Terminated bool
}

// DispatchDecision is the dispatcher's choice of leaf handler.
type DispatchDecision struct {
	TargetAgent string
	Intent      string
	Entities    []Entity
	Terminated  bool
}

// HandlerReply is a leaf handler's reply for the turn.
type HandlerReply struct {
	Response     string
	Terminated   bool
	NeedMoreInfo bool
}

// Unparseable wraps reply text that could not be decoded into any variant.
// Parse failure is a representable outcome, not an error.
type Unparseable struct {
	Raw string
}

func (IntentResult) isEnvelope()     {}
func (FaqResult) isEnvelope()        {}
func (DispatchDecision) isEnvelope() {}
func (HandlerReply) isEnvelope()     {}
func (Unparseable) isEnvelope()      {}

// flexBool accepts native JSON booleans as well as the string-typed
// "True"/"False" (any casing) that existing responders emit. The string
// form never leaks past the parser.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*b = flexBool(t)
		return nil
	case string:
		switch strings.ToLower(t) {
		case "true":
			*b = true
			return nil
		case "false":
			*b = false
			return nil
		}
	}
	return fmt.Errorf("not a boolean: %s", data)
}

// wireEnvelope holds every field any variant may carry. Pointer fields
// distinguish absent from zero-valued.
type wireEnvelope struct {
	Type         string    `json:"type"`
	Intent       string    `json:"intent"`
	Entities     []Entity  `json:"entities"`
	Confidence   float64   `json:"confidence"`
	Answer       string    `json:"answer"`
	TargetAgent  string    `json:"target_agent"`
	Response     *string   `json:"response"`
	Terminated   *flexBool `json:"terminated"`
	NeedMoreInfo *flexBool `json:"need_more_info"`
}

func boolOf(b *flexBool) bool {
	// Absent flags are treated as false, never assumed present.
	return b != nil && bool(*b)
}

// ParseEnvelope decodes responder reply text into an Envelope. It never
// fails: undecodable input yields Unparseable. Classification is purely
// structural - the type discriminator identifies classifier results, a
// target_agent field identifies dispatch decisions, and response or
// need_more_info fields identify handler replies. Dispatcher and handler
// messages carry no type field.
func ParseEnvelope(text string) Envelope {
	var wire wireEnvelope
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		return Unparseable{Raw: text}
	}

	switch wire.Type {
	case TypeFaqResult:
		return FaqResult{
			Answer:     wire.Answer,
			Terminated: boolOf(wire.Terminated),
		}
	case TypeIntentResult:
		return IntentResult{
			Intent:     wire.Intent,
			Entities:   wire.Entities,
			Confidence: wire.Confidence,
			Terminated: boolOf(wire.Terminated),
		}
	}

	if wire.TargetAgent != "" {
		return DispatchDecision{
			TargetAgent: wire.TargetAgent,
			Intent:      wire.Intent,
			Entities:    wire.Entities,
			Terminated:  boolOf(wire.Terminated),
		}
	}

	if wire.Response != nil || wire.NeedMoreInfo != nil {
		reply := HandlerReply{
			Terminated:   boolOf(wire.Terminated),
			NeedMoreInfo: boolOf(wire.NeedMoreInfo),
		}
		if wire.Response != nil {
			reply.Response = *wire.Response
		}
		return reply
	}

	return Unparseable{Raw: text}
}
