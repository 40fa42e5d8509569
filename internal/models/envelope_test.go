// ABOUTME: Tests for envelope parsing and variant classification
// ABOUTME: Verifies structural classification and string-boolean normalization

package models

import (
	"reflect"
	"testing"
)

func TestParseEnvelope_FaqResult(t *testing.T) {
	env := ParseEnvelope(`{"type":"cqa_result","answer":"9am-5pm Mon-Fri","terminated":"True"}`)

	faq, ok := env.(FaqResult)
	if !ok {
		t.Fatalf("ParseEnvelope() = %T, want FaqResult", env)
	}
	if faq.Answer != "9am-5pm Mon-Fri" {
		t.Errorf("Answer = %q, want %q", faq.Answer, "9am-5pm Mon-Fri")
	}
	if !faq.Terminated {
		t.Error("Terminated should be true")
	}
}

func TestParseEnvelope_IntentResult(t *testing.T) {
	env := ParseEnvelope(`{"type":"clu_result","intent":"CancelOrder","entities":[{"category":"order_id","text":"1234"}],"confidence":0.92,"terminated":"False"}`)

	intent, ok := env.(IntentResult)
	if !ok {
		t.Fatalf("ParseEnvelope() = %T, want IntentResult", env)
	}
	if intent.Intent != "CancelOrder" {
		t.Errorf("Intent = %q, want %q", intent.Intent, "CancelOrder")
	}
	if intent.Confidence != 0.92 {
		t.Errorf("Confidence = %v, want 0.92", intent.Confidence)
	}
	if intent.Terminated {
		t.Error("Terminated should be false")
	}
	wantEntities := []Entity{{Category: "order_id", Text: "1234"}}
	if !reflect.DeepEqual(intent.Entities, wantEntities) {
		t.Errorf("Entities = %v, want %v", intent.Entities, wantEntities)
	}
}

func TestParseEnvelope_DispatchDecision(t *testing.T) {
	// Dispatch decisions carry no type discriminator; target_agent identifies them.
	env := ParseEnvelope(`{"target_agent":"OrderCancelAgent","intent":"CancelOrder","terminated":"False"}`)

	decision, ok := env.(DispatchDecision)
	if !ok {
		t.Fatalf("ParseEnvelope() = %T, want DispatchDecision", env)
	}
	if decision.TargetAgent != "OrderCancelAgent" {
		t.Errorf("TargetAgent = %q, want %q", decision.TargetAgent, "OrderCancelAgent")
	}
}

func TestParseEnvelope_HandlerReply(t *testing.T) {
	env := ParseEnvelope(`{"response":"Order 1234 cancelled.","terminated":"True","need_more_info":"False"}`)

	reply, ok := env.(HandlerReply)
	if !ok {
		t.Fatalf("ParseEnvelope() = %T, want HandlerReply", env)
	}
	if reply.Response != "Order 1234 cancelled." {
		t.Errorf("Response = %q, want %q", reply.Response, "Order 1234 cancelled.")
	}
	if !reply.Terminated {
		t.Error("Terminated should be true")
	}
	if reply.NeedMoreInfo {
		t.Error("NeedMoreInfo should be false")
	}
}

func TestParseEnvelope_BooleanForms(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"python-style True", `{"response":"x","terminated":"True"}`, true},
		{"python-style False", `{"response":"x","terminated":"False"}`, false},
		{"lowercase true", `{"response":"x","terminated":"true"}`, true},
		{"lowercase false", `{"response":"x","terminated":"false"}`, false},
		{"native true", `{"response":"x","terminated":true}`, true},
		{"native false", `{"response":"x","terminated":false}`, false},
		{"absent flag treated as false", `{"response":"x"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, ok := ParseEnvelope(tt.text).(HandlerReply)
			if !ok {
				t.Fatalf("ParseEnvelope(%q) did not yield HandlerReply", tt.text)
			}
			if reply.Terminated != tt.want {
				t.Errorf("Terminated = %v, want %v", reply.Terminated, tt.want)
			}
		})
	}
}

func TestParseEnvelope_InvalidBooleanIsUnparseable(t *testing.T) {
	env := ParseEnvelope(`{"response":"x","terminated":"maybe"}`)
	if _, ok := env.(Unparseable); !ok {
		t.Errorf("ParseEnvelope() = %T, want Unparseable for invalid boolean", env)
	}
}

func TestParseEnvelope_Unparseable(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"plain text", "hello there"},
		{"truncated json", `{"type":"cqa_result"`},
		{"json array", `[1,2,3]`},
		{"object with no structural fields", `{"foo":"bar"}`},
		{"unrecognized type tag", `{"type":"something_new"}`},
		{"empty string", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := ParseEnvelope(tt.text)
			raw, ok := env.(Unparseable)
			if !ok {
				t.Fatalf("ParseEnvelope(%q) = %T, want Unparseable", tt.text, env)
			}
			if raw.Raw != tt.text {
				t.Errorf("Raw = %q, want original text %q", raw.Raw, tt.text)
			}
		})
	}
}

func TestParseEnvelope_NeedMoreInfoAloneIsHandlerReply(t *testing.T) {
	env := ParseEnvelope(`{"need_more_info":"True","terminated":"True"}`)
	reply, ok := env.(HandlerReply)
	if !ok {
		t.Fatalf("ParseEnvelope() = %T, want HandlerReply", env)
	}
	if !reply.NeedMoreInfo {
		t.Error("NeedMoreInfo should be true")
	}
	if reply.Response != "" {
		t.Errorf("Response = %q, want empty", reply.Response)
	}
}
