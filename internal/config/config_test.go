// ABOUTME: Tests for environment-driven configuration loading and validation
// ABOUTME: Uses t.Setenv so environment changes are scoped per test

package config

import (
	"testing"
	"time"
)

// clearSupportEnv blanks every variable Load reads so tests see defaults
// unless they set their own values.
func clearSupportEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENAI_API_KEY",
		"SUPPORT_MODEL",
		"SUPPORT_CLASSIFIER",
		"SUPPORT_DISPATCHER",
		"SUPPORT_HANDLERS",
		"CLU_CONFIDENCE_THRESHOLD",
		"SUPPORT_MAX_RETRIES",
		"SUPPORT_TURN_TIMEOUT",
		"SUPPORT_RETRY_DELAY",
		"SUPPORT_HTTP_ADDR",
		"SUPPORT_REDIS_ADDR",
		"SUPPORT_STATIC_DIR",
		"SUPPORT_DATA_DIR",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearSupportEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ChatModel != "gpt-4o-mini" {
		t.Errorf("ChatModel = %q", cfg.ChatModel)
	}
	if cfg.ClassifierName != "TriageAgent" || cfg.DispatcherName != "HeadSupportAgent" {
		t.Errorf("roles = %q/%q", cfg.ClassifierName, cfg.DispatcherName)
	}
	if len(cfg.HandlerNames) != 3 {
		t.Errorf("HandlerNames = %v, want 3 defaults", cfg.HandlerNames)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.TurnTimeout != 35*time.Second {
		t.Errorf("TurnTimeout = %s, want 35s", cfg.TurnTimeout)
	}
	if cfg.RetryDelay != time.Second {
		t.Errorf("RetryDelay = %s, want 1s", cfg.RetryDelay)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearSupportEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("SUPPORT_MODEL", "gpt-4o")
	t.Setenv("SUPPORT_MAX_RETRIES", "5")
	t.Setenv("SUPPORT_TURN_TIMEOUT", "10s")
	t.Setenv("SUPPORT_HANDLERS", "AlphaAgent, BetaAgent,")
	t.Setenv("CLU_CONFIDENCE_THRESHOLD", "0.75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.OpenAIKey != "sk-test" {
		t.Errorf("OpenAIKey = %q", cfg.OpenAIKey)
	}
	if cfg.ChatModel != "gpt-4o" {
		t.Errorf("ChatModel = %q", cfg.ChatModel)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d", cfg.MaxRetries)
	}
	if cfg.TurnTimeout != 10*time.Second {
		t.Errorf("TurnTimeout = %s", cfg.TurnTimeout)
	}
	if len(cfg.HandlerNames) != 2 || cfg.HandlerNames[0] != "AlphaAgent" || cfg.HandlerNames[1] != "BetaAgent" {
		t.Errorf("HandlerNames = %v", cfg.HandlerNames)
	}
	if cfg.ConfidenceThreshold != 0.75 {
		t.Errorf("ConfidenceThreshold = %f", cfg.ConfidenceThreshold)
	}
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	clearSupportEnv(t)
	t.Setenv("SUPPORT_MAX_RETRIES", "lots")
	t.Setenv("SUPPORT_TURN_TIMEOUT", "soon")
	t.Setenv("CLU_CONFIDENCE_THRESHOLD", "high")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want default 3", cfg.MaxRetries)
	}
	if cfg.TurnTimeout != 35*time.Second {
		t.Errorf("TurnTimeout = %s, want default 35s", cfg.TurnTimeout)
	}
	if cfg.ConfidenceThreshold != 0.5 {
		t.Errorf("ConfidenceThreshold = %f, want default 0.5", cfg.ConfidenceThreshold)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			ChatModel:           "gpt-4o-mini",
			ClassifierName:      "TriageAgent",
			DispatcherName:      "HeadSupportAgent",
			HandlerNames:        []string{"OrderStatusAgent"},
			ConfidenceThreshold: 0.5,
			MaxRetries:          3,
			TurnTimeout:         35 * time.Second,
			RetryDelay:          time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"threshold too high", func(c *Config) { c.ConfidenceThreshold = 1.5 }, true},
		{"threshold negative", func(c *Config) { c.ConfidenceThreshold = -0.1 }, true},
		{"zero retries", func(c *Config) { c.MaxRetries = 0 }, true},
		{"too many retries", func(c *Config) { c.MaxRetries = 11 }, true},
		{"zero timeout", func(c *Config) { c.TurnTimeout = 0 }, true},
		{"empty classifier", func(c *Config) { c.ClassifierName = "" }, true},
		{"classifier equals dispatcher", func(c *Config) { c.DispatcherName = c.ClassifierName }, true},
		{"no handlers", func(c *Config) { c.HandlerNames = nil }, true},
		{"reserved handler name", func(c *Config) { c.HandlerNames = []string{"user"} }, true},
		{"handler collides with role", func(c *Config) { c.HandlerNames = []string{"TriageAgent"} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRoster(t *testing.T) {
	cfg := &Config{
		ClassifierName: "TriageAgent",
		DispatcherName: "HeadSupportAgent",
		HandlerNames:   []string{"OrderStatusAgent", "OrderCancelAgent"},
	}
	roster := cfg.Roster()
	if roster.Classifier != "TriageAgent" || roster.Dispatcher != "HeadSupportAgent" {
		t.Errorf("roster roles = %q/%q", roster.Classifier, roster.Dispatcher)
	}
	if len(roster.Handlers) != 2 {
		t.Errorf("roster handlers = %v", roster.Handlers)
	}
}
