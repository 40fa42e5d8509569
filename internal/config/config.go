// ABOUTME: Centralized configuration for the support desk service
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/harper/support-desk/internal/routing"
)

// Config holds all configuration for the support desk. It is read-only
// after Load and safe to share across concurrently processed turns.
type Config struct {
	// OpenAI settings
	OpenAIKey string
	ChatModel string

	// Roster: the fixed roles plus the leaf handlers
	ClassifierName string
	DispatcherName string
	HandlerNames   []string

	// Turn processing
	ConfidenceThreshold float64 // informational, not consulted by routing
	MaxRetries          int
	TurnTimeout         time.Duration
	RetryDelay          time.Duration

	// Serving
	HTTPAddr  string
	RedisAddr string // empty means in-process history
	StaticDir string

	// Transcript storage
	DataDir string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		OpenAIKey:           os.Getenv("OPENAI_API_KEY"),
		ChatModel:           getEnv("SUPPORT_MODEL", "gpt-4o-mini"),
		ClassifierName:      getEnv("SUPPORT_CLASSIFIER", "TriageAgent"),
		DispatcherName:      getEnv("SUPPORT_DISPATCHER", "HeadSupportAgent"),
		HandlerNames:        getEnvList("SUPPORT_HANDLERS", []string{"OrderStatusAgent", "OrderCancelAgent", "OrderRefundAgent"}),
		ConfidenceThreshold: getEnvFloat("CLU_CONFIDENCE_THRESHOLD", 0.5),
		MaxRetries:          getEnvInt("SUPPORT_MAX_RETRIES", 3),
		TurnTimeout:         getEnvDuration("SUPPORT_TURN_TIMEOUT", 35*time.Second),
		RetryDelay:          getEnvDuration("SUPPORT_RETRY_DELAY", 1*time.Second),
		HTTPAddr:            getEnv("SUPPORT_HTTP_ADDR", ":8080"),
		RedisAddr:           os.Getenv("SUPPORT_REDIS_ADDR"),
		StaticDir:           getEnv("SUPPORT_STATIC_DIR", "dist"),
		DataDir:             os.Getenv("SUPPORT_DATA_DIR"),
	}

	return cfg, cfg.Validate()
}

// Validate rejects configurations the coordinator cannot run with.
func (c *Config) Validate() error {
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("CLU_CONFIDENCE_THRESHOLD must be 0-1, got %f", c.ConfidenceThreshold)
	}
	if c.MaxRetries < 1 || c.MaxRetries > 10 {
		return fmt.Errorf("SUPPORT_MAX_RETRIES must be 1-10, got %d", c.MaxRetries)
	}
	if c.TurnTimeout <= 0 {
		return fmt.Errorf("SUPPORT_TURN_TIMEOUT must be positive, got %s", c.TurnTimeout)
	}
	if c.ClassifierName == "" || c.DispatcherName == "" {
		return fmt.Errorf("classifier and dispatcher names must not be empty")
	}
	if c.ClassifierName == c.DispatcherName {
		return fmt.Errorf("classifier and dispatcher must be distinct responders")
	}
	if len(c.HandlerNames) == 0 {
		return fmt.Errorf("SUPPORT_HANDLERS must name at least one handler")
	}
	for _, h := range c.HandlerNames {
		if h == "user" {
			return fmt.Errorf("responder name %q is reserved", h)
		}
		if h == c.ClassifierName || h == c.DispatcherName {
			return fmt.Errorf("handler %q collides with a fixed role", h)
		}
	}
	return nil
}

// Roster returns the responder roster described by this configuration.
func (c *Config) Roster() routing.Roster {
	return routing.Roster{
		Classifier: c.ClassifierName,
		Dispatcher: c.DispatcherName,
		Handlers:   c.HandlerNames,
	}
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
