// ABOUTME: Shared wiring that turns configuration into live components
// ABOUTME: Used by the serve, chat, and mcp commands
package commands

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/harper/support-desk/internal/agents"
	"github.com/harper/support-desk/internal/config"
	"github.com/harper/support-desk/internal/history"
	"github.com/harper/support-desk/internal/orchestrator"
	"github.com/harper/support-desk/internal/storage/sqlite"
)

// buildCoordinator constructs the OpenAI-backed registry and the turn
// coordinator from configuration.
func buildCoordinator(cfg *config.Config) (*orchestrator.Coordinator, error) {
	registry, err := agents.NewOpenAIRegistry(cfg.OpenAIKey, cfg.ChatModel, cfg.Roster())
	if err != nil {
		return nil, fmt.Errorf("creating responder registry: %w", err)
	}
	return orchestrator.NewCoordinator(registry, cfg.Roster(), orchestrator.Options{
		MaxRetries:  cfg.MaxRetries,
		TurnTimeout: cfg.TurnTimeout,
		RetryDelay:  cfg.RetryDelay,
	}), nil
}

// buildHistoryStore returns the Redis-backed store when configured, or the
// in-process store otherwise.
func buildHistoryStore(ctx context.Context, cfg *config.Config) (history.Store, error) {
	if cfg.RedisAddr == "" {
		return history.NewMemoryStore(), nil
	}
	store, err := history.NewRedisStore(ctx, cfg.RedisAddr)
	if err != nil {
		return nil, fmt.Errorf("creating redis history store: %w", err)
	}
	if !quiet {
		log.Printf("session history backed by redis at %s", cfg.RedisAddr)
	}
	return store, nil
}

// openTranscripts opens the transcript database. The returned DB must be
// closed by the caller.
func openTranscripts(cfg *config.Config) (*sqlite.DB, *sqlite.TranscriptStore, error) {
	path := sqlite.DefaultDBPath()
	if cfg.DataDir != "" {
		path = filepath.Join(cfg.DataDir, "transcripts.db")
	}
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening transcript database: %w", err)
	}
	return db, sqlite.NewTranscriptStore(db), nil
}
