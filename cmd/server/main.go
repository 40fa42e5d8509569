// ABOUTME: Main entry point for the standalone support desk HTTP server
// ABOUTME: Initializes config, registry, coordinator, stores, and serves /chat
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/harper/support-desk/internal/agents"
	"github.com/harper/support-desk/internal/config"
	"github.com/harper/support-desk/internal/history"
	"github.com/harper/support-desk/internal/orchestrator"
	"github.com/harper/support-desk/internal/server"
	"github.com/harper/support-desk/internal/storage/sqlite"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.OpenAIKey == "" {
		log.Fatal("OPENAI_API_KEY is required")
	}

	registry, err := agents.NewOpenAIRegistry(cfg.OpenAIKey, cfg.ChatModel, cfg.Roster())
	if err != nil {
		log.Fatalf("Failed to create responder registry: %v", err)
	}

	coordinator := orchestrator.NewCoordinator(registry, cfg.Roster(), orchestrator.Options{
		MaxRetries:  cfg.MaxRetries,
		TurnTimeout: cfg.TurnTimeout,
		RetryDelay:  cfg.RetryDelay,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sessions history.Store
	if cfg.RedisAddr != "" {
		sessions, err = history.NewRedisStore(ctx, cfg.RedisAddr)
		if err != nil {
			log.Fatalf("Failed to connect session store: %v", err)
		}
	} else {
		sessions = history.NewMemoryStore()
	}
	defer func() { _ = sessions.Close() }()

	dbPath := sqlite.DefaultDBPath()
	if cfg.DataDir != "" {
		dbPath = filepath.Join(cfg.DataDir, "transcripts.db")
	}
	db, err := sqlite.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open transcript database: %v", err)
	}
	defer func() { _ = db.Close() }()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.New(coordinator, sessions, sqlite.NewTranscriptStore(db), cfg.StaticDir).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("support desk listening on %s", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server error: %v", err)
	}
}
