// ABOUTME: Serve command starts the HTTP chat server
// ABOUTME: Boots config, registry, coordinator, stores, and listens until signalled
package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harper/support-desk/internal/config"
	"github.com/harper/support-desk/internal/server"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var serveAddr string

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the support desk HTTP server",
		Long: `Start the support desk HTTP server.

Serves POST /chat for single turns, GET /ws for a websocket
conversation, GET /healthz, and the static frontend when a dist/
directory is present.`,
		RunE: runServe,
		Example: `  # Start on the configured address (default :8080)
  support serve

  # Override the listen address
  support serve --addr :9000`,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides SUPPORT_HTTP_ADDR)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil && !quiet {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if serveAddr != "" {
		cfg.HTTPAddr = serveAddr
	}

	coordinator, err := buildCoordinator(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions, err := buildHistoryStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = sessions.Close() }()

	db, transcripts, err := openTranscripts(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.New(coordinator, sessions, transcripts, cfg.StaticDir).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("support desk listening on %s", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		log.Println("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}
