// ABOUTME: Chat command runs support turns from the terminal
// ABOUTME: One-shot with an argument, or an interactive loop without
package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/harper/support-desk/internal/config"
	"github.com/harper/support-desk/internal/models"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// quietLogs discards stdlib log output and returns a restore function.
func quietLogs() func() {
	prev := log.Writer()
	log.SetOutput(io.Discard)
	return func() { log.SetOutput(prev) }
}

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Send a support message from the terminal",
		Long: `Send a support message and print the final reply.

With an argument, processes one turn and exits. Without one, starts an
interactive loop that keeps the conversation history, so handlers that
ask for more information get your follow-up directly.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runChat,
		Example: `  support chat "What are your store hours?"
  support chat`,
	}

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	coordinator, err := buildCoordinator(cfg)
	if err != nil {
		return err
	}

	if !verbose {
		// Routing decisions are logged per step; keep chat output clean.
		defer quietLogs()()
	}

	printResult := func(result models.TurnResult) {
		if format == "json" {
			out, _ := json.Marshal(result)
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return
		}
		if result.Failed() {
			fmt.Fprintf(cmd.OutOrStdout(), "error (%s): %s\n", result.Failure.Kind, result.Failure.Message)
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Reply)
	}

	if len(args) == 1 {
		result := coordinator.ProcessTurn(cmd.Context(), args[0], nil)
		printResult(result)
		return nil
	}

	// Interactive loop: history carries across turns so pinned responders
	// receive follow-up messages directly.
	sessionID := uuid.New().String()
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "session %s - type a message, or /quit to exit\n", sessionID)
	}

	var history []models.Message
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(cmd.OutOrStdout(), "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			break
		}

		result := coordinator.ProcessTurn(cmd.Context(), line, history)
		// Keep the old history on failure: carrying the failed turn's user
		// message forward would wedge routing on the next message.
		if !result.Failed() {
			history = result.History
		}
		printResult(result)
	}
	return scanner.Err()
}
