// ABOUTME: History command lists recorded support turn transcripts
// ABOUTME: Reads the local transcript database, newest first
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/harper/support-desk/internal/config"
	"github.com/harper/support-desk/internal/storage/sqlite"
	"github.com/spf13/cobra"
)

var (
	historyLimit   int
	historySession string
)

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded support turns",
		Long: `List recorded support turns from the transcript database.

Shows the customer's message and the final reply (or failure) of each
completed turn, newest first.`,
		RunE: runHistory,
		Example: `  support history
  support history --limit 50
  support history --session 4f2c...`,
	}

	cmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum transcripts to show")
	cmd.Flags().StringVar(&historySession, "session", "", "Only show one session's turns")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(historyLimit, "limit"); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	db, store, err := openTranscripts(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	var transcripts []sqlite.Transcript
	if historySession != "" {
		transcripts, err = store.BySession(historySession)
	} else {
		transcripts, err = store.Recent(historyLimit)
	}
	if err != nil {
		return fmt.Errorf("listing transcripts: %w", err)
	}

	if format == "json" {
		out, err := json.MarshalIndent(transcripts, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	if len(transcripts) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No transcripts recorded yet.")
		return nil
	}

	for _, t := range transcripts {
		outcome := truncate(t.Reply, 60)
		if t.Failed() {
			outcome = fmt.Sprintf("FAILED (%s): %s", t.FailureKind, truncate(t.FailureMessage, 40))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  [%s]\n  Q: %s\n  A: %s\n",
			formatTime(t.CreatedAt), truncate(t.SessionID, 8), truncate(t.UserMessage, 60), outcome)
	}
	return nil
}
