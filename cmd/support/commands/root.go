// ABOUTME: Root CLI command and global flags for the support desk
// ABOUTME: Wires subcommands and shared output settings
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
	format  string
)

const banner = `
███████╗██╗   ██╗██████╗ ██████╗  ██████╗ ██████╗ ████████╗
██╔════╝██║   ██║██╔══██╗██╔══██╗██╔═══██╗██╔══██╗╚══██╔══╝
███████╗██║   ██║██████╔╝██████╔╝██║   ██║██████╔╝   ██║
╚════██║██║   ██║██╔═══╝ ██╔═══╝ ██║   ██║██╔══██╗   ██║
███████║╚██████╔╝██║     ██║     ╚██████╔╝██║  ██║   ██║
╚══════╝ ╚═════╝ ╚═╝     ╚═╝      ╚═════╝ ╚═╝  ╚═╝   ╚═╝
`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "support",
		Short: "Multi-agent customer support desk",
		Long: banner + `
Support desk routes customer messages through a triage classifier, a
dispatcher, and domain-specific order handlers, and returns a single
final reply per turn.

Run 'support serve' to start the HTTP server, 'support chat' for a
one-off turn from the terminal, or 'support mcp' to expose the desk
to LLM agents over the Model Context Protocol.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&format, "format", "auto", "Output format: auto, text, or json")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewChatCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
