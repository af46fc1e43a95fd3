package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/calebmv/tally/internal/version"
)

// NewRootCommand creates the top-level Cobra command hosting all
// subcommands.
func NewRootCommand(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tally",
		Short: "Track billable time in a plain-text log and report it per semi-monthly period.",
		Long: `tally reads a structured plain-text time log, sums worked time per
client and project over semi-monthly billing periods, and can keep a live
report on screen while the log is being edited.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newReportCommand(ctx),
		newAppendCommand(ctx),
		newWatchCommand(ctx),
		newRandomCommand(ctx),
		newVersionCommand(),
	)

	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information.",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		},
	}
}

// ExecuteCommand is a thin wrapper that executes the Cobra root command.
func ExecuteCommand(ctx context.Context) error {
	return NewRootCommand(ctx).Execute()
}

// Main is used by cmd/tally/main.go to keep wiring contained in one package.
func Main(ctx context.Context) {
	if err := ExecuteCommand(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
