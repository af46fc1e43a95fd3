package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/calebmv/tally/internal/files"
	"github.com/calebmv/tally/internal/report"
	"github.com/calebmv/tally/internal/ui"
	"github.com/calebmv/tally/internal/watcher"
)

func newWatchCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [file] [start [end]]",
		Short: "Keep a live report on screen while the log file is edited.",
		Long: `Watch the log file and refresh the report whenever it changes. Date
arguments pin the reporting period the same way they do for report; without
them the report follows the semimonth containing today.`,
		Args: cobra.MaximumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, rest := splitFileArg(args)
			resolved, err := files.ResolveLogPath(path)
			if err != nil {
				return err
			}
			if err := files.EnsureFile(resolved); err != nil {
				return err
			}

			var pinned *report.Period
			if len(rest) > 0 {
				period, err := resolvePeriod(rest)
				if err != nil {
					return err
				}
				pinned = &period
			}

			w, err := watcher.New(resolved)
			if err != nil {
				return fmt.Errorf("watch %s: %w", resolved, err)
			}
			watchCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			go w.Start(watchCtx)

			m := ui.NewModel(resolved, pinned, w.Events())
			if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
				return fmt.Errorf("run TUI: %w", err)
			}
			return nil
		},
	}
}
