package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/calebmv/tally/internal/files"
	"github.com/calebmv/tally/internal/report"
	"github.com/calebmv/tally/internal/timelog"
)

const recentProjectCount = 5

func newAppendCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "append [file]",
		Short: "Append a new day block for today, pre-filled with recent projects.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var arg string
			if len(args) > 0 {
				arg = args[0]
			}
			path, err := files.ResolveLogPath(arg)
			if err != nil {
				return err
			}
			if err := files.EnsureFile(path); err != nil {
				return err
			}

			log, err := loadLog(cmd, path)
			if err != nil {
				return err
			}

			today := timelog.Midnight(time.Now())
			if log.HasDay(today) {
				return fmt.Errorf("%w: %s", timelog.ErrDayExists, timelog.FormatDate(today))
			}

			recent := report.RecentProjects(log, recentProjectCount)
			if err := timelog.AppendDay(path, today, recent); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Appended to %s:\n%s", path, timelog.FormatDayBlock(today, recent))
			return nil
		},
	}
}
