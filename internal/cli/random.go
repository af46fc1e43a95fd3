package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/calebmv/tally/internal/gen"
)

func newRandomCommand(ctx context.Context) *cobra.Command {
	var seed int64

	cmd := &cobra.Command{
		Use:   "random [start [end]]",
		Short: "Write a synthetic log for a period to standard output.",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := resolvePeriod(args)
			if err != nil {
				return err
			}
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			days := gen.New(seed).DayEntries(period)
			fmt.Fprint(cmd.OutOrStdout(), gen.Format(days))
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed for reproducible output (0 means time-based)")

	return cmd
}
