package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calebmv/tally/internal/files"
	"github.com/calebmv/tally/internal/report"
)

func newReportCommand(ctx context.Context) *cobra.Command {
	var detail bool

	cmd := &cobra.Command{
		Use:   "report [file] [start [end]]",
		Short: "Print the billing report for a semi-monthly period.",
		Long: `Print totals per client/project for the semi-monthly period containing
today. A single date argument (MM/DD/YYYY) selects the period containing it;
two dates select an explicit inclusive range.`,
		Args: cobra.MaximumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, rest := splitFileArg(args)
			resolved, err := files.ResolveLogPath(path)
			if err != nil {
				return err
			}

			log, err := loadLog(cmd, resolved)
			if err != nil {
				return err
			}

			period, err := resolvePeriod(rest)
			if err != nil {
				return err
			}

			mode := report.ModeSummary
			if detail {
				mode = report.ModeDetail
			}

			rpt := report.Build(log, period, mode)
			fmt.Fprint(cmd.OutOrStdout(), report.Render(rpt))
			return nil
		},
	}

	cmd.Flags().BoolVar(&detail, "detail", false, "Report each sub-project on its own row")

	return cmd
}

// splitFileArg peels the leading file argument off, if present. Date
// arguments are recognizable by their slashes.
func splitFileArg(args []string) (string, []string) {
	if len(args) == 0 {
		return "", nil
	}
	if looksLikeDate(args[0]) {
		return "", args
	}
	return args[0], args[1:]
}

func looksLikeDate(s string) bool {
	return len(s) == 10 && s[2] == '/' && s[5] == '/'
}
