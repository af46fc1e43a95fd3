package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/calebmv/tally/internal/report"
	"github.com/calebmv/tally/internal/timelog"
)

func parseDateArg(s string) (time.Time, error) {
	parsed, err := time.ParseInLocation("01/02/2006", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q (want MM/DD/YYYY): %w", s, err)
	}
	if parsed.Year() < timelog.MinYear || parsed.Year() > timelog.MaxYear {
		return time.Time{}, fmt.Errorf("year %d out of range %d-%d", parsed.Year(), timelog.MinYear, timelog.MaxYear)
	}
	return timelog.Midnight(parsed), nil
}

// resolvePeriod interprets optional trailing date arguments: none pins
// nothing (today's semimonth), one pins the semimonth containing it, two pin
// an explicit inclusive range.
func resolvePeriod(args []string) (report.Period, error) {
	switch len(args) {
	case 0:
		return report.PeriodFor(time.Now()), nil
	case 1:
		ref, err := parseDateArg(args[0])
		if err != nil {
			return report.Period{}, err
		}
		return report.PeriodFor(ref), nil
	default:
		start, err := parseDateArg(args[0])
		if err != nil {
			return report.Period{}, err
		}
		end, err := parseDateArg(args[1])
		if err != nil {
			return report.Period{}, err
		}
		return report.NewPeriod(start, end)
	}
}

// loadLog reads and parses the whole file, routing parser warnings to
// stderr the way one-shot commands report them.
func loadLog(cmd *cobra.Command, path string) (timelog.TimeLog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return timelog.TimeLog{}, fmt.Errorf("read %s: %w", path, err)
	}
	log, err := timelog.Parse(string(data))
	if err != nil {
		return timelog.TimeLog{}, fmt.Errorf("%s: %w", path, err)
	}
	for _, w := range log.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
	return log, nil
}
