package report

import (
	"fmt"
	"time"

	"github.com/calebmv/tally/internal/timelog"
)

// Period is an inclusive run of calendar days, normally one semi-monthly
// billing window (1st-15th or 16th-last).
type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod builds an explicit period, rejecting a backwards range.
func NewPeriod(start, end time.Time) (Period, error) {
	start = timelog.Midnight(start)
	end = timelog.Midnight(end)
	if end.Before(start) {
		return Period{}, fmt.Errorf("period ends %s before it starts %s", timelog.FormatDate(end), timelog.FormatDate(start))
	}
	return Period{Start: start, End: end}, nil
}

// PeriodFor maps a date to the semi-monthly period containing it.
func PeriodFor(date time.Time) Period {
	year, month, day := date.Year(), date.Month(), date.Day()
	loc := date.Location()
	if day <= 15 {
		return Period{
			Start: time.Date(year, month, 1, 0, 0, 0, 0, loc),
			End:   time.Date(year, month, 15, 0, 0, 0, 0, loc),
		}
	}
	// Day zero of the next month is the last day of this one.
	return Period{
		Start: time.Date(year, month, 16, 0, 0, 0, 0, loc),
		End:   time.Date(year, month+1, 0, 0, 0, 0, 0, loc),
	}
}

// Contains reports whether the day of d falls within the period, bounds
// included.
func (p Period) Contains(d time.Time) bool {
	d = timelog.Midnight(d)
	return !d.Before(timelog.Midnight(p.Start)) && !d.After(timelog.Midnight(p.End))
}

func (p Period) String() string {
	return timelog.FormatDate(p.Start) + " - " + timelog.FormatDate(p.End)
}
