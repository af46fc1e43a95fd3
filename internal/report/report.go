package report

import (
	"sort"

	"github.com/calebmv/tally/internal/timelog"
)

// Mode selects how sub-projects are grouped in a report.
type Mode uint8

const (
	// ModeSummary folds sub-projects into their parent project.
	ModeSummary Mode = iota
	// ModeDetail reports every sub-project as its own row.
	ModeDetail
)

func (m Mode) String() string {
	if m == ModeDetail {
		return "Detail"
	}
	return "Summary"
}

// Toggle flips between Summary and Detail.
func (m Mode) Toggle() Mode {
	if m == ModeSummary {
		return ModeDetail
	}
	return ModeSummary
}

// Row is one aggregated report line.
type Row struct {
	Key     timelog.ProjectKey
	Minutes int
}

// Report holds the aggregated totals for one period. It is derived data,
// recomputed whole on every reload or mode toggle.
type Report struct {
	Period       Period
	Mode         Mode
	Rows         []Row
	TotalMinutes int
}

// Build aggregates all day entries inside the period, keyed per project
// (Summary) or per sub-project (Detail), rows sorted by client, project,
// sub for stable rendering.
func Build(log timelog.TimeLog, period Period, mode Mode) Report {
	totals := make(map[timelog.ProjectKey]int)
	for _, day := range log.Days {
		if !period.Contains(day.Date) {
			continue
		}
		for _, line := range day.Lines {
			key := line.Key
			if mode == ModeSummary {
				key = key.WithoutSub()
			}
			totals[key] += line.TotalMinutes()
		}
	}

	rows := make([]Row, 0, len(totals))
	for key, minutes := range totals {
		rows = append(rows, Row{Key: key, Minutes: minutes})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Key.Less(rows[j].Key)
	})

	grand := 0
	for _, row := range rows {
		grand += row.Minutes
	}

	return Report{Period: period, Mode: mode, Rows: rows, TotalMinutes: grand}
}

// RecentProjects returns up to n distinct project keys, most recently used
// first. Ties inside a single day keep file order.
func RecentProjects(log timelog.TimeLog, n int) []timelog.ProjectKey {
	days := make([]timelog.DayEntry, len(log.Days))
	copy(days, log.Days)
	sort.SliceStable(days, func(i, j int) bool {
		return days[j].Date.Before(days[i].Date)
	})

	var keys []timelog.ProjectKey
	seen := make(map[timelog.ProjectKey]bool)
	for _, day := range days {
		for _, line := range day.Lines {
			if seen[line.Key] {
				continue
			}
			seen[line.Key] = true
			keys = append(keys, line.Key)
			if len(keys) == n {
				return keys
			}
		}
	}
	return keys
}

// BillableMinutes rounds worked minutes down to the previous quarter hour,
// the granularity invoices are written in.
func BillableMinutes(m int) int {
	return m - m%15
}
