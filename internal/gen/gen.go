// Package gen produces synthetic time logs in the file grammar, used by the
// random command and as fixture material in tests.
package gen

import (
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/calebmv/tally/internal/report"
	"github.com/calebmv/tally/internal/timelog"
)

// roster mixes plain projects with sub-coded ones so generated logs exercise
// both Summary and Detail grouping.
var roster = []timelog.ProjectKey{
	{Client: "nasa", Project: "navigation system"},
	{Client: "nasa", Project: "saturn v launch"},
	{Client: "nasa", Project: "astronaut recovery"},
	{Client: "nasa", Project: "meeting"},
	{Client: "spacex", Project: "landing software", Sub: "telemetry"},
	{Client: "spacex", Project: "landing software", Sub: "guidance"},
	{Client: "spacex", Project: "pr meeting"},
	{Client: "blue", Project: "aws interop"},
	{Client: "blue", Project: "navigation fixes"},
	{Client: "carnival", Project: "gps upgrade"},
	{Client: "carnival", Project: "lifeboat repairs", Sub: "port"},
	{Client: "carnival", Project: "band auditions"},
}

// Fixed cut points for a working day, in minutes since midnight.
const (
	eightAM = 8 * 60
	noon    = 12 * 60
	onePM   = 13 * 60
	fivePM  = 17 * 60
)

var lunchHour = timelog.TimeRange{Start: noon, Stop: onePM}

// Generator builds random day entries. Same seed, same output.
type Generator struct {
	rng *rand.Rand
}

func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// DayEntries produces one entry per day of the period.
func (g *Generator) DayEntries(p report.Period) []timelog.DayEntry {
	var days []timelog.DayEntry
	for d := p.Start; !d.After(p.End); d = d.AddDate(0, 0, 1) {
		days = append(days, g.dayEntry(d))
	}
	return days
}

func (g *Generator) dayEntry(date time.Time) timelog.DayEntry {
	ranges := g.dayRanges()

	// Each range either starts a new project off the roster or, three times
	// out of four, extends one already used today.
	var order []timelog.ProjectKey
	byKey := make(map[timelog.ProjectKey][]timelog.TimeRange)
	for _, r := range ranges {
		var key timelog.ProjectKey
		if len(order) == 0 || g.rng.Intn(4) == 0 {
			key = roster[g.rng.Intn(len(roster))]
		} else {
			key = order[g.rng.Intn(len(order))]
		}
		if _, ok := byKey[key]; !ok {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], r)
	}

	lines := make([]timelog.ProjectLine, 0, len(order))
	for _, key := range order {
		lines = append(lines, timelog.ProjectLine{Key: key, Ranges: byKey[key]})
	}
	return timelog.DayEntry{Date: date, Lines: lines}
}

// dayRanges cuts the working day at the fixed anchors plus a few random
// times, pairs adjacent cuts into ranges, and drops the lunch hour.
func (g *Generator) dayRanges() []timelog.TimeRange {
	cuts := map[int]bool{eightAM: true, noon: true, onePM: true, fivePM: true}
	extra := 2 + g.rng.Intn(5)
	for i := 0; i < extra; i++ {
		cuts[g.randomTime()] = true
	}

	sorted := make([]int, 0, len(cuts))
	for c := range cuts {
		sorted = append(sorted, c)
	}
	sort.Ints(sorted)

	var ranges []timelog.TimeRange
	for i := 1; i < len(sorted); i++ {
		r := timelog.TimeRange{Start: sorted[i-1], Stop: sorted[i]}
		if r != lunchHour {
			ranges = append(ranges, r)
		}
	}
	return ranges
}

// randomTime lands in working hours: half mornings, half afternoons.
func (g *Generator) randomTime() int {
	var hour int
	if g.rng.Intn(10) < 5 {
		hour = 8 + g.rng.Intn(4)
	} else {
		hour = 13 + g.rng.Intn(4)
	}
	return hour*60 + g.rng.Intn(60)
}

// Format serializes day entries in the exact file grammar, so generated
// output re-parses cleanly.
func Format(days []timelog.DayEntry) string {
	var b strings.Builder
	for i, day := range days {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("Date: ")
		b.WriteString(day.Date.Weekday().String())
		b.WriteByte(' ')
		b.WriteString(timelog.FormatDate(day.Date))
		b.WriteByte('\n')
		for _, line := range day.Lines {
			b.WriteString(line.Key.Label())
			b.WriteString(": ")
			parts := make([]string, 0, len(line.Ranges))
			for _, r := range line.Ranges {
				parts = append(parts, r.String())
			}
			b.WriteString(strings.Join(parts, ","))
			b.WriteByte('\n')
		}
	}
	return b.String()
}
