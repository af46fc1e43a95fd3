package timelog

import (
	"fmt"
	"strings"
	"time"
)

// Years a log may reference. Dates outside this window are parse errors.
const (
	MinYear = 1970
	MaxYear = 2300
)

// TimeRange is a worked interval within a single day, held as minutes
// since midnight. Stop is always strictly after Start.
type TimeRange struct {
	Start int
	Stop  int
}

// NewTimeRange validates that both endpoints are real clock times and that
// the range does not run backwards or cross midnight.
func NewTimeRange(start, stop int) (TimeRange, error) {
	if start < 0 || start > 23*60+59 || stop < 0 || stop > 23*60+59 {
		return TimeRange{}, fmt.Errorf("not a valid time of day")
	}
	if stop <= start {
		return TimeRange{}, fmt.Errorf("time range ends before it starts")
	}
	return TimeRange{Start: start, Stop: stop}, nil
}

// Duration returns the length of the range in minutes.
func (r TimeRange) Duration() int {
	return r.Stop - r.Start
}

// String renders the range in the file grammar, e.g. "0835-1155".
func (r TimeRange) String() string {
	return formatClock(r.Start) + "-" + formatClock(r.Stop)
}

func formatClock(minute int) string {
	return fmt.Sprintf("%02d%02d", minute/60, minute%60)
}

// ProjectKey identifies a billing target. Sub is optional and empty for
// project lines without a sub-project code.
type ProjectKey struct {
	Client  string
	Project string
	Sub     string
}

// Label renders the key as it appears before the colon in a project line.
func (k ProjectKey) Label() string {
	if k.Sub == "" {
		return k.Client + "," + k.Project
	}
	return k.Client + "," + k.Project + "," + k.Sub
}

// WithoutSub collapses the key to its parent project.
func (k ProjectKey) WithoutSub() ProjectKey {
	return ProjectKey{Client: k.Client, Project: k.Project}
}

// Less orders keys by client, then project, then sub.
func (k ProjectKey) Less(other ProjectKey) bool {
	if k.Client != other.Client {
		return k.Client < other.Client
	}
	if k.Project != other.Project {
		return k.Project < other.Project
	}
	return k.Sub < other.Sub
}

// ProjectLine is one line of worked time attached to a day.
type ProjectLine struct {
	Key    ProjectKey
	Ranges []TimeRange
}

// TotalMinutes sums the durations of all ranges on the line.
func (l ProjectLine) TotalMinutes() int {
	total := 0
	for _, r := range l.Ranges {
		total += r.Duration()
	}
	return total
}

// DayEntry groups the project lines recorded under one Date heading.
// LineNum is the 1-based position of the Date line in the file, used to
// drop an editor onto the most recent entry.
type DayEntry struct {
	Date    time.Time
	LineNum int
	Lines   []ProjectLine
}

// TimeLog is one whole parse of the backing file. It is rebuilt from
// scratch on every reload, never mutated incrementally.
type TimeLog struct {
	Days     []DayEntry
	Warnings []string
}

// HasDay reports whether the log already contains an entry for the date.
func (t TimeLog) HasDay(date time.Time) bool {
	for _, d := range t.Days {
		if SameDay(d.Date, date) {
			return true
		}
	}
	return false
}

// NewDate builds a midnight-local date, rejecting impossible calendar dates
// and years outside the supported window.
func NewDate(year int, month, day int) (time.Time, error) {
	if year < MinYear || year > MaxYear {
		return time.Time{}, fmt.Errorf("year %d out of range %d-%d", year, MinYear, MaxYear)
	}
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("not a valid date")
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	// time.Date normalizes overflow (e.g. 02/30 becomes 03/01); a shifted
	// result means the input was not a real date.
	if date.Year() != year || date.Month() != time.Month(month) || date.Day() != day {
		return time.Time{}, fmt.Errorf("not a valid date")
	}
	return date, nil
}

// FormatDate renders a date in the file grammar, MM/DD/YYYY.
func FormatDate(t time.Time) string {
	return t.Format("01/02/2006")
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// Midnight truncates a timestamp to the start of its day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func splitLines(input string) []string {
	input = strings.ReplaceAll(input, "\r\n", "\n")
	lines := strings.Split(input, "\n")
	// Remove the trailing empty element produced by Split when the input ends with a newline.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
