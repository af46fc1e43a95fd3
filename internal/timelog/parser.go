package timelog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// endMarker stops parsing; anything after it is scratch space.
const endMarker = "END"

var (
	dateLineRE  = regexp.MustCompile(`^Date:\s+([A-Za-z]+)\s+(\d{2})/(\d{2})/(\d{4})$`)
	timeRangeRE = regexp.MustCompile(`^(\d{2})(\d{2})-(\d{2})(\d{2})$`)
)

type lineKind uint8

const (
	lineBlank lineKind = iota
	lineDate
	lineProject
	lineEnd
	lineUnknown
)

// token is one classified line, comment-stripped and trimmed.
type token struct {
	kind lineKind
	num  int
	text string
}

// Parse turns the full text of a log file into a TimeLog. An empty input
// yields an empty log. Any malformed line aborts with a *ParseError naming
// the line; weekday tokens that disagree with their date only produce a
// warning on the returned log.
func Parse(src string) (TimeLog, error) {
	var log TimeLog
	var current *DayEntry
	var seen map[ProjectKey]int

	flush := func() {
		if current != nil {
			log.Days = append(log.Days, *current)
			current = nil
		}
	}

	for _, tok := range tokenize(src) {
		switch tok.kind {
		case lineBlank:
			continue
		case lineEnd:
			flush()
			return log, nil
		case lineDate:
			flush()
			date, warning, err := parseDateLine(tok)
			if err != nil {
				return TimeLog{}, err
			}
			if warning != "" {
				log.Warnings = append(log.Warnings, warning)
			}
			current = &DayEntry{Date: date, LineNum: tok.num}
			seen = make(map[ProjectKey]int)
		case lineProject:
			if current == nil {
				return TimeLog{}, &ParseError{Line: tok.num, Reason: "project line before any date", Text: tok.text}
			}
			line, err := parseProjectLine(tok)
			if err != nil {
				return TimeLog{}, err
			}
			if prev, dup := seen[line.Key]; dup {
				reason := fmt.Sprintf("duplicate project %s for this date (first on line %d)", line.Key.Label(), prev)
				return TimeLog{}, &ParseError{Line: tok.num, Reason: reason, Text: tok.text}
			}
			seen[line.Key] = tok.num
			current.Lines = append(current.Lines, line)
		default:
			return TimeLog{}, &ParseError{Line: tok.num, Reason: "unrecognized line", Text: tok.text}
		}
	}

	flush()
	return log, nil
}

// tokenize classifies every line of the input before any grammar matching.
func tokenize(src string) []token {
	lines := splitLines(src)
	tokens := make([]token, 0, len(lines))
	for i, raw := range lines {
		text := stripComment(raw)
		tokens = append(tokens, token{kind: classify(text), num: i + 1, text: text})
	}
	return tokens
}

// stripComment drops a trailing "-- ..." comment and surrounding whitespace.
func stripComment(line string) string {
	if i := strings.Index(line, "--"); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

func classify(text string) lineKind {
	switch {
	case text == "":
		return lineBlank
	case text == endMarker:
		return lineEnd
	case strings.HasPrefix(text, "Date:"):
		return lineDate
	case strings.Contains(text, ":"):
		return lineProject
	default:
		return lineUnknown
	}
}

// parseDateLine matches "Date: <Weekday> <MM/DD/YYYY>". The weekday token is
// not trusted; a mismatch against the date is reported as a warning.
func parseDateLine(tok token) (time.Time, string, error) {
	m := dateLineRE.FindStringSubmatch(tok.text)
	if m == nil {
		return time.Time{}, "", &ParseError{Line: tok.num, Reason: "malformed date line, want \"Date: <Weekday> <MM/DD/YYYY>\"", Text: tok.text}
	}
	month := mustInt(m[2])
	day := mustInt(m[3])
	year := mustInt(m[4])

	date, err := NewDate(year, month, day)
	if err != nil {
		return time.Time{}, "", &ParseError{Line: tok.num, Reason: err.Error(), Text: tok.text}
	}

	var warning string
	if !strings.EqualFold(m[1], date.Weekday().String()) {
		warning = fmt.Sprintf("line %d: %s was a %s, not a %s", tok.num, FormatDate(date), date.Weekday(), m[1])
	}
	return date, warning, nil
}

// parseProjectLine matches "<client>,<project>[,<sub>]: <range>[,<range>]*".
// The range list may be empty, which is how freshly appended lines look.
func parseProjectLine(tok token) (ProjectLine, error) {
	label, rest, _ := strings.Cut(tok.text, ":")

	key, err := parseLabel(label)
	if err != nil {
		return ProjectLine{}, &ParseError{Line: tok.num, Reason: err.Error(), Text: tok.text}
	}

	var ranges []TimeRange
	rest = strings.TrimSpace(rest)
	if rest != "" {
		for _, part := range strings.Split(rest, ",") {
			r, err := parseTimeRange(strings.TrimSpace(part))
			if err != nil {
				return ProjectLine{}, &ParseError{Line: tok.num, Reason: err.Error(), Text: tok.text}
			}
			ranges = append(ranges, r)
		}
	}

	return ProjectLine{Key: key, Ranges: ranges}, nil
}

func parseLabel(label string) (ProjectKey, error) {
	parts := strings.Split(label, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return ProjectKey{}, fmt.Errorf("malformed project label, want \"client,project[,sub]\"")
	}
	key := ProjectKey{
		Client:  strings.TrimSpace(parts[0]),
		Project: strings.TrimSpace(parts[1]),
	}
	if len(parts) == 3 {
		key.Sub = strings.TrimSpace(parts[2])
		if key.Sub == "" {
			return ProjectKey{}, fmt.Errorf("empty sub-project in label")
		}
	}
	if key.Client == "" || key.Project == "" {
		return ProjectKey{}, fmt.Errorf("empty client or project in label")
	}
	return key, nil
}

func parseTimeRange(text string) (TimeRange, error) {
	m := timeRangeRE.FindStringSubmatch(text)
	if m == nil {
		return TimeRange{}, fmt.Errorf("malformed time range %q, want hhmm-hhmm", text)
	}
	start, err := clockMinute(m[1], m[2])
	if err != nil {
		return TimeRange{}, fmt.Errorf("bad range %q: %v", text, err)
	}
	stop, err := clockMinute(m[3], m[4])
	if err != nil {
		return TimeRange{}, fmt.Errorf("bad range %q: %v", text, err)
	}
	r, err := NewTimeRange(start, stop)
	if err != nil {
		return TimeRange{}, fmt.Errorf("bad range %q: %v", text, err)
	}
	return r, nil
}

func clockMinute(hh, mm string) (int, error) {
	h := mustInt(hh)
	m := mustInt(mm)
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("not a valid time of day")
	}
	return h*60 + m, nil
}

// mustInt is only called on regexp-captured digit groups.
func mustInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
