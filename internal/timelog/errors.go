package timelog

import (
	"errors"
	"fmt"
)

// ErrDayExists is returned when appending a day block the log already has.
var ErrDayExists = errors.New("log already has an entry for this date")

// ParseError reports the first malformed line encountered while parsing a
// log file. Line numbers are 1-based.
type ParseError struct {
	Line   int
	Reason string
	Text   string
}

func (e *ParseError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}
