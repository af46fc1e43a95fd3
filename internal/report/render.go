package report

import (
	"fmt"
	"strings"
)

// Render produces the plain-text table for a report. The output is a pure
// function of the Report value: identical reports render identical text.
func Render(r Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Period %s (%s)\n", r.Period, r.Mode)
	b.WriteByte('\n')

	if len(r.Rows) == 0 {
		b.WriteString("(no billable time in this period)\n")
		return b.String()
	}

	labelWidth := len("PROJECT")
	for _, row := range r.Rows {
		if w := len(row.Key.Label()); w > labelWidth {
			labelWidth = w
		}
	}

	fmt.Fprintf(&b, "%-*s%9s%9s\n", labelWidth, "PROJECT", "TOTAL", "BILL")
	for _, row := range r.Rows {
		fmt.Fprintf(&b, "%-*s%9s%9s\n",
			labelWidth, row.Key.Label(),
			FormatDuration(row.Minutes),
			FormatDuration(BillableMinutes(row.Minutes)))
	}

	billable := 0
	for _, row := range r.Rows {
		billable += BillableMinutes(row.Minutes)
	}
	b.WriteByte('\n')
	fmt.Fprintf(&b, "%-*s%9s%9s\n", labelWidth, "TOTAL",
		FormatDuration(r.TotalMinutes), FormatDuration(billable))

	return b.String()
}

// FormatDuration renders minutes as h:mm, e.g. 780 -> "13:00".
func FormatDuration(minutes int) string {
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}
