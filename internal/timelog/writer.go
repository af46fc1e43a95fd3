package timelog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FormatDayBlock renders a new day block in the file grammar: a Date line
// followed by one project line per key, each with an empty range list.
func FormatDayBlock(date time.Time, keys []ProjectKey) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Date: %s %s\n", date.Weekday(), FormatDate(date))
	for _, k := range keys {
		b.WriteString(k.Label())
		b.WriteString(":\n")
	}
	return b.String()
}

// AppendDay writes a new day block for date into the file at path. The block
// lands just before a trailing END marker when one exists, otherwise at the
// end of the file, always separated from earlier content by one blank line.
// Callers are expected to reject duplicate dates first (TimeLog.HasDay).
func AppendDay(path string, date time.Time, keys []ProjectKey) error {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read %s: %w", path, err)
	}
	lines := splitLines(string(data))

	block := splitLines(FormatDayBlock(date, keys))

	insertAt := len(lines)
	for i, line := range lines {
		if stripComment(line) == endMarker {
			insertAt = i
			break
		}
	}

	var out []string
	out = append(out, lines[:insertAt]...)
	if needsSeparation(out) {
		out = append(out, "")
	}
	out = append(out, block...)
	if insertAt < len(lines) {
		out = append(out, "")
		out = append(out, lines[insertAt:]...)
	}

	return writeLines(path, out)
}

func needsSeparation(lines []string) bool {
	if len(lines) == 0 {
		return false
	}
	return strings.TrimSpace(lines[len(lines)-1]) != ""
}

// writeLines replaces the file atomically: temp file in the same directory,
// fsync, then rename over the original, preserving its mode.
func writeLines(path string, lines []string) error {
	dir := filepath.Dir(path)
	temp, err := os.CreateTemp(dir, "tally-*")
	if err != nil {
		return err
	}
	defer os.Remove(temp.Name())

	content := strings.Join(lines, "\n")
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	if _, err := temp.WriteString(content); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Sync(); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Close(); err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err == nil {
		if err := os.Chmod(temp.Name(), info.Mode()); err != nil {
			return err
		}
	}

	return os.Rename(temp.Name(), path)
}
