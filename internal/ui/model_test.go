package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/calebmv/tally/internal/report"
	"github.com/calebmv/tally/internal/timelog"
)

const sampleLog = `Date: Thursday 07/04/2024
acme,cms: 0835-1155,1400-1500,1530-1810
bozon,prototype: 1205-1400,1810-2000

Date: Friday 07/05/2024
acme,cms: 0815-1415
bozon,prototype: 1515-1820
`

func apply(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	got, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return got, cmd
}

func reloaded(t *testing.T, input string) reloadedMsg {
	t.Helper()
	log, err := timelog.Parse(input)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return reloadedMsg{log: log}
}

func sizedModel(t *testing.T) Model {
	t.Helper()
	pinned := report.PeriodFor(time.Date(2024, time.July, 4, 0, 0, 0, 0, time.Local))
	m := NewModel("/tmp/timelog.txt", &pinned, make(chan struct{}))
	m, _ = apply(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

func TestModelShowsReportAfterReload(t *testing.T) {
	m := sizedModel(t)
	m, _ = apply(t, m, reloaded(t, sampleLog))

	view := m.View()
	for _, want := range []string{"acme,cms", "bozon,prototype", "13:00", "Summary"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "error:") {
		t.Fatalf("unexpected banner:\n%s", view)
	}
}

func TestModelShowsBannerWhenFirstReloadFails(t *testing.T) {
	m := sizedModel(t)
	m, _ = apply(t, m, reloadedMsg{err: fmt.Errorf("read /tmp/timelog.txt: no such file")})

	view := m.View()
	if !strings.Contains(view, "error:") || !strings.Contains(view, "no such file") {
		t.Fatalf("banner missing:\n%s", view)
	}
	if !strings.Contains(view, "(no report loaded)") {
		t.Fatalf("placeholder missing before any good report:\n%s", view)
	}
}

func TestModelKeepsLastGoodReportOnReloadError(t *testing.T) {
	m := sizedModel(t)
	m, _ = apply(t, m, reloaded(t, sampleLog))

	m, _ = apply(t, m, reloadedMsg{err: fmt.Errorf("line 3: unrecognized line: %q", "garbage")})

	view := m.View()
	if !strings.Contains(view, "error:") || !strings.Contains(view, "unrecognized line") {
		t.Fatalf("banner missing:\n%s", view)
	}
	if !strings.Contains(view, "acme,cms") {
		t.Fatalf("last good report was dropped:\n%s", view)
	}

	// A clean reload clears the banner again.
	m, _ = apply(t, m, reloaded(t, sampleLog))
	if strings.Contains(m.View(), "error:") {
		t.Fatal("banner survived a successful reload")
	}
}

func TestModelModeToggle(t *testing.T) {
	input := "Date: Thursday 07/04/2024\nacme,cms,search: 0900-1000\nacme,cms,imports: 1000-1100\n"
	m := sizedModel(t)
	m, _ = apply(t, m, reloaded(t, input))

	if strings.Contains(m.View(), "acme,cms,search") {
		t.Fatalf("summary view leaks sub-projects:\n%s", m.View())
	}

	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}})
	view := m.View()
	if !strings.Contains(view, "Detail") || !strings.Contains(view, "acme,cms,search") {
		t.Fatalf("detail view after toggle:\n%s", view)
	}

	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}})
	if !strings.Contains(m.View(), "Summary") {
		t.Fatal("second toggle did not return to summary")
	}
}

func TestModelWarningToggle(t *testing.T) {
	m := sizedModel(t)
	m, _ = apply(t, m, reloaded(t, "Date: Monday 07/04/2024\nacme,cms: 0900-1000\n"))

	view := m.View()
	if !strings.Contains(view, "1 warning(s)") {
		t.Fatalf("warning count line missing:\n%s", view)
	}
	if strings.Contains(view, "Thursday") {
		t.Fatalf("warning text shown before toggle:\n%s", view)
	}

	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'w'}})
	if !strings.Contains(m.View(), "Thursday") {
		t.Fatalf("warning text missing after toggle:\n%s", m.View())
	}
}

func TestModelResizeClampsScroll(t *testing.T) {
	// Enough rows that the report far exceeds a short window.
	var b strings.Builder
	for d := 1; d <= 15; d++ {
		date := time.Date(2024, time.July, d, 0, 0, 0, 0, time.Local)
		fmt.Fprintf(&b, "Date: %s %s\n", date.Weekday(), timelog.FormatDate(date))
		for p := 0; p < 4; p++ {
			fmt.Fprintf(&b, "client%02d,project%d: 0900-1000\n", d, p)
		}
		b.WriteByte('\n')
	}

	pinned := report.PeriodFor(time.Date(2024, time.July, 4, 0, 0, 0, 0, time.Local))
	m := NewModel("/tmp/timelog.txt", &pinned, make(chan struct{}))
	m, _ = apply(t, m, tea.WindowSizeMsg{Width: 80, Height: 10})
	m, _ = apply(t, m, reloaded(t, b.String()))

	m.vp.GotoBottom()
	if m.vp.PastBottom() {
		t.Fatal("GotoBottom left the viewport past the bottom")
	}
	bottomOffset := m.vp.YOffset

	// Growing the window shrinks the maximum offset; the old one must not
	// leave blank space pinned below the content.
	m, _ = apply(t, m, tea.WindowSizeMsg{Width: 80, Height: 50})
	if m.vp.PastBottom() {
		t.Fatalf("YOffset %d past bottom after resize (total %d, height %d)",
			m.vp.YOffset, m.vp.TotalLineCount(), m.vp.Height)
	}
	if m.vp.YOffset >= bottomOffset {
		t.Fatalf("YOffset %d not re-clamped below the old bottom %d", m.vp.YOffset, bottomOffset)
	}

	// Shrinking back must also stay clamped.
	m, _ = apply(t, m, tea.WindowSizeMsg{Width: 80, Height: 10})
	if m.vp.PastBottom() {
		t.Fatalf("YOffset %d past bottom after shrink", m.vp.YOffset)
	}
}

func TestModelQuitKeys(t *testing.T) {
	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyCtrlC},
	} {
		m := sizedModel(t)
		_, cmd := apply(t, m, k)
		if cmd == nil {
			t.Fatalf("key %s produced no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("key %s did not quit", k)
		}
	}
}

func TestModelFileChangeWhileEditingOnlyRearms(t *testing.T) {
	m := sizedModel(t)
	m, _ = apply(t, m, reloaded(t, sampleLog))
	m.editing = true

	next, cmd := apply(t, m, fileChangedMsg{})
	if cmd == nil {
		t.Fatal("watcher listener was not re-armed")
	}
	if next.banner != "" {
		t.Fatalf("banner changed: %q", next.banner)
	}
}

func TestReloadCmdReadsAndParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timelog.txt")
	if err := os.WriteFile(path, []byte(sampleLog), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	m := NewModel(path, nil, make(chan struct{}))

	msg, ok := m.reloadCmd()().(reloadedMsg)
	if !ok {
		t.Fatal("reloadCmd did not return a reloadedMsg")
	}
	if msg.err != nil {
		t.Fatalf("reload: %v", msg.err)
	}
	if len(msg.log.Days) != 2 {
		t.Fatalf("len(Days) = %d, want 2", len(msg.log.Days))
	}

	missing := NewModel(filepath.Join(t.TempDir(), "absent.txt"), nil, make(chan struct{}))
	if msg := missing.reloadCmd()().(reloadedMsg); msg.err == nil {
		t.Fatal("reload of a missing file must error")
	}
}

func TestAppendCmdRefusesDayWrittenBehindItsBack(t *testing.T) {
	// The file gains today's block externally while the model still holds
	// the pre-change parse. Append must still refuse instead of writing a
	// second block for today.
	path := filepath.Join(t.TempDir(), "timelog.txt")
	today := timelog.Midnight(time.Now())
	yesterday := today.AddDate(0, 0, -1)
	key := []timelog.ProjectKey{{Client: "acme", Project: "cms"}}

	if err := os.WriteFile(path, []byte(timelog.FormatDayBlock(yesterday, key)), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	m := NewModel(path, nil, make(chan struct{}))
	msg := m.reloadCmd()().(reloadedMsg)
	if msg.err != nil {
		t.Fatalf("reload fixture: %v", msg.err)
	}
	m.log = msg.log // yesterday only

	if err := timelog.AppendDay(path, today, key); err != nil {
		t.Fatalf("external append: %v", err)
	}

	result := m.appendCmd()().(appendedMsg)
	if !errors.Is(result.err, timelog.ErrDayExists) {
		t.Fatalf("append error = %v, want ErrDayExists", result.err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got := strings.Count(string(data), timelog.FormatDate(today)); got != 1 {
		t.Fatalf("today appears %d times in the file, want 1:\n%s", got, string(data))
	}
}

func TestAppendCmdRefusesExistingDay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timelog.txt")
	today := timelog.Midnight(time.Now())
	content := timelog.FormatDayBlock(today, []timelog.ProjectKey{{Client: "acme", Project: "cms"}})
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	m := NewModel(path, nil, make(chan struct{}))
	msg, ok := m.reloadCmd()().(reloadedMsg)
	if !ok || msg.err != nil {
		t.Fatalf("reload fixture: %v", msg.err)
	}
	m.log = msg.log

	result := m.appendCmd()().(appendedMsg)
	if !errors.Is(result.err, timelog.ErrDayExists) {
		t.Fatalf("append error = %v, want ErrDayExists", result.err)
	}
}
