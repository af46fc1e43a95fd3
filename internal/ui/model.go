package ui

import (
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/calebmv/tally/internal/report"
	"github.com/calebmv/tally/internal/timelog"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	bannerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// chromeLines is everything View draws around the viewport: header, status
// line, and the key help footer.
const chromeLines = 3

const recentProjectCount = 5

// Model owns all watch-mode session state: the current parse of the file,
// the report derived from it, the scroll window, and any error banner.
type Model struct {
	path   string
	pinned *report.Period // nil means the semimonth of today, per reload

	mode report.Mode
	log  timelog.TimeLog
	rpt  report.Report

	rendered     string // last good rendered report
	haveReport   bool
	banner       string
	showWarnings bool
	editing      bool

	vp     viewport.Model
	ready  bool
	width  int
	height int

	changes <-chan struct{}
}

type reloadedMsg struct {
	log timelog.TimeLog
	err error
}

type fileChangedMsg struct{}

type appendedMsg struct {
	err error
}

type editorFinishedMsg struct {
	err error
}

// NewModel seeds the watch-mode model. changes delivers debounced
// file-change signals from the watcher; pinned, when non-nil, fixes the
// reporting period instead of following today's semimonth.
func NewModel(path string, pinned *report.Period, changes <-chan struct{}) Model {
	return Model{
		path:    path,
		pinned:  pinned,
		mode:    report.ModeSummary,
		changes: changes,
	}
}

// Init parses the file once and arms the watcher listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.reloadCmd(), m.waitForChange())
}

// Update consumes one tagged event at a time: keys, resize, watcher
// signals, and the results of reload/append/editor commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case fileChangedMsg:
		if m.editing {
			// The unconditional reload on editor exit supersedes this.
			return m, m.waitForChange()
		}
		return m, tea.Batch(m.reloadCmd(), m.waitForChange())
	case reloadedMsg:
		return m.handleReloaded(msg)
	case appendedMsg:
		if msg.err != nil {
			m.banner = fmt.Sprintf("append failed: %v", msg.err)
			return m, nil
		}
		m.banner = ""
		return m, m.reloadCmd()
	case editorFinishedMsg:
		m.editing = false
		if msg.err != nil {
			m.banner = fmt.Sprintf("editor: %v", msg.err)
		}
		return m, m.reloadCmd()
	default:
		return m, nil
	}
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	vpHeight := msg.Height - chromeLines
	if vpHeight < 1 {
		vpHeight = 1
	}
	if !m.ready {
		m.vp = viewport.New(msg.Width, vpHeight)
		m.vp.KeyMap.PageDown = key.NewBinding(key.WithKeys("pgdown", "ctrl+v"))
		m.vp.KeyMap.PageUp = key.NewBinding(key.WithKeys("pgup", "alt+v"))
		m.ready = true
	} else {
		m.vp.Width = msg.Width
		m.vp.Height = vpHeight
	}
	m.vp.SetContent(m.content())
	// A taller window can leave the old offset past the new bottom.
	if m.vp.PastBottom() {
		m.vp.GotoBottom()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.banner = ""
		return m, m.reloadCmd()
	case "a":
		return m, m.appendCmd()
	case "e":
		m.editing = true
		return m, m.editorCmd()
	case "m":
		m.mode = m.mode.Toggle()
		m.rebuild()
		if m.ready {
			m.vp.SetContent(m.content())
			m.vp.GotoTop()
		}
		return m, nil
	case "w":
		m.showWarnings = !m.showWarnings
		if m.ready {
			m.vp.SetContent(m.content())
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	}
}

func (m Model) handleReloaded(msg reloadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// Keep the last good report on screen; only the banner changes.
		m.banner = msg.err.Error()
		return m, nil
	}
	m.banner = ""
	m.log = msg.log
	previous := m.rendered
	m.rebuild()
	if m.ready && (m.rendered != previous || !m.haveReport) {
		m.vp.SetContent(m.content())
	}
	m.haveReport = true
	return m, nil
}

// rebuild recomputes the report and its rendering from the current log.
// The old report is discarded whole, never patched.
func (m *Model) rebuild() {
	period := report.PeriodFor(time.Now())
	if m.pinned != nil {
		period = *m.pinned
	}
	m.rpt = report.Build(m.log, period, m.mode)
	m.rendered = report.Render(m.rpt)
}

// content is what the viewport scrolls over: the rendered report, with the
// parser warnings section prepended when toggled on.
func (m Model) content() string {
	if !m.haveReport && m.rendered == "" {
		return "(no report loaded)"
	}
	if !m.showWarnings || len(m.log.Warnings) == 0 {
		return m.rendered
	}
	var b strings.Builder
	for _, w := range m.log.Warnings {
		b.WriteString(warnStyle.Render("warning: " + w))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(m.rendered)
	return b.String()
}

func (m Model) reloadCmd() tea.Cmd {
	path := m.path
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return reloadedMsg{err: fmt.Errorf("read %s: %w", path, err)}
		}
		log, err := timelog.Parse(string(data))
		if err != nil {
			return reloadedMsg{err: err}
		}
		return reloadedMsg{log: log}
	}
}

func (m Model) appendCmd() tea.Cmd {
	path := m.path
	return func() tea.Msg {
		// Re-parse the file here: the model's log can be stale when an
		// external write landed but its debounced signal has not been
		// processed yet, and a stale HasDay would duplicate today's block.
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return appendedMsg{err: fmt.Errorf("read %s: %w", path, err)}
		}
		log, err := timelog.Parse(string(data))
		if err != nil {
			return appendedMsg{err: err}
		}
		today := timelog.Midnight(time.Now())
		if log.HasDay(today) {
			return appendedMsg{err: fmt.Errorf("%w: %s", timelog.ErrDayExists, timelog.FormatDate(today))}
		}
		recent := report.RecentProjects(log, recentProjectCount)
		if err := timelog.AppendDay(path, today, recent); err != nil {
			return appendedMsg{err: err}
		}
		return appendedMsg{}
	}
}

// lineArgEditors are the editors known to accept a "+<line>" argument.
var lineArgEditors = regexp.MustCompile(`^(.*/)?(vim?|hx)$`)

func (m Model) editorCmd() tea.Cmd {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	var args []string
	if lineArgEditors.MatchString(editor) {
		if n := len(m.log.Days); n > 0 {
			args = append(args, fmt.Sprintf("+%d", m.log.Days[n-1].LineNum))
		}
	}
	args = append(args, m.path)
	c := exec.Command(editor, args...)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

func (m Model) waitForChange() tea.Cmd {
	ch := m.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return fileChangedMsg{}
	}
}

// View renders the frame: header, status line, scrollable report, help.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("tally watch: " + m.path))
	b.WriteByte('\n')

	switch {
	case m.banner != "":
		b.WriteString(bannerStyle.Render("error: " + m.banner))
	case len(m.log.Warnings) > 0 && !m.showWarnings:
		b.WriteString(warnStyle.Render(fmt.Sprintf("%d warning(s), press w to show", len(m.log.Warnings))))
	}
	b.WriteByte('\n')

	b.WriteString(m.vp.View())
	b.WriteByte('\n')

	b.WriteString(helpStyle.Render("q quit  r reload  a append  e edit  m summary/detail  w warnings  arrows/pgup/pgdn scroll"))
	return b.String()
}
