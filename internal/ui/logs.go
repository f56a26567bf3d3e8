package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/skyhigh/internal/logtail"
)

const logLineLimit = 500

// logState is the client log view.
type logState struct {
	lines  []string
	err    error
	follow bool
}

type logLinesMsg struct {
	lines []string
	err   error
}

func (m Model) readLogsCmd() tea.Cmd {
	path := m.logPath
	return func() tea.Msg {
		if path == "" {
			return logLinesMsg{}
		}
		lines, err := logtail.Read(path, logLineLimit)
		return logLinesMsg{lines: lines, err: err}
	}
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logState.err = msg.err
	if msg.err == nil {
		m.logState.lines = msg.lines
	}
	m.updateLogViewport()
}

// updateLogViewport sizes the viewport to the log box and reloads content.
func (m *Model) updateLogViewport() {
	w := m.width - 4
	h := m.height - 5 // header, command bar, box borders, title
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if m.logViewport.Width == 0 && m.logViewport.Height == 0 {
		m.logViewport = viewport.New(w, h)
	}
	m.logViewport.Width = w
	m.logViewport.Height = h
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	m.logViewport.SetContent(m.renderLogContent())
	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.currentView = ViewForms
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		m.updateLogViewport()
		return m, nil
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logState.follow = !m.logState.follow
		if m.logState.follow {
			m.logViewport.GotoBottom()
			return m, m.readLogsCmd()
		}
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.logState.follow = false
		m.logViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	if !m.logViewport.AtBottom() {
		m.logState.follow = false
	}
	return m, cmd
}

// renderLogContent formats each slog record as "time LEVEL message key=value".
func (m Model) renderLogContent() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)

	if m.logState.err != nil {
		return bg.Render("Unable to read log: "+m.logState.err.Error(), styles.DangerText)
	}
	if len(m.logState.lines) == 0 {
		return bg.Render("No log entries yet", styles.MutedText)
	}

	out := make([]string, 0, len(m.logState.lines))
	for _, line := range m.logState.lines {
		out = append(out, m.formatLogLine(logtail.Parse(line), styles, bg))
	}
	return strings.Join(out, "\n")
}

func (m Model) formatLogLine(e logtail.Entry, styles Styles, bg BgStyle) string {
	if e.Level == "" {
		return bg.Render(e.Message, styles.Text)
	}

	var parts []string
	if !e.Time.IsZero() {
		parts = append(parts, bg.Render(e.Time.Format("15:04:05"), styles.FaintText))
	}
	parts = append(parts, bg.Render(padLevel(e.Level), levelStyle(styles, e.Level)))
	parts = append(parts, bg.Render(e.Message, styles.Text))
	for _, a := range e.Attrs {
		parts = append(parts,
			bg.Render(a.Key+"=", styles.FaintText)+bg.Render(a.Value, styles.MutedText))
	}
	return strings.Join(parts, bg.Space())
}

func levelStyle(styles Styles, level string) lipgloss.Style {
	switch level {
	case "ERROR":
		return styles.DangerText
	case "WARN":
		return styles.WarningText.Bold(true)
	case "DEBUG":
		return styles.InfoText
	default:
		return styles.SuccessText
	}
}

func padLevel(level string) string {
	if len(level) < 5 {
		return level + strings.Repeat(" ", 5-len(level))
	}
	return level
}

// renderLogs draws the log box and a one-line footer.
func (m Model) renderLogs() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	title := "Client Log"
	if m.logPath != "" {
		title += "  " + truncateMiddle(m.logPath, m.width/2)
	}
	box := m.renderBox(title, strings.Split(m.logViewport.View(), "\n"), m.width, m.height-3, true)

	mode := "following"
	if !m.logState.follow {
		mode = "paused"
	}
	footer := bg.Render(mode, styles.MutedText) + bg.Spaces(2) +
		bg.Render(countLabel(len(m.logState.lines), "line"), styles.FaintText)
	return box + "\n" + bg.FillLine(footer, m.width)
}

func countLabel(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
