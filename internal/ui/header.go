package ui

import (
	"fmt"
	"strings"

	"github.com/five82/skyhigh/internal/state"
)

// renderHeader draws the status line: logo, backend badge, file count, API
// base and last poll time.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	status := backendStatus(m.snapshot)
	parts := []string{
		bg.Render("skyhigh", styles.Logo),
		styles.PhaseBadge(status).Render(strings.ToUpper(status)),
	}

	switch {
	case m.snapshot.LastError != nil:
		parts = append(parts,
			bg.Render(classifyConnectionError(m.snapshot.LastError), styles.DangerText))
	case m.snapshot.HasHealth:
		parts = append(parts, bg.Render(truncate(m.snapshot.Health.Message, 40), styles.MutedText))
	default:
		parts = append(parts, bg.Render("Connecting to backend...", styles.WarningText.Bold(true)))
	}

	if m.snapshot.HasHealth {
		parts = append(parts,
			bg.Render("Files:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", len(m.snapshot.Files)), styles.Text))
	}

	parts = append(parts,
		bg.Render("API", styles.FaintText)+bg.Space()+
			bg.Render(truncateMiddle(apiBaseLabel(m.endpoint.String()), 40), styles.InfoText))

	if !m.snapshot.LastUpdated.IsZero() {
		parts = append(parts, bg.Render(m.snapshot.LastUpdated.Format("15:04:05"), styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

// backendStatus condenses a snapshot to a badge name.
func backendStatus(s state.Snapshot) string {
	switch {
	case s.IsOffline():
		return "offline"
	case s.LastError != nil:
		return "degraded"
	case s.HasHealth:
		return "online"
	default:
		return "idle"
	}
}

func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "Backend refused connection"
	case strings.Contains(msg, "no such host"):
		return "Host not found"
	case strings.Contains(msg, "deadline exceeded"), strings.Contains(msg, "timeout"):
		return "Timed out"
	default:
		return truncate(msg, 60)
	}
}

// apiBaseLabel is the text shown after "API base:".
func apiBaseLabel(resolved string) string {
	if resolved == "(relative)" || resolved == "" {
		return "(relative / proxied)"
	}
	return resolved
}

// renderCommandBar lists the keys that apply to the current view and focus.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.currentView == ViewLogs:
		followLabel := "Pause"
		if !m.logState.follow {
			followLabel = "Follow"
		}
		commands = []cmd{
			{"Space", followLabel},
			{"j/k", "Scroll"},
			{"esc", "Forms"},
			{"?", "More"},
		}
	case m.focus == focusUpload:
		commands = []cmd{
			{"enter", "Upload"},
			{"tab", "Next"},
			{"esc", "Leave input"},
			{"ctrl+c", "Quit"},
		}
	case m.focus == focusMessage:
		commands = []cmd{
			{"enter", "Send"},
			{"tab", "Next"},
			{"esc", "Leave input"},
			{"ctrl+c", "Quit"},
		}
	default:
		commands = []cmd{
			{"u", "File"},
			{"m", "Message"},
			{"j/k", "Scroll"},
			{"r", "Refresh"},
			{"l", "Log"},
			{"q", "Quit"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}
