package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/skyhigh/internal/flow"
)

// renderForms stacks the upload form, the message form and the file list.
func (m Model) renderForms() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderUploadForm(),
		m.renderMessageForm(),
		m.renderFiles(),
	)
}

func (m Model) panelStyles(focused bool) (Styles, BgStyle) {
	bgColor := m.theme.SurfaceAlt
	if focused {
		bgColor = m.theme.FocusBg
	}
	return m.theme.Styles().WithBackground(bgColor), NewBgStyle(bgColor)
}

func (m Model) renderUploadForm() string {
	focused := m.focus == focusUpload
	styles, bg := m.panelStyles(focused)

	label := "Upload"
	if m.uploadBusy() {
		label = "Uploading..."
	}

	var st flow.UploadState
	if m.upload != nil {
		st = m.upload.State()
	}
	var status string
	switch st.Phase {
	case flow.UploadSucceeded:
		status = bg.Render(st.Message, styles.SuccessText)
	case flow.UploadFailed:
		status = bg.Render(st.Message, styles.DangerText)
	}

	lines := []string{
		bg.Render("File", styles.MutedText) + bg.Space() + m.pathInput.View(),
		m.renderButton(label, m.uploadBusy(), focused),
		status,
		bg.Render("API base: "+apiBaseLabel(m.endpoint.String()), styles.FaintText),
	}
	return m.renderBox("Upload a File", lines, m.width, uploadBoxHeight, focused)
}

func (m Model) renderMessageForm() string {
	focused := m.focus == focusMessage
	styles, bg := m.panelStyles(focused)

	label := "Send"
	if m.messageBusy() {
		label = "Sending..."
	}

	var st flow.MessageState
	if m.message != nil {
		st = m.message.State()
	}
	var status string
	switch st.Phase {
	case flow.MessageSent:
		status = bg.Render("Status:", styles.MutedText) + bg.Space() + bg.Render(st.StatusText, styles.SuccessText)
	case flow.MessageFailed:
		status = bg.Render(st.StatusText, styles.DangerText)
	}

	lines := []string{
		bg.Render("Message", styles.MutedText) + bg.Space() + m.messageInput.View(),
		m.renderButton(label, m.messageBusy(), focused),
		status,
	}
	return m.renderBox("Send a Message", lines, m.width, messageBoxHeight, focused)
}

// renderButton draws a submit button; a busy button is dimmed like a
// disabled control.
func (m Model) renderButton(label string, busy, focused bool) string {
	style := lipgloss.NewStyle().Padding(0, 2)
	switch {
	case busy:
		style = style.
			Background(lipgloss.Color(m.theme.Border)).
			Foreground(lipgloss.Color(m.theme.Muted))
	case focused:
		style = style.
			Background(lipgloss.Color(m.theme.Accent)).
			Foreground(lipgloss.Color(m.theme.Background)).
			Bold(true)
	default:
		style = style.
			Background(lipgloss.Color(m.theme.SelectionBg)).
			Foreground(lipgloss.Color(m.theme.SelectionText))
	}
	return style.Render(label)
}

func (m Model) renderFiles() string {
	focused := m.focus == focusFiles
	styles, bg := m.panelStyles(focused)

	files := m.snapshot.Files
	title := fmt.Sprintf("Uploaded Files (%d)", len(files))

	var lines []string
	switch {
	case !m.snapshot.HasHealth && m.snapshot.LastError == nil:
		lines = append(lines, bg.Render("Waiting for backend...", styles.MutedText))
	case len(files) == 0:
		lines = append(lines, bg.Render("No files uploaded yet", styles.MutedText))
	default:
		nameWidth := m.width - 20
		if nameWidth < 10 {
			nameWidth = 10
		}
		end := m.fileOffset + m.filesVisible()
		if end > len(files) {
			end = len(files)
		}
		for _, f := range files[m.fileOffset:end] {
			name := truncateMiddle(f.Filename, nameWidth)
			pad := nameWidth - lipgloss.Width(name)
			if pad < 1 {
				pad = 1
			}
			lines = append(lines,
				bg.Render(name, styles.Text)+bg.Spaces(pad)+
					bg.Render(formatBytes(f.Length), styles.MutedText))
		}
	}

	if m.snapshot.LastError != nil && len(files) > 0 {
		title += " (stale)"
	}
	return m.renderBox(title, lines, m.width, m.filesBoxHeight(), focused)
}

// formatBytes renders n in binary units with one decimal.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
