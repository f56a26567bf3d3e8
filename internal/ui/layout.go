package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	uploadBoxHeight  = 7 // title, input, button, status, api base
	messageBoxHeight = 6 // title, input, button, status
	minFilesHeight   = 4
)

// renderBox draws a bordered panel of exactly width x height cells. The first
// inner line is the title; lines beyond the panel are dropped and long lines
// are clipped rather than wrapped.
func (m Model) renderBox(title string, lines []string, width, height int, focused bool) string {
	bgColor := m.theme.SurfaceAlt
	border := m.theme.Border
	if focused {
		bgColor = m.theme.FocusBg
		border = m.theme.BorderFocus
	}
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)

	titleStyle := styles.MutedText.Bold(true)
	if focused {
		titleStyle = styles.AccentText.Bold(true)
	}

	innerWidth := width - 4 // border and padding
	if innerWidth < 1 {
		innerWidth = 1
	}
	innerHeight := height - 2
	if innerHeight < 1 {
		innerHeight = 1
	}

	all := append([]string{bg.Render(title, titleStyle)}, lines...)
	if len(all) > innerHeight {
		all = all[:innerHeight]
	}
	for i, line := range all {
		all[i] = bg.FillLine(ansi.Truncate(line, innerWidth, "…"), innerWidth)
	}
	for len(all) < innerHeight {
		all = append(all, bg.Spaces(innerWidth))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		BorderBackground(lipgloss.Color(bgColor)).
		Background(lipgloss.Color(bgColor)).
		Padding(0, 1).
		Render(strings.Join(all, "\n"))
}

// filesBoxHeight is what remains below the two forms.
func (m Model) filesBoxHeight() int {
	h := m.height - 2 - uploadBoxHeight - messageBoxHeight
	if h < minFilesHeight {
		h = minFilesHeight
	}
	return h
}

// filesVisible is the number of file rows the files panel shows.
func (m Model) filesVisible() int {
	if m.height == 0 {
		return len(m.snapshot.Files)
	}
	return m.filesBoxHeight() - 3 // borders and title
}
