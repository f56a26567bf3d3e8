package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/skyhigh/internal/endpoint"
	"github.com/five82/skyhigh/internal/flow"
)

type uploadDoneMsg struct {
	path   string
	result flow.UploadResult
}

type messageDoneMsg struct {
	status string
	err    error
}

// handleKey routes a key press. ctrl+c and tab always work; the rest depends
// on the view and on whether a text input has focus.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	if m.currentView == ViewLogs {
		return m.handleLogsKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.NextFocus):
		return m.setFocus((m.focus + 1) % focusCount)
	case key.Matches(msg, m.keys.PrevFocus):
		return m.setFocus((m.focus + focusCount - 1) % focusCount)
	}

	if m.editing() {
		return m.handleEditingKey(msg)
	}
	return m.handleNavKey(msg)
}

func (m Model) editing() bool {
	return m.focus == focusUpload || m.focus == focusMessage
}

func (m Model) setFocus(f focus) (tea.Model, tea.Cmd) {
	m.focus = f
	m.pathInput.Blur()
	m.messageInput.Blur()
	switch f {
	case focusUpload:
		return m, m.pathInput.Focus()
	case focusMessage:
		return m, m.messageInput.Focus()
	}
	return m, nil
}

func (m Model) handleEditingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Blur):
		return m.setFocus(focusFiles)
	case key.Matches(msg, m.keys.Submit):
		if m.focus == focusUpload {
			return m.submitUpload()
		}
		return m.submitMessage()
	}

	// The file input is disabled while an upload runs.
	if m.focus == focusUpload && m.uploadBusy() {
		return m, nil
	}
	return m.updateFocusedInput(msg)
}

func (m Model) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusUpload:
		m.pathInput, cmd = m.pathInput.Update(msg)
	case focusMessage:
		before := m.messageInput.Value()
		m.messageInput, cmd = m.messageInput.Update(msg)
		if value := m.messageInput.Value(); value != before && m.message != nil {
			m.message.SetDraft(value)
		}
	}
	return m, cmd
}

func (m Model) handleNavKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		m.updateLogViewport()
	case key.Matches(msg, m.keys.Logs):
		m.currentView = ViewLogs
		m.updateLogViewport()
		return m, m.readLogsCmd()
	case key.Matches(msg, m.keys.FocusUpload):
		return m.setFocus(focusUpload)
	case key.Matches(msg, m.keys.FocusMessage):
		return m.setFocus(focusMessage)
	case key.Matches(msg, m.keys.Refresh):
		if m.refresh != nil && m.store != nil {
			return m, refreshCmd(m.ctx, m.refresh, m.store)
		}
	case key.Matches(msg, m.keys.Up):
		m.fileOffset--
		m.clampFileOffset()
	case key.Matches(msg, m.keys.Down):
		m.fileOffset++
		m.clampFileOffset()
	case key.Matches(msg, m.keys.Top):
		m.fileOffset = 0
	case key.Matches(msg, m.keys.Bottom):
		m.fileOffset = len(m.snapshot.Files)
		m.clampFileOffset()
	}
	return m, nil
}

func (m Model) uploadBusy() bool {
	return m.uploadPending || (m.upload != nil && m.upload.Busy())
}

func (m Model) messageBusy() bool {
	return m.messagePending || (m.message != nil && m.message.Busy())
}

// submitUpload dispatches the upload flow. It is a no-op while an upload is
// in flight, matching a disabled submit button.
func (m Model) submitUpload() (tea.Model, tea.Cmd) {
	if m.upload == nil || m.uploadBusy() {
		return m, nil
	}
	m.uploadPending = true
	return m, uploadCmd(m.ctx, m.upload, m.endpoint, m.pathInput.Value())
}

// submitMessage dispatches the message flow. A blank message is not sent.
func (m Model) submitMessage() (tea.Model, tea.Cmd) {
	if m.message == nil || m.messageBusy() {
		return m, nil
	}
	text := m.messageInput.Value()
	if strings.TrimSpace(text) == "" {
		return m, nil
	}
	m.messagePending = true
	m.message.SetDraft(text)
	return m, messageCmd(m.ctx, m.message, m.endpoint)
}

func (m Model) handleUploadDone(msg uploadDoneMsg) (tea.Model, tea.Cmd) {
	m.uploadPending = false
	if !msg.result.OK {
		return m, nil
	}
	m.prefs.LastUpload = strings.TrimSpace(msg.path)
	m.savePrefs()
	if m.refresh != nil && m.store != nil {
		return m, refreshCmd(m.ctx, m.refresh, m.store)
	}
	return m, nil
}

func (m Model) handleMessageDone(msg messageDoneMsg) (tea.Model, tea.Cmd) {
	m.messagePending = false
	if msg.err == nil && m.message != nil {
		m.messageInput.SetValue(m.message.Draft())
	}
	return m, nil
}

func uploadCmd(ctx context.Context, up *flow.Upload, ep endpoint.Resolved, path string) tea.Cmd {
	return func() tea.Msg {
		file, closeFile, err := flow.OpenFile(path)
		if err != nil {
			return uploadDoneMsg{path: path, result: up.Fail(err)}
		}
		defer func() { _ = closeFile() }()
		return uploadDoneMsg{path: path, result: up.Submit(ctx, file, ep)}
	}
}

func messageCmd(ctx context.Context, msg *flow.Message, ep endpoint.Resolved) tea.Cmd {
	return func() tea.Msg {
		status, err := msg.Submit(ctx, ep)
		return messageDoneMsg{status: status, err: err}
	}
}

func (m *Model) clampFileOffset() {
	maxOffset := len(m.snapshot.Files) - m.filesVisible()
	if maxOffset < 0 {
		maxOffset = 0
	}
	if m.fileOffset > maxOffset {
		m.fileOffset = maxOffset
	}
	if m.fileOffset < 0 {
		m.fileOffset = 0
	}
}

func (m *Model) resizeInputs() {
	w := m.width - 16
	if w < 10 {
		w = 10
	}
	m.pathInput.Width = w
	m.messageInput.Width = w
}
