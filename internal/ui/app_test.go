package ui

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/skyhigh/internal/endpoint"
	"github.com/five82/skyhigh/internal/flow"
	"github.com/five82/skyhigh/internal/prefs"
	"github.com/five82/skyhigh/internal/skyhigh"
	"github.com/five82/skyhigh/internal/state"
)

type fakeAPI struct {
	probes   atomic.Int32
	uploads  atomic.Int32
	messages atomic.Int32

	uploadErr  error
	messageErr error
	lastText   atomic.Value
}

func (f *fakeAPI) Probe(context.Context, endpoint.Resolved) error {
	f.probes.Add(1)
	return nil
}

func (f *fakeAPI) Upload(_ context.Context, _ endpoint.Resolved, filename string, body io.Reader) (skyhigh.UploadResponse, error) {
	f.uploads.Add(1)
	if f.uploadErr != nil {
		return skyhigh.UploadResponse{}, f.uploadErr
	}
	n, _ := io.Copy(io.Discard, body)
	return skyhigh.UploadResponse{Status: "uploaded", Filename: filename, Size: n}, nil
}

func (f *fakeAPI) SendMessage(_ context.Context, _ endpoint.Resolved, text string) (skyhigh.MessageResponse, error) {
	f.messages.Add(1)
	f.lastText.Store(text)
	if f.messageErr != nil {
		return skyhigh.MessageResponse{}, f.messageErr
	}
	return skyhigh.MessageResponse{Status: "received", Message: text}, nil
}

func newTestModel(t *testing.T, api *fakeAPI, opts Options) Model {
	t.Helper()
	opts.Upload = flow.NewUpload(api, nil)
	opts.Message = flow.NewMessage(api, nil)
	m := New(opts)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}

func press(t *testing.T, m Model, k tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(k)
	return updated.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m, _ = press(t, m, runes(string(r)))
	}
	return m
}

// deliver runs cmd and feeds its message back into the model.
func deliver(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	updated, _ := m.Update(cmd())
	return updated.(Model)
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestNew_Defaults(t *testing.T) {
	m := New(Options{Prefs: prefs.Prefs{Theme: "Slate", LastUpload: "/tmp/report.pdf"}})

	if m.focus != focusUpload || !m.pathInput.Focused() {
		t.Fatalf("focus = %v, want upload input focused", m.focus)
	}
	if m.pathInput.Value() != "/tmp/report.pdf" {
		t.Fatalf("path input = %q, want last upload", m.pathInput.Value())
	}
	if m.theme.Name != "Slate" {
		t.Fatalf("theme = %q, want Slate", m.theme.Name)
	}
	if got := New(Options{}).theme.Name; got != prefs.DefaultTheme {
		t.Fatalf("default theme = %q", got)
	}
	if New(Options{}).View() != "Loading..." {
		t.Fatalf("View before size should be Loading...")
	}
}

func TestTabCyclesFocus(t *testing.T) {
	m := newTestModel(t, &fakeAPI{}, Options{})

	want := []focus{focusMessage, focusFiles, focusUpload}
	for _, f := range want {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
		if m.focus != f {
			t.Fatalf("focus = %v, want %v", m.focus, f)
		}
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != focusFiles {
		t.Fatalf("shift+tab focus = %v, want files", m.focus)
	}
	if m.pathInput.Focused() || m.messageInput.Focused() {
		t.Fatalf("inputs still focused on files panel")
	}
}

func TestLettersGoToInputWhileEditing(t *testing.T) {
	m := newTestModel(t, &fakeAPI{}, Options{})

	m = typeText(t, m, "q?l")
	if m.pathInput.Value() != "q?l" {
		t.Fatalf("path input = %q, want q?l", m.pathInput.Value())
	}
	if m.showHelp || m.currentView != ViewForms {
		t.Fatalf("navigation keys fired while editing")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.focus != focusFiles {
		t.Fatalf("esc focus = %v, want files", m.focus)
	}
	if _, cmd := press(t, m, runes("q")); !isQuit(cmd) {
		t.Fatalf("q on files panel did not quit")
	}
}

func TestCtrlCAlwaysQuits(t *testing.T) {
	m := newTestModel(t, &fakeAPI{}, Options{})
	if _, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC}); !isQuit(cmd) {
		t.Fatalf("ctrl+c did not quit")
	}
}

func TestUpload_Success(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	prefsPath := filepath.Join(dir, "prefs.toml")

	api := &fakeAPI{}
	m := newTestModel(t, api, Options{PrefsPath: prefsPath})
	m = typeText(t, m, path)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.uploadPending {
		t.Fatalf("uploadPending not set on submit")
	}
	if !strings.Contains(m.View(), "Uploading...") {
		t.Fatalf("view does not show Uploading...:\n%s", m.View())
	}
	if _, second := press(t, m, tea.KeyMsg{Type: tea.KeyEnter}); second != nil {
		t.Fatalf("second enter while pending returned a command")
	}

	m = deliver(t, m, cmd)
	if m.uploadPending {
		t.Fatalf("uploadPending still set after result")
	}
	if api.probes.Load() != 1 || api.uploads.Load() != 1 {
		t.Fatalf("probes=%d uploads=%d, want 1 each", api.probes.Load(), api.uploads.Load())
	}
	if view := m.View(); !strings.Contains(view, "Uploaded: notes.txt") {
		t.Fatalf("view missing success status:\n%s", view)
	}

	saved, err := prefs.Load(prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if saved.LastUpload != path {
		t.Fatalf("saved LastUpload = %q, want %q", saved.LastUpload, path)
	}
}

func TestUpload_NoFileSelected(t *testing.T) {
	api := &fakeAPI{}
	m := newTestModel(t, api, Options{})

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = deliver(t, m, cmd)

	if api.probes.Load() != 0 || api.uploads.Load() != 0 {
		t.Fatalf("requests made without a file")
	}
	if view := m.View(); !strings.Contains(view, "No file selected") {
		t.Fatalf("view missing validation error:\n%s", view)
	}
}

func TestUpload_MissingPathShowsOpenError(t *testing.T) {
	api := &fakeAPI{}
	m := newTestModel(t, api, Options{})
	m = typeText(t, m, filepath.Join(t.TempDir(), "gone.txt"))

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = deliver(t, m, cmd)

	if api.probes.Load() != 0 {
		t.Fatalf("probe sent for unreadable file")
	}
	if st := m.upload.State(); st.Phase != flow.UploadFailed || !strings.Contains(st.Message, "gone.txt") {
		t.Fatalf("upload state = %#v", st)
	}
}

func TestUpload_ServerErrorShown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	api := &fakeAPI{uploadErr: &skyhigh.StatusError{Op: "Upload", StatusCode: 500, Status: "500 Internal Server Error"}}
	m := newTestModel(t, api, Options{})
	m = typeText(t, m, path)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = deliver(t, m, cmd)

	if view := m.View(); !strings.Contains(view, "Upload failed: 500 Internal Server Error") {
		t.Fatalf("view missing server error:\n%s", view)
	}
}

func TestMessage_SendClearsInput(t *testing.T) {
	api := &fakeAPI{}
	m := newTestModel(t, api, Options{})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "hi there")
	if m.message.Draft() != "hi there" {
		t.Fatalf("draft = %q, want typed text", m.message.Draft())
	}

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(m.View(), "Sending...") {
		t.Fatalf("view does not show Sending...")
	}
	m = deliver(t, m, cmd)

	if got, _ := api.lastText.Load().(string); got != "hi there" {
		t.Fatalf("sent %q, want hi there", got)
	}
	if m.messageInput.Value() != "" {
		t.Fatalf("message input = %q, want cleared", m.messageInput.Value())
	}
	if view := m.View(); !strings.Contains(view, "Status: received") {
		t.Fatalf("view missing status:\n%s", view)
	}
}

func TestMessage_FailureKeepsInput(t *testing.T) {
	api := &fakeAPI{messageErr: &skyhigh.ConnectivityError{Endpoint: "http://api", Err: errors.New("connection refused")}}
	m := newTestModel(t, api, Options{})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "retry me")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = deliver(t, m, cmd)

	if m.messageInput.Value() != "retry me" {
		t.Fatalf("message input = %q, want kept", m.messageInput.Value())
	}
	if view := m.View(); !strings.Contains(view, "Unable to reach API at http://api") {
		t.Fatalf("view missing connectivity error:\n%s", view)
	}
}

func TestMessage_BlankNotSent(t *testing.T) {
	api := &fakeAPI{}
	m := newTestModel(t, api, Options{})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "   ")

	if _, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Fatalf("blank message produced a command")
	}
	if api.messages.Load() != 0 {
		t.Fatalf("blank message was sent")
	}
}

func TestSnapshotRendering(t *testing.T) {
	var store state.Store
	store.Update(&skyhigh.Health{Message: "Skyhigh Demo Backend is running"},
		[]skyhigh.FileInfo{{Filename: "report.pdf", Length: 2048}, {Filename: "a.txt", Length: 3}}, nil)

	m := newTestModel(t, &fakeAPI{}, Options{Store: &store, Endpoint: ""})
	updated, _ := m.Update(snapshotMsg(store.Snapshot()))
	m = updated.(Model)

	view := m.View()
	for _, want := range []string{"ONLINE", "report.pdf", "2.0 KiB", "a.txt", "3 B", "Uploaded Files (2)", "API base: (relative / proxied)"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}

	store.Update(nil, nil, errors.New("dial tcp: connection refused"))
	store.Update(nil, nil, errors.New("dial tcp: connection refused"))
	updated, _ = m.Update(snapshotMsg(store.Snapshot()))
	view = updated.(Model).View()
	for _, want := range []string{"OFFLINE", "Backend refused connection", "(stale)"} {
		if !strings.Contains(view, want) {
			t.Fatalf("offline view missing %q:\n%s", want, view)
		}
	}
}

func TestFileScrollClamps(t *testing.T) {
	files := make([]skyhigh.FileInfo, 100)
	for i := range files {
		files[i] = skyhigh.FileInfo{Filename: "f", Length: int64(i)}
	}
	m := newTestModel(t, &fakeAPI{}, Options{})
	updated, _ := m.Update(snapshotMsg(state.Snapshot{HasHealth: true, Files: files}))
	m = updated.(Model)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	m, _ = press(t, m, runes("k"))
	if m.fileOffset != 0 {
		t.Fatalf("offset = %d after scrolling above top", m.fileOffset)
	}
	m, _ = press(t, m, runes("G"))
	if want := 100 - m.filesVisible(); m.fileOffset != want {
		t.Fatalf("offset = %d, want %d", m.fileOffset, want)
	}
	m, _ = press(t, m, runes("j"))
	if want := 100 - m.filesVisible(); m.fileOffset != want {
		t.Fatalf("offset moved past bottom: %d", m.fileOffset)
	}
	m, _ = press(t, m, runes("g"))
	if m.fileOffset != 0 {
		t.Fatalf("g offset = %d", m.fileOffset)
	}
}

func TestThemeCycleSavesPrefs(t *testing.T) {
	prefsPath := filepath.Join(t.TempDir(), "prefs.toml")
	m := newTestModel(t, &fakeAPI{}, Options{PrefsPath: prefsPath})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	m, _ = press(t, m, runes("T"))
	if m.theme.Name != "Slate" {
		t.Fatalf("theme = %q, want Slate", m.theme.Name)
	}
	saved, err := prefs.Load(prefsPath)
	if err != nil || saved.Theme != "Slate" {
		t.Fatalf("saved prefs = %#v, %v", saved, err)
	}
}

func TestHelpOverlay(t *testing.T) {
	m := newTestModel(t, &fakeAPI{}, Options{})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	m, _ = press(t, m, runes("?"))
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help not shown")
	}
	m, _ = press(t, m, runes("x"))
	if m.showHelp {
		t.Fatalf("help not closed by key")
	}
}

func TestLogsView(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "skyhigh.log")
	line := `time=2026-10-17T09:12:44.512+02:00 level=WARN msg="ignoring api_url" api_url=http://localhost:8001` + "\n"
	if err := os.WriteFile(logPath, []byte(line), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	m := newTestModel(t, &fakeAPI{}, Options{LogPath: logPath})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, cmd := press(t, m, runes("l"))
	if m.currentView != ViewLogs {
		t.Fatalf("view = %v, want logs", m.currentView)
	}
	m = deliver(t, m, cmd)

	view := m.View()
	for _, want := range []string{"Client Log", "WARN", "ignoring api_url", "api_url=", "following"} {
		if !strings.Contains(view, want) {
			t.Fatalf("log view missing %q:\n%s", want, view)
		}
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if m.logState.follow {
		t.Fatalf("space did not pause follow")
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.currentView != ViewForms {
		t.Fatalf("esc did not return to forms")
	}
}

func TestTickSchedulesSnapshot(t *testing.T) {
	var store state.Store
	store.Update(&skyhigh.Health{Message: "ok"}, nil, nil)
	m := newTestModel(t, &fakeAPI{}, Options{Store: &store, PollTick: time.Hour})

	_, cmd := m.Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Fatalf("tick returned no command")
	}
}

func TestRefreshKey(t *testing.T) {
	var store state.Store
	var calls atomic.Int32
	refresh := func(context.Context) {
		calls.Add(1)
		store.Update(&skyhigh.Health{Message: "ok"}, []skyhigh.FileInfo{{Filename: "new.txt"}}, nil)
	}
	m := newTestModel(t, &fakeAPI{}, Options{Store: &store, Refresh: refresh})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	m, cmd := press(t, m, runes("r"))
	m = deliver(t, m, cmd)
	if calls.Load() != 1 {
		t.Fatalf("refresh called %d times", calls.Load())
	}
	if len(m.snapshot.Files) != 1 || m.snapshot.Files[0].Filename != "new.txt" {
		t.Fatalf("snapshot not refreshed: %#v", m.snapshot.Files)
	}
}
