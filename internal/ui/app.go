package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/skyhigh/internal/endpoint"
	"github.com/five82/skyhigh/internal/flow"
	"github.com/five82/skyhigh/internal/prefs"
	"github.com/five82/skyhigh/internal/state"
)

// View is the active screen.
type View int

const (
	ViewForms View = iota
	ViewLogs
)

// focus is the panel receiving keys on the forms screen.
type focus int

const (
	focusUpload focus = iota
	focusMessage
	focusFiles
	focusCount
)

// Options configure the UI.
type Options struct {
	Context  context.Context
	Upload   *flow.Upload
	Message  *flow.Message
	Endpoint endpoint.Resolved
	Store    *state.Store
	// Refresh polls the backend once; nil disables manual refresh.
	Refresh  func(context.Context)
	LogPath  string
	PollTick time.Duration
	Prefs    prefs.Prefs
	// PrefsPath is where theme and last upload are saved; empty disables
	// saving.
	PrefsPath string
	Logger    *slog.Logger
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx       context.Context
	upload    *flow.Upload
	message   *flow.Message
	endpoint  endpoint.Resolved
	store     *state.Store
	refresh   func(context.Context)
	logPath   string
	pollTick  time.Duration
	prefs     prefs.Prefs
	prefsPath string
	logger    *slog.Logger
	keys      keyMap

	theme       Theme
	currentView View
	focus       focus
	width       int
	height      int
	ready       bool
	showHelp    bool

	pathInput    textinput.Model
	messageInput textinput.Model

	// Set when a submission is dispatched and cleared when its result
	// arrives, so a second enter cannot race the flow's own busy flag.
	uploadPending  bool
	messagePending bool

	snapshot    state.Snapshot
	lastUpdated time.Time
	fileOffset  int

	logViewport viewport.Model
	logState    logState
}

// New builds the model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = time.Second
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	p := opts.Prefs
	if strings.TrimSpace(p.Theme) == "" {
		p.Theme = prefs.DefaultTheme
	}

	pathInput := textinput.New()
	pathInput.Placeholder = "Path to a file"
	pathInput.Prompt = "› "
	pathInput.CharLimit = 4096
	pathInput.SetValue(p.LastUpload)
	pathInput.Focus()

	messageInput := textinput.New()
	messageInput.Placeholder = "Type your message"
	messageInput.Prompt = "› "
	messageInput.CharLimit = 2000
	if opts.Message != nil {
		messageInput.SetValue(opts.Message.Draft())
	}

	return Model{
		ctx:          ctx,
		upload:       opts.Upload,
		message:      opts.Message,
		endpoint:     opts.Endpoint,
		store:        opts.Store,
		refresh:      opts.Refresh,
		logPath:      opts.LogPath,
		pollTick:     pollTick,
		prefs:        p,
		prefsPath:    opts.PrefsPath,
		logger:       log,
		keys:         DefaultKeyMap(),
		theme:        GetTheme(p.Theme),
		currentView:  ViewForms,
		focus:        focusUpload,
		pathInput:    pathInput,
		messageInput: messageInput,
		logState:     logState{follow: true},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeInputs()
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = time.Now()
		m.clampFileOffset()
		return m, nil

	case uploadDoneMsg:
		return m.handleUploadDone(msg)

	case messageDoneMsg:
		return m.handleMessageDone(msg)

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil
	}

	// Cursor blink and other input housekeeping.
	return m.updateFocusedInput(msg)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	switch m.currentView {
	case ViewLogs:
		b.WriteString(m.renderLogs())
	default:
		b.WriteString(m.renderForms())
	}
	return b.String()
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.currentView == ViewLogs && m.logState.follow {
		cmds = append(cmds, m.readLogsCmd())
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

// savePrefs persists theme and last upload. Failures are logged, never shown.
func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save prefs failed", "error", err)
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func refreshCmd(ctx context.Context, refresh func(context.Context), store *state.Store) tea.Cmd {
	return func() tea.Msg {
		refresh(ctx)
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the program and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(opts.Context))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && opts.Context != nil && opts.Context.Err() != nil {
		return nil
	}
	return err
}
