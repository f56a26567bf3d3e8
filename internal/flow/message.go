package flow

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/five82/skyhigh/internal/endpoint"
	"github.com/five82/skyhigh/internal/skyhigh"
)

// MessagePhase is the message widget's display phase.
type MessagePhase int

const (
	MessageIdle MessagePhase = iota
	MessageSending
	MessageSent
	MessageFailed
)

func (p MessagePhase) String() string {
	switch p {
	case MessageSending:
		return "sending"
	case MessageSent:
		return "sent"
	case MessageFailed:
		return "failed"
	default:
		return "idle"
	}
}

// MessageState is what the message widget displays.
type MessageState struct {
	Phase      MessagePhase
	StatusText string
}

// Sender is the subset of the API client the message flow needs.
type Sender interface {
	SendMessage(ctx context.Context, ep endpoint.Resolved, text string) (skyhigh.MessageResponse, error)
}

// Message submits text messages and owns the draft being typed.
type Message struct {
	api    Sender
	logger *slog.Logger

	busy atomic.Bool

	mu    sync.Mutex
	draft string
	state MessageState
}

// NewMessage builds the message flow. A nil logger discards diagnostics.
func NewMessage(api Sender, logger *slog.Logger) *Message {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Message{api: api, logger: logger}
}

// SetDraft replaces the pending input text.
func (m *Message) SetDraft(text string) {
	m.mu.Lock()
	m.draft = text
	m.mu.Unlock()
}

// Draft returns the pending input text.
func (m *Message) Draft() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft
}

// Busy reports whether a submission is running.
func (m *Message) Busy() bool {
	return m.busy.Load()
}

// State returns the current display state.
func (m *Message) State() MessageState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Submit sends the current draft.
func (m *Message) Submit(ctx context.Context, ep endpoint.Resolved) (string, error) {
	return m.SubmitMessage(ctx, m.Draft(), ep)
}

// SubmitMessage sends text to ep and returns the server-reported status.
// On success the draft is cleared; on failure it is kept so the user can
// resend, and the state moves to MessageFailed.
func (m *Message) SubmitMessage(ctx context.Context, text string, ep endpoint.Resolved) (string, error) {
	if !m.busy.CompareAndSwap(false, true) {
		return "", ErrBusy
	}
	defer m.busy.Store(false)

	m.setState(MessageSending, "")

	resp, err := m.api.SendMessage(ctx, ep, text)
	if err != nil {
		msg := errorMessage(err, "Message failed")
		m.logger.Error("message error", "error", msg)
		m.setState(MessageFailed, msg)
		return "", err
	}

	status := resp.Status
	m.logger.Info("message sent", "status", status, "endpoint", ep.String())

	m.mu.Lock()
	m.state = MessageState{Phase: MessageSent, StatusText: status}
	m.draft = ""
	m.mu.Unlock()
	return status, nil
}

func (m *Message) setState(phase MessagePhase, text string) {
	m.mu.Lock()
	m.state = MessageState{Phase: phase, StatusText: text}
	m.mu.Unlock()
}
