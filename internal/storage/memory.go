package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory keeps everything in process memory. It backs `skyhigh serve` when no
// MongoDB URI is configured, and the server tests.
type Memory struct {
	mu       sync.RWMutex
	files    []memoryFile
	messages []Message
}

type memoryFile struct {
	name string
	data []byte
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// SaveFile reads r fully and stores it under name. Names may repeat, as in
// GridFS.
func (m *Memory) SaveFile(ctx context.Context, name string, r io.Reader) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, ErrEmptyName
	}
	var buf bytes.Buffer
	n, err := io.Copy(&buf, ctxReader{ctx: ctx, r: r})
	if err != nil {
		return 0, fmt.Errorf("read upload: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	m.files = append(m.files, memoryFile{name: name, data: buf.Bytes()})
	m.mu.Unlock()
	return n, nil
}

// ListFiles returns stored files in upload order.
func (m *Memory) ListFiles(context.Context) ([]FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]FileInfo, 0, len(m.files))
	for _, f := range m.files {
		out = append(out, FileInfo{Filename: f.name, Length: int64(len(f.data))})
	}
	return out, nil
}

// FileContent returns the body of the most recent file stored under name.
func (m *Memory) FileContent(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.files) - 1; i >= 0; i-- {
		if m.files[i].name == name {
			return append([]byte(nil), m.files[i].data...), true
		}
	}
	return nil, false
}

// SaveMessage records text with a fresh ID.
func (m *Memory) SaveMessage(_ context.Context, text string) (Message, error) {
	msg := Message{ID: uuid.NewString(), Text: text, CreatedAt: time.Now().UTC()}
	m.mu.Lock()
	m.messages = append(m.messages, msg)
	m.mu.Unlock()
	return msg, nil
}

// Messages returns a copy of the stored messages.
func (m *Memory) Messages() []Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Message(nil), m.messages...)
}

// Close is a no-op.
func (m *Memory) Close(context.Context) error {
	return nil
}
