package storage

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	before, err := s.ListFiles(ctx)
	if err != nil {
		t.Fatalf("ListFiles returned error: %v", err)
	}

	name := "notes-" + uuid.NewString() + ".txt"
	n, err := s.SaveFile(ctx, name, strings.NewReader("hello world"))
	if err != nil {
		t.Fatalf("SaveFile returned error: %v", err)
	}
	if n != int64(len("hello world")) {
		t.Fatalf("SaveFile wrote %d bytes, want %d", n, len("hello world"))
	}

	files, err := s.ListFiles(ctx)
	if err != nil {
		t.Fatalf("ListFiles returned error: %v", err)
	}
	if len(files) != len(before)+1 {
		t.Fatalf("ListFiles returned %d files, want %d", len(files), len(before)+1)
	}
	var found bool
	for _, f := range files {
		if f.Filename == name && f.Length == n {
			found = true
		}
	}
	if !found {
		t.Fatalf("ListFiles = %#v, want %s with length %d", files, name, n)
	}

	if _, err := s.SaveFile(ctx, "  ", strings.NewReader("x")); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("SaveFile with blank name error = %v, want ErrEmptyName", err)
	}

	msg, err := s.SaveMessage(ctx, "hello")
	if err != nil {
		t.Fatalf("SaveMessage returned error: %v", err)
	}
	if msg.ID == "" || msg.Text != "hello" || msg.CreatedAt.IsZero() {
		t.Fatalf("SaveMessage = %#v, want id, text and timestamp", msg)
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	exerciseStore(t, m)

	if got := m.Messages(); len(got) != 1 || got[0].Text != "hello" {
		t.Fatalf("Messages() = %#v, want one hello", got)
	}
	files, _ := m.ListFiles(context.Background())
	data, ok := m.FileContent(files[0].Filename)
	if !ok || string(data) != "hello world" {
		t.Fatalf("FileContent = %q, %v", data, ok)
	}
	if _, ok := m.FileContent("missing"); ok {
		t.Fatalf("FileContent(missing) reported found")
	}
}

func TestMemory_EmptyListIsNotNil(t *testing.T) {
	files, err := NewMemory().ListFiles(context.Background())
	if err != nil {
		t.Fatalf("ListFiles returned error: %v", err)
	}
	if files == nil {
		t.Fatalf("ListFiles returned nil, want empty slice")
	}
}

func TestMemory_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMemory().SaveFile(ctx, "a.txt", strings.NewReader("x")); !errors.Is(err, context.Canceled) {
		t.Fatalf("SaveFile error = %v, want context.Canceled", err)
	}
}

// cancelAfterFirstRead serves one chunk, then cancels the request context.
type cancelAfterFirstRead struct {
	cancel context.CancelFunc
	reads  int
}

func (c *cancelAfterFirstRead) Read(p []byte) (int, error) {
	c.reads++
	if c.reads == 1 {
		c.cancel()
		return copy(p, "chunk"), nil
	}
	return copy(p, "more"), nil
}

func TestCtxReader_StopsAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := &cancelAfterFirstRead{cancel: cancel}
	r := ctxReader{ctx: ctx, r: src}

	buf := make([]byte, 16)
	if n, err := r.Read(buf); err != nil || n != len("chunk") {
		t.Fatalf("first Read = %d, %v", n, err)
	}
	if _, err := r.Read(buf); !errors.Is(err, context.Canceled) {
		t.Fatalf("second Read error = %v, want context.Canceled", err)
	}
	if src.reads != 1 {
		t.Fatalf("source read %d times after cancel, want 1", src.reads)
	}
}

func TestMemory_CancelMidStream(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := NewMemory()
	src := &cancelAfterFirstRead{cancel: cancel}

	if _, err := m.SaveFile(ctx, "a.txt", src); !errors.Is(err, context.Canceled) {
		t.Fatalf("SaveFile error = %v, want context.Canceled", err)
	}
	if src.reads != 1 {
		t.Fatalf("source read %d times, want the stream stopped after cancel", src.reads)
	}
	if files, _ := m.ListFiles(context.Background()); len(files) != 0 {
		t.Fatalf("ListFiles = %#v, want nothing stored", files)
	}
}

// TestMongo runs against a real server when SKYHIGH_TEST_MONGO_URI is set.
func TestMongo(t *testing.T) {
	uri := os.Getenv("SKYHIGH_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("SKYHIGH_TEST_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	m, err := OpenMongo(ctx, uri, "skyhigh_test")
	if err != nil {
		t.Fatalf("OpenMongo returned error: %v", err)
	}
	t.Cleanup(func() { _ = m.Close(context.Background()) })

	exerciseStore(t, m)

	name := "cancelled-" + uuid.NewString() + ".txt"
	saveCtx, saveCancel := context.WithCancel(ctx)
	if _, err := m.SaveFile(saveCtx, name, &cancelAfterFirstRead{cancel: saveCancel}); !errors.Is(err, context.Canceled) {
		t.Fatalf("SaveFile error = %v, want context.Canceled", err)
	}
	files, err := m.ListFiles(ctx)
	if err != nil {
		t.Fatalf("ListFiles returned error: %v", err)
	}
	for _, f := range files {
		if f.Filename == name {
			t.Fatalf("cancelled upload %s was stored", name)
		}
	}
}
