// Package storage persists what the backend receives: uploaded file bodies
// and submitted messages.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrEmptyName rejects files saved without a filename.
var ErrEmptyName = errors.New("filename is required")

// FileInfo describes a stored file.
type FileInfo struct {
	Filename string `bson:"filename"`
	Length   int64  `bson:"length"`
}

// Message is a stored text submission.
type Message struct {
	ID        string    `bson:"_id"`
	Text      string    `bson:"message"`
	CreatedAt time.Time `bson:"created_at"`
}

// Store is implemented by Memory and Mongo.
type Store interface {
	SaveFile(ctx context.Context, name string, r io.Reader) (int64, error)
	ListFiles(ctx context.Context) ([]FileInfo, error)
	SaveMessage(ctx context.Context, text string) (Message, error)
	Close(ctx context.Context) error
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// ctxReader fails reads once ctx is done, so a cancelled request stops a
// stream that is still being copied.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
