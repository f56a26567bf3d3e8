// Package logger sets up the slog logger shared by the client and server.
// The TUI owns the terminal, so client logs go to a file.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Options configure New.
type Options struct {
	Path  string // empty writes to Writer
	Debug bool
	// Writer is used when Path is empty; nil means stderr.
	Writer io.Writer
}

// New returns a text-handler logger and a close func for the underlying file.
func New(opts Options) (*slog.Logger, func() error, error) {
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)
	if opts.Debug {
		level.Set(slog.LevelDebug)
	}

	out := opts.Writer
	closer := func() error { return nil }
	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file %s: %w", opts.Path, err)
		}
		out = f
		closer = f.Close
	}
	if out == nil {
		out = os.Stderr
	}

	log := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	log.Debug("logger initialized", "path", opts.Path)
	return log, closer, nil
}
