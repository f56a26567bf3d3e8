package flow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/five82/skyhigh/internal/endpoint"
	"github.com/five82/skyhigh/internal/skyhigh"
)

// ErrNoFile is the validation failure for a submit without a file.
var ErrNoFile = errors.New("No file selected")

// ErrBusy rejects a submit while another one is still running.
var ErrBusy = errors.New("submission already in progress")

// UploadPhase is the upload widget's display phase.
type UploadPhase int

const (
	UploadIdle UploadPhase = iota
	UploadUploading
	UploadSucceeded
	UploadFailed
)

func (p UploadPhase) String() string {
	switch p {
	case UploadUploading:
		return "uploading"
	case UploadSucceeded:
		return "succeeded"
	case UploadFailed:
		return "failed"
	default:
		return "idle"
	}
}

// UploadState is what the upload widget displays.
type UploadState struct {
	Phase   UploadPhase
	Message string
}

// UploadResult is the outcome of one upload submission.
type UploadResult struct {
	OK           bool
	Filename     string
	ErrorMessage string
}

// File is a named blob to upload.
type File struct {
	Name string
	Body io.Reader
}

// Uploader is the subset of the API client the upload flow needs.
type Uploader interface {
	Probe(ctx context.Context, ep endpoint.Resolved) error
	Upload(ctx context.Context, ep endpoint.Resolved, filename string, body io.Reader) (skyhigh.UploadResponse, error)
}

// Upload runs the probe-then-upload sequence and tracks its display state.
type Upload struct {
	api    Uploader
	logger *slog.Logger

	busy atomic.Bool

	mu    sync.Mutex
	state UploadState
}

// NewUpload builds the upload flow. A nil logger discards diagnostics.
func NewUpload(api Uploader, logger *slog.Logger) *Upload {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Upload{api: api, logger: logger}
}

// Busy reports whether a submission is running; the UI gates its submit
// control on it.
func (u *Upload) Busy() bool {
	return u.busy.Load()
}

// State returns the current display state.
func (u *Upload) State() UploadState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

// Submit validates file, probes ep, then uploads. ep is used for every call
// of this invocation.
func (u *Upload) Submit(ctx context.Context, file *File, ep endpoint.Resolved) UploadResult {
	if file == nil || file.Body == nil {
		return u.fail(ErrNoFile)
	}
	if !u.busy.CompareAndSwap(false, true) {
		return UploadResult{ErrorMessage: ErrBusy.Error()}
	}
	defer u.busy.Store(false)

	u.setState(UploadUploading, "")
	return u.run(ctx, file, ep)
}

func (u *Upload) run(ctx context.Context, file *File, ep endpoint.Resolved) (result UploadResult) {
	defer func() {
		if r := recover(); r != nil {
			u.logger.Error("upload panicked", "panic", r)
			result = u.fail(nil)
		}
	}()

	if err := u.api.Probe(ctx, ep); err != nil {
		return u.fail(err)
	}

	resp, err := u.api.Upload(ctx, ep, file.Name, file.Body)
	if err != nil {
		return u.fail(err)
	}

	u.logger.Info("upload accepted", "filename", resp.Filename, "endpoint", ep.String())
	u.setState(UploadSucceeded, "Uploaded: "+resp.Filename)
	return UploadResult{OK: true, Filename: resp.Filename}
}

// Fail records a failure found before submission, such as an unreadable
// file, so the widget shows it like any other upload error.
func (u *Upload) Fail(err error) UploadResult {
	return u.fail(err)
}

func (u *Upload) fail(err error) UploadResult {
	msg := errorMessage(err, "Upload failed")
	u.logger.Error("upload error", "error", msg)
	u.setState(UploadFailed, msg)
	return UploadResult{ErrorMessage: msg}
}

func (u *Upload) setState(phase UploadPhase, msg string) {
	u.mu.Lock()
	u.state = UploadState{Phase: phase, Message: msg}
	u.mu.Unlock()
}

// errorMessage extracts a display message, falling back when err carries none.
func errorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}
