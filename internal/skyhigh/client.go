package skyhigh

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/five82/skyhigh/internal/endpoint"
)

// API defines the backend calls the flows and poller rely on.
// This interface is implemented by *Client and can be used for testing.
type API interface {
	Ping(ctx context.Context, ep endpoint.Resolved) (Health, error)
	Upload(ctx context.Context, ep endpoint.Resolved, filename string, body io.Reader) (UploadResponse, error)
	SendMessage(ctx context.Context, ep endpoint.Resolved, text string) (MessageResponse, error)
	ListFiles(ctx context.Context, ep endpoint.Resolved) ([]FileInfo, error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// Client talks to the skyhigh HTTP API.
type Client struct {
	origin    *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultUserAgent = "skyhigh/0.1"
	maxErrorBody     = 64 << 10
)

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient builds a Client. origin is the URL relative endpoints are
// resolved against; it may be empty when only absolute endpoints are used.
// No request timeout is set: submissions run until the server answers or ctx
// is cancelled.
func NewClient(origin string, opts ...Option) (*Client, error) {
	c := &Client{
		http:      &http.Client{},
		userAgent: defaultUserAgent,
	}
	if trimmed := strings.TrimSpace(origin); trimmed != "" {
		u, err := url.Parse(trimmed)
		if err != nil {
			return nil, fmt.Errorf("parse origin %q: %w", origin, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("origin %q must be an absolute URL", origin)
		}
		u.Path = ""
		u.RawQuery = ""
		u.Fragment = ""
		c.origin = u
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Ping issues GET / against the endpoint and decodes the health payload.
func (c *Client) Ping(ctx context.Context, ep endpoint.Resolved) (Health, error) {
	var payload Health
	if err := c.ping(ctx, ep, &payload); err != nil {
		return Health{}, err
	}
	return payload, nil
}

// Probe checks that the API is reachable before a real operation. Any 2xx
// counts as reachable; failures come back as a *ConnectivityError naming the
// endpoint.
func (c *Client) Probe(ctx context.Context, ep endpoint.Resolved) error {
	if err := c.ping(ctx, ep, nil); err != nil {
		return &ConnectivityError{Endpoint: ep, Err: err}
	}
	return nil
}

func (c *Client) ping(ctx context.Context, ep endpoint.Resolved, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	err := c.do(ctx, http.MethodGet, ep, "/", nil, "", "API ping", dest)
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		detail := strings.TrimSpace(statusErr.statusLine() + " " + strings.TrimSpace(statusErr.Body))
		return fmt.Errorf("API ping failed: %s", detail)
	}
	return err
}

// Upload sends body as multipart field "file" to POST /upload.
func (c *Client) Upload(ctx context.Context, ep endpoint.Resolved, filename string, body io.Reader) (UploadResponse, error) {
	if c == nil {
		return UploadResponse{}, fmt.Errorf("client is nil")
	}
	if body == nil {
		return UploadResponse{}, fmt.Errorf("upload body is nil")
	}

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		part, err := form.CreateFormFile("file", filename)
		if err == nil {
			_, err = io.Copy(part, body)
		}
		if err == nil {
			err = form.Close()
		}
		_ = pw.CloseWithError(err)
	}()

	var payload UploadResponse
	err := c.do(ctx, http.MethodPost, ep, "/upload", pr, form.FormDataContentType(), "Upload", &payload)
	// Unblock the writer if the request ended before consuming the body.
	_ = pr.Close()
	if err != nil {
		return UploadResponse{}, err
	}
	return payload, nil
}

// SendMessage posts text as multipart field "message" to POST /message.
func (c *Client) SendMessage(ctx context.Context, ep endpoint.Resolved, text string) (MessageResponse, error) {
	if c == nil {
		return MessageResponse{}, fmt.Errorf("client is nil")
	}
	var buf strings.Builder
	form := multipart.NewWriter(&buf)
	if err := form.WriteField("message", text); err != nil {
		return MessageResponse{}, fmt.Errorf("encode message: %w", err)
	}
	if err := form.Close(); err != nil {
		return MessageResponse{}, fmt.Errorf("encode message: %w", err)
	}

	var payload MessageResponse
	if err := c.do(ctx, http.MethodPost, ep, "/message", strings.NewReader(buf.String()), form.FormDataContentType(), "Message", &payload); err != nil {
		return MessageResponse{}, err
	}
	return payload, nil
}

// ListFiles retrieves the stored uploads from GET /files.
func (c *Client) ListFiles(ctx context.Context, ep endpoint.Resolved) ([]FileInfo, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []FileInfo
	if err := c.do(ctx, http.MethodGet, ep, "/files", nil, "", "List files", &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// URL returns the absolute request URL for path under ep.
func (c *Client) URL(ep endpoint.Resolved, path string) (string, error) {
	ref, err := url.Parse(ep.Join(path))
	if err != nil {
		return "", fmt.Errorf("parse request url: %w", err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	if c.origin == nil {
		return "", fmt.Errorf("relative endpoint %q needs an origin", ep.Join(path))
	}
	return c.origin.ResolveReference(ref).String(), nil
}

func (c *Client) do(ctx context.Context, method string, ep endpoint.Resolved, path string, body io.Reader, contentType, op string, dest any) error {
	reqURL, err := c.URL(ep, path)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(text),
		}
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
