package skyhigh

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/five82/skyhigh/internal/endpoint"
)

func TestNewClient_RejectsRelativeOrigin(t *testing.T) {
	if _, err := NewClient("localhost"); err == nil {
		t.Fatalf("NewClient returned nil error for origin without scheme")
	}
	c, err := NewClient("")
	if err != nil {
		t.Fatalf("NewClient(\"\") returned error: %v", err)
	}
	if _, err := c.URL("", "/upload"); err == nil {
		t.Fatalf("URL without origin returned nil error for relative endpoint")
	}
}

func TestClient_URLResolution(t *testing.T) {
	c, err := NewClient("http://localhost:8000/ignored?x=1")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	got, err := c.URL("", "/upload")
	if err != nil {
		t.Fatalf("URL returned error: %v", err)
	}
	if got != "http://localhost:8000/upload" {
		t.Fatalf("relative URL = %q, want http://localhost:8000/upload", got)
	}

	got, err = c.URL("http://localhost:8001", "/message")
	if err != nil {
		t.Fatalf("URL returned error: %v", err)
	}
	if got != "http://localhost:8001/message" {
		t.Fatalf("absolute URL = %q, want http://localhost:8001/message", got)
	}
}

func TestClient_EndpointsAndEncoding(t *testing.T) {
	t.Parallel()

	var gotUserAgent, gotAccept string
	var gotFileName, gotFileBody, gotMessage string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/":
			_ = json.NewEncoder(w).Encode(Health{Message: "running"})
		case r.Method == http.MethodPost && r.URL.Path == "/upload":
			file, header, err := r.FormFile("file")
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			defer func() { _ = file.Close() }()
			data, _ := io.ReadAll(file)
			gotFileName = header.Filename
			gotFileBody = string(data)
			_ = json.NewEncoder(w).Encode(UploadResponse{Status: "uploaded", Filename: header.Filename, Size: int64(len(data))})
		case r.Method == http.MethodPost && r.URL.Path == "/message":
			gotMessage = r.FormValue("message")
			_ = json.NewEncoder(w).Encode(MessageResponse{Status: "received", Message: gotMessage})
		case r.Method == http.MethodGet && r.URL.Path == "/files":
			_ = json.NewEncoder(w).Encode([]FileInfo{{Filename: "a.txt", Length: 3}})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient("")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ep := endpoint.Resolved(server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	health, err := c.Ping(ctx, ep)
	if err != nil {
		t.Fatalf("Ping returned error: %v", err)
	}
	if health.Message != "running" {
		t.Fatalf("Ping payload = %#v, want running", health)
	}
	if err := c.Probe(ctx, ep); err != nil {
		t.Fatalf("Probe returned error: %v", err)
	}

	up, err := c.Upload(ctx, ep, "a.txt", strings.NewReader("abc"))
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if up.Filename != "a.txt" || up.Size != 3 {
		t.Fatalf("Upload payload = %#v, want a.txt size 3", up)
	}
	if gotFileName != "a.txt" || gotFileBody != "abc" {
		t.Fatalf("server saw file %q=%q, want a.txt=abc", gotFileName, gotFileBody)
	}

	msg, err := c.SendMessage(ctx, ep, "hello")
	if err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}
	if msg.Status != "received" || gotMessage != "hello" {
		t.Fatalf("SendMessage payload = %#v (server saw %q)", msg, gotMessage)
	}

	files, err := c.ListFiles(ctx, ep)
	if err != nil {
		t.Fatalf("ListFiles returned error: %v", err)
	}
	if len(files) != 1 || files[0].Filename != "a.txt" {
		t.Fatalf("ListFiles = %#v, want a.txt", files)
	}

	if !strings.HasPrefix(gotUserAgent, "skyhigh/") {
		t.Fatalf("User-Agent = %q, want skyhigh/*", gotUserAgent)
	}
	if gotAccept != "application/json" {
		t.Fatalf("Accept = %q, want application/json", gotAccept)
	}
}

func TestClient_RelativeEndpointUsesOrigin(t *testing.T) {
	t.Parallel()

	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_ = json.NewEncoder(w).Encode([]FileInfo{})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.ListFiles(context.Background(), ""); err != nil {
		t.Fatalf("ListFiles returned error: %v", err)
	}
	if hits != 1 {
		t.Fatalf("hits = %d, want 1", hits)
	}
}

func TestClient_StatusAndDecodeErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
		case "/upload":
			w.WriteHeader(http.StatusInternalServerError)
		case "/message":
			_, _ = w.Write([]byte("{not-json"))
		case "/files":
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("disk full"))
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient("")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ep := endpoint.Resolved(server.URL)
	ctx := context.Background()

	_, err = c.Ping(ctx, ep)
	if err == nil || err.Error() != "API ping failed: 503 Service Unavailable maintenance" {
		t.Fatalf("Ping error = %v, want API ping failed with status and body", err)
	}

	err = c.Probe(ctx, ep)
	var connErr *ConnectivityError
	if !errors.As(err, &connErr) {
		t.Fatalf("Probe error = %T %v, want *ConnectivityError", err, err)
	}
	if !strings.HasPrefix(err.Error(), "Unable to reach API at "+server.URL+": API ping failed") {
		t.Fatalf("Probe error = %q", err.Error())
	}

	_, err = c.Upload(ctx, ep, "a.txt", strings.NewReader("abc"))
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("Upload error = %v, want *StatusError 500", err)
	}
	if err.Error() != "Upload failed: 500 Internal Server Error" {
		t.Fatalf("Upload error = %q, want generic status line", err.Error())
	}

	_, err = c.SendMessage(ctx, ep, "x")
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("SendMessage error = %v, want decode response error", err)
	}

	_, err = c.ListFiles(ctx, ep)
	if err == nil || err.Error() != "disk full" {
		t.Fatalf("ListFiles error = %v, want body text", err)
	}
}

func TestClient_ProbeTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c, err := NewClient("")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	err = c.Probe(context.Background(), endpoint.Resolved(url))
	var connErr *ConnectivityError
	if !errors.As(err, &connErr) {
		t.Fatalf("Probe error = %v, want *ConnectivityError", err)
	}
	if connErr.Endpoint != endpoint.Resolved(url) {
		t.Fatalf("Endpoint = %q, want %q", connErr.Endpoint, url)
	}
}

func TestConnectivityError_Message(t *testing.T) {
	cause := errors.New("connection refused")
	e := &ConnectivityError{Endpoint: "http://localhost:8001", Err: cause}
	if got := e.Error(); got != "Unable to reach API at http://localhost:8001: connection refused" {
		t.Fatalf("Error() = %q", got)
	}
	if !errors.Is(e, cause) {
		t.Fatalf("ConnectivityError does not unwrap to its cause")
	}

	rel := &ConnectivityError{Endpoint: "", Err: cause}
	if got := rel.Error(); got != "Unable to reach API at (relative): connection refused" {
		t.Fatalf("relative Error() = %q", got)
	}
}

func TestStatusError_Message(t *testing.T) {
	e := &StatusError{Op: "Upload", StatusCode: 500, Body: "  \n"}
	if e.Error() != "Upload failed: 500" {
		t.Fatalf("Error() = %q, want fallback to code", e.Error())
	}
	e.Body = "disk full\n"
	if e.Error() != "disk full" {
		t.Fatalf("Error() = %q, want trimmed body", e.Error())
	}
}
