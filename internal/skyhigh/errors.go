package skyhigh

import (
	"fmt"
	"strings"

	"github.com/five82/skyhigh/internal/endpoint"
)

// ConnectivityError reports that the connectivity probe could not reach the
// API. Err carries the underlying transport or status failure. A relative
// endpoint is named "(relative)" in the message.
type ConnectivityError struct {
	Endpoint endpoint.Resolved
	Err      error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("Unable to reach API at %s: %v", e.Endpoint, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// StatusError is a non-2xx response. Its message is the server-provided body
// when there is one, otherwise a generic status line.
type StatusError struct {
	Op         string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if body := strings.TrimSpace(e.Body); body != "" {
		return body
	}
	return fmt.Sprintf("%s failed: %s", e.Op, e.statusLine())
}

func (e *StatusError) statusLine() string {
	if s := strings.TrimSpace(e.Status); s != "" {
		return s
	}
	return fmt.Sprintf("%d", e.StatusCode)
}
