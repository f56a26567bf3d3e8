// Package skyhigh provides an HTTP client for the skyhigh demo backend.
//
// # Overview
//
// The client covers the four backend endpoints:
//
//   - GET /: health payload, also used as the connectivity probe
//   - POST /upload: multipart field "file"
//   - POST /message: multipart field "message"
//   - GET /files: stored uploads
//
// Every call takes an endpoint.Resolved. An absolute endpoint is used as the
// base URL directly. The empty (relative) endpoint resolves paths against the
// client's origin, which is where a reverse proxy is expected to route them.
//
// # Errors
//
//   - *ConnectivityError: Probe could not reach the API; names the endpoint
//   - *StatusError: non-2xx response; message is the body text, or
//     "<Op> failed: <status line>" when the body is empty
//   - "execute request: ..." / "decode response: ..." for transport and
//     payload failures
//
// # Timeouts
//
// The client sets no request timeout. Callers that want one bound the
// context, as the background poller does.
//
// # Testing Considerations
//
// Use httptest.Server to stand in for the backend; the API interface lets
// flow and poller tests substitute fakes.
package skyhigh
