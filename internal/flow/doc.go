// Package flow implements the two submission widgets' logic without any UI.
//
// Upload validates the selected file, probes GET / and then posts the file to
// /upload. Message posts the draft text to /message. Both take the resolved
// endpoint as an explicit argument, so a single invocation never switches
// endpoints midway, and both expose a busy flag that is cleared on every exit
// path. A submit while busy is rejected with ErrBusy and makes no request.
//
// State transitions:
//
//	Upload:  idle -> uploading -> succeeded | failed
//	         idle -> failed (no file selected, no request made)
//	Message: idle -> sending -> sent | failed
//
// The message flow reports non-2xx responses and transport errors as failed
// rather than treating every settled response as sent.
package flow
