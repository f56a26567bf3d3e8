// Package ui is the Bubble Tea terminal interface for skyhigh.
//
// # Layout
//
// The forms screen stacks three panels under a two-line header:
//
//	┌ header: logo, backend badge, file count, API base, last poll ┐
//	│ command bar: keys for the focused panel                      │
//	├ Upload a File ───────────────────────────────────────────────┤
//	│ File › /path/to/report.pdf                                   │
//	│ [ Upload ]                                                   │
//	│ Uploaded: report.pdf                                         │
//	│ API base: (relative / proxied)                               │
//	├ Send a Message ──────────────────────────────────────────────┤
//	│ Message › hello                                              │
//	│ [ Send ]                                                     │
//	│ Status: received                                             │
//	├ Uploaded Files (3) ──────────────────────────────────────────┤
//	│ report.pdf                                          1.2 MiB  │
//	└──────────────────────────────────────────────────────────────┘
//
// Pressing l switches to the client log view, which tails the slog file via
// logtail and follows new lines until paused with space.
//
// # Focus and keys
//
// Tab cycles focus through the upload input, the message input and the file
// list. While an input has focus, letters go to the input and only enter,
// esc, tab and ctrl+c are bindings. Esc moves focus to the file list, where
// single-letter bindings (q, l, T, r, u, m, j/k) apply.
//
// # Submissions
//
// Enter dispatches the flow as a tea.Cmd, so the network work runs off the
// update loop. The model marks the widget pending before returning the
// command and clears it when the result message arrives; while pending the
// button reads "Uploading..." or "Sending..." and further enters are ignored.
// Status lines are rendered from the flows' own state, so the UI never
// keeps a second copy of it.
//
// After a successful upload the path is remembered in prefs and the file
// list is refreshed immediately rather than waiting for the next poll.
//
// # Data
//
// A tick every PollTick copies the latest state.Snapshot, written by the
// background poller in package app. The UI never calls the backend for
// polling itself.
//
// # Themes
//
// Dracula and Slate palettes; T cycles them and the choice is saved to
// prefs.
package ui
