// Package logtail reads the tail of the client log file for the TUI's log
// view.
//
// Read keeps a ring buffer of the last N lines, so memory stays bounded by N
// regardless of file size. A missing file is treated as empty; the log is
// only created once the first record is written.
//
// Parse understands the key=value format written by log/slog's TextHandler:
//
//	time=2026-10-17T09:12:44.512+02:00 level=ERROR msg="upload error" error="Upload failed"
//
// Quoted values are unquoted with Go string-literal rules, matching how the
// handler escapes them. Anything else is returned as a plain message.
package logtail
