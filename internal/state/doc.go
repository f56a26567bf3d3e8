// Package state holds the latest backend view shared between the poller and
// the TUI.
//
// The poller is the single writer:
//
//	health, err := client.Ping(ctx, ep)
//	files, err := client.ListFiles(ctx, ep)
//	store.Update(&health, files, err)
//
// The UI reads a Snapshot on every tick. Snapshots are copies, so the UI can
// sort or trim the file list without touching what the poller wrote.
//
// A failed poll keeps the last good health and file list and records the
// error. Two failures in a row mark the snapshot offline; the next success
// resets the counter.
//
// The zero Store is ready to use.
package state
