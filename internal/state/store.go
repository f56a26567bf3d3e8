package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/skyhigh/internal/skyhigh"
)

// Snapshot is the latest backend view available to the UI.
type Snapshot struct {
	Health              skyhigh.Health
	HasHealth           bool
	Files               []skyhigh.FileInfo
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline reports whether the backend has missed two or more polls in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store guards the snapshot shared by the poller and the UI.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update records a poll result. On error the previous health and file list
// stay in place and only the error bookkeeping changes.
func (s *Store) Update(health *skyhigh.Health, files []skyhigh.FileInfo, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Files = cloneFiles(files)
	s.snapshot.HasHealth = health != nil
	if health != nil {
		s.snapshot.Health = *health
	} else {
		s.snapshot.Health = skyhigh.Health{}
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Files = cloneFiles(s.snapshot.Files)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneFiles(files []skyhigh.FileInfo) []skyhigh.FileInfo {
	if len(files) == 0 {
		return nil
	}
	dup := make([]skyhigh.FileInfo, len(files))
	copy(dup, files)
	return dup
}
