package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/skyhigh/internal/endpoint"
	"github.com/five82/skyhigh/internal/skyhigh"
	"github.com/five82/skyhigh/internal/state"
)

const (
	defaultPollInterval = 2 * time.Second
	pollTimeout         = 5 * time.Second
)

// Backend is what the poller reads.
type Backend interface {
	Ping(ctx context.Context, ep endpoint.Resolved) (skyhigh.Health, error)
	ListFiles(ctx context.Context, ep endpoint.Resolved) ([]skyhigh.FileInfo, error)
}

// StartPoller refreshes store from api every interval until ctx is
// cancelled. It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, api Backend, ep endpoint.Resolved, interval time.Duration, log *slog.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			refresh(ctx, store, api, ep, log)
		}
	}()
}

func refresh(ctx context.Context, store *state.Store, api Backend, ep endpoint.Resolved, log *slog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, pollTimeout)
	defer cancel()

	health, err := api.Ping(ctx, ep)
	if err != nil {
		fail(store, err, "health poll failed", log)
		return
	}
	files, err := api.ListFiles(ctx, ep)
	if err != nil {
		fail(store, err, "file list poll failed", log)
		return
	}

	if prev := store.Snapshot(); prev.ConsecutiveFailures > 0 && log != nil {
		log.Info("backend reachable again", "api_base", ep.String(), "failures", prev.ConsecutiveFailures)
	}
	store.Update(&health, files, nil)
}

// fail records err and logs only the first of a run of failures at warn.
func fail(store *state.Store, err error, msg string, log *slog.Logger) {
	first := store.Snapshot().ConsecutiveFailures == 0
	store.Update(nil, nil, err)
	if log == nil {
		return
	}
	if first {
		log.Warn(msg, "error", err)
	} else {
		log.Debug(msg, "error", err)
	}
}
