package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/cellgit/BearBasic/internal/client"
	"github.com/cellgit/BearBasic/internal/request"
	"github.com/cellgit/BearBasic/internal/state"
)

const (
	defaultPollInterval = 2 * time.Second
	maxBackoff          = 30 * time.Second
)

// StartPoller launches a background goroutine that re-fetches target into
// store. Failures back off exponentially up to maxBackoff. It returns
// immediately.
func StartPoller(ctx context.Context, store *state.Store, fetcher client.Fetcher, target request.Target, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	go func() {
		timer := time.NewTimer(0)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			refresh(ctx, store, fetcher, target, logger)
			timer.Reset(calculateBackoff(store.Snapshot().ConsecutiveFailures, interval))
		}
	}()
}

func refresh(ctx context.Context, store *state.Store, fetcher client.Fetcher, target request.Target, logger *slog.Logger) {
	resp, err := fetcher.FetchUntyped(ctx, target)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		store.Update(nil, err)
		logger.Warn("watch poll failed", "path", target.Path, "error", err)
		return
	}
	store.Update(&resp, nil)
}

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	wait := base
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}
