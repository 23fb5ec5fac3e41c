package app

import (
	"context"
	"log/slog"
	"time"
)

const maxBackoff = 30 * time.Second

// Refresher is what the poller drives.
type Refresher interface {
	RefreshAll()
	ConsecutiveFailures() int
}

// StartPoller launches a background goroutine that refreshes every grid at
// a fixed cadence, backing off while fetches keep failing. It returns
// immediately.
func StartPoller(ctx context.Context, r Refresher, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	go func() {
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			r.RefreshAll()
			failures := r.ConsecutiveFailures()
			wait := calculateBackoff(failures, interval)
			if failures > 0 {
				logger.Debug("poller backing off", "failures", failures, "next", wait)
			}
			timer.Reset(wait)
		}
	}()
}

// calculateBackoff doubles base per consecutive failure, capped at
// maxBackoff. A base above the cap is kept as is.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	limit := max(maxBackoff, base)
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= limit {
			return limit
		}
	}
	return d
}
