package app

import (
	"context"
	"log"
	"time"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/syncer"
)

const (
	defaultPollInterval = 60 * time.Second
	maxBackoff          = 5 * time.Minute
)

// refresher is the slice of the synchronizer the background loop needs.
type refresher interface {
	Refresh(ctx context.Context, force bool) syncer.RefreshResult
}

// StartRefresher launches a background goroutine that asks the synchronizer
// for a non-forced refresh at a fixed cadence. Ticks inside the freshness
// window are no-ops. Failed or offline rounds stretch the wait with
// exponential backoff until the next live success. It returns immediately.
func StartRefresher(ctx context.Context, sync refresher, interval time.Duration) <-chan struct{} {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		failures := 0
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			if degraded(sync.Refresh(ctx, false)) {
				failures++
			} else {
				failures = 0
			}
			timer.Reset(calculateBackoff(failures, interval))
		}
	}()
	return done
}

// degraded reports whether a refresh round failed to reach the network.
func degraded(res syncer.RefreshResult) bool {
	p := res.Products
	if p.Skipped {
		return false
	}
	if p.Status == catalog.StatusFailed {
		log.Printf("background refresh failed: %v", p.Err)
		return true
	}
	if p.IsOfflineData {
		log.Printf("background refresh served cached products")
		return true
	}
	return false
}

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
