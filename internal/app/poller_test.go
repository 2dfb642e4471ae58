package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/syncer"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 60 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 60 * time.Second},
		{"negative failures", -1, 60 * time.Second},
		{"one failure", 1, 2 * time.Minute},
		{"two failures", 2, 4 * time.Minute},
		{"three failures capped", 3, 5 * time.Minute}, // Would be 8m, capped to 5m
		{"many failures capped", 64, 5 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 100; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff || got <= 0 {
			t.Errorf("calculateBackoff(%d, %v) = %v, want within (0, %v]", failures, baseInterval, got, maxBackoff)
		}
	}
}

func TestDegraded(t *testing.T) {
	tests := []struct {
		name string
		res  syncer.ProductsResult
		want bool
	}{
		{"live success", syncer.ProductsResult{Status: catalog.StatusSucceeded}, false},
		{"skipped", syncer.ProductsResult{Status: catalog.StatusSucceeded, Skipped: true}, false},
		{"offline fallback", syncer.ProductsResult{Status: catalog.StatusSucceeded, IsOfflineData: true}, true},
		{"failed", syncer.ProductsResult{Status: catalog.StatusFailed, Err: errors.New("boom")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := degraded(syncer.RefreshResult{Products: tt.res}); got != tt.want {
				t.Fatalf("degraded = %v, want %v", got, tt.want)
			}
		})
	}
}

type countingRefresher struct {
	mu     sync.Mutex
	forced []bool
	calls  chan struct{}
}

func (c *countingRefresher) Refresh(_ context.Context, force bool) syncer.RefreshResult {
	c.mu.Lock()
	c.forced = append(c.forced, force)
	c.mu.Unlock()
	select {
	case c.calls <- struct{}{}:
	default:
	}
	return syncer.RefreshResult{Products: syncer.ProductsResult{Status: catalog.StatusSucceeded}}
}

func TestStartRefresher_TicksWithoutForcing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := &countingRefresher{calls: make(chan struct{}, 8)}
	StartRefresher(ctx, r, 5*time.Millisecond)

	for i := 0; i < 2; i++ {
		select {
		case <-r.calls:
		case <-time.After(2 * time.Second):
			t.Fatalf("refresher did not tick (got %d calls)", i)
		}
	}
	cancel()

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, f := range r.forced {
		if f {
			t.Fatalf("call %d was forced, want non-forced background refreshes", i)
		}
	}
}
