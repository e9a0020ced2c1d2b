package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (c *countingRefresher) Refresh(context.Context) (int, error) {
	c.calls.Add(1)
	return 3, c.err
}

func TestStationCacheRefresher_RefreshesOnStartAndStops(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())

	ref := &countingRefresher{err: errors.New("redis unavailable")}
	r := NewStationCacheRefresher(ref, "@every 1h", newTestLogger())

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for ref.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if ref.calls.Load() != 1 {
		t.Fatalf("expected one refresh at start, got %d", ref.calls.Load())
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("refresher did not stop")
	}
}

func TestStationCacheRefresher_RejectsBadSchedule(t *testing.T) {
	t.Parallel()
	r := NewStationCacheRefresher(&countingRefresher{}, "every tuesday", newTestLogger())
	if err := r.Run(context.Background()); err == nil {
		t.Fatalf("expected schedule error")
	}
}
