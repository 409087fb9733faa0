package ratelimit

import (
	"context"
	"sync"
	"time"

	"cryptooracle/internal/market"
)

// MinInterval wraps a RateSource and enforces a minimum time between calls.
// Concurrent calls wait until the interval has elapsed since the last call,
// or return early if the context is canceled.
type MinInterval struct {
	S        market.RateSource
	Interval time.Duration
	mu       sync.Mutex
	last     time.Time
}

func (m *MinInterval) Rate(ctx context.Context, fromAsset, toAsset string) (float64, error) {
	if m.Interval > 0 {
		m.mu.Lock()
		wait := time.Until(m.last.Add(m.Interval))
		m.mu.Unlock()
		if wait > 0 {
			t := time.NewTimer(wait)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-t.C:
			}
		}
	}
	rate, err := m.S.Rate(ctx, fromAsset, toAsset)
	if m.Interval > 0 {
		m.mu.Lock()
		m.last = time.Now()
		m.mu.Unlock()
	}
	return rate, err
}
