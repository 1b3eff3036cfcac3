package backend

import (
	"context"
	"sync"
	"time"
)

// fetchGate spaces list-windows calls so a reload burst and the ticker
// cannot hit the tmux server back to back.
type fetchGate struct {
	gap time.Duration

	mu   sync.Mutex
	last time.Time
}

func newFetchGate(gap time.Duration) *fetchGate {
	return &fetchGate{gap: max(gap, 0)}
}

// wait blocks until gap has passed since the previous call was let through,
// or ctx is done.
func (g *fetchGate) wait(ctx context.Context) error {
	if g == nil || g.gap == 0 {
		return ctx.Err()
	}
	g.mu.Lock()
	now := time.Now()
	at := g.last.Add(g.gap)
	if at.Before(now) {
		at = now
	}
	g.last = at
	g.mu.Unlock()

	delay := time.Until(at)
	if delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
