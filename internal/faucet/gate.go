package faucet

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Gate admits at most one in-flight distribution attempt process-wide. It is
// a correctness control against double-spending the faucet wallet, not a
// throughput optimization: acquisition is non-blocking and a losing caller
// backs off immediately instead of queueing.
//
// The gate also remembers when the current holder started, which lets losing
// callers tell an ordinary collision (holder started within the busy window)
// from a suspiciously long hold. There is no lease: release is guaranteed by
// a deferred call on every pipeline exit path, and the state dies with the
// process, so auto-expiry has nothing to recover.
type Gate struct {
	mu          sync.Mutex
	held        bool
	lastAttempt time.Time
	busyWindow  time.Duration
	now         func() time.Time
}

func NewGate(busyWindow time.Duration) *Gate {
	return &Gate{
		busyWindow: busyWindow,
		now:        time.Now,
	}
}

// TryAcquire attempts to take the gate without blocking. On success the
// attempt start time is recorded before the caller proceeds.
func (g *Gate) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.held {
		if heldFor := g.now().Sub(g.lastAttempt); heldFor >= g.busyWindow {
			zap.L().Warn("Gate held beyond the busy window",
				zap.Duration("held_for", heldFor),
				zap.Duration("busy_window", g.busyWindow))
		}
		return false
	}

	g.held = true
	g.lastAttempt = g.now()
	return true
}

// Release returns the gate. Exactly one Release is expected per successful
// TryAcquire; the pipeline defers it immediately after acquisition.
func (g *Gate) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.held = false
}
