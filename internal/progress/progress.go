// Package progress tracks the state of a running scan for observers.
//
// Writers mutate a private Snapshot under a lock and the whole value is
// replaced at once, so readers never observe a torn update. Observers either
// poll Snapshot() or subscribe to a channel of copies.
package progress

import (
	"sync"
	"time"
)

// Phase represents the current phase of a scan
type Phase string

const (
	PhaseWalking  Phase = "walking"
	PhaseHashing  Phase = "hashing"
	PhaseDeciding Phase = "deciding" // paused on a budget-exceeded decision
	PhaseDone     Phase = "done"
	PhaseError    Phase = "error"
)

// Snapshot is an immutable view of scan progress. All fields are plain values
// so a copy is safe to hand to any goroutine.
type Snapshot struct {
	Phase     Phase
	StartTime time.Time
	Elapsed   time.Duration
	Budget    time.Duration

	// Walk phase counters
	FilesSeen    int64
	FilesSkipped int64
	BytesSeen    int64

	// Hash phase counters
	HashTotal   int64
	HashDone    int64
	HashedBytes int64

	// ETA toward completing the current phase; valid only when ETAKnown.
	ETA      time.Duration
	ETAKnown bool

	// Current minimum-size threshold and, while a budget decision is
	// pending, the suggested raised value.
	MinSize      int64
	SuggestedMin int64

	Err error
}

// Tracker provides thread-safe progress reporting for one scan invocation.
type Tracker struct {
	mu        sync.RWMutex
	snap      Snapshot
	listeners []chan Snapshot
}

// NewTracker creates a Tracker for a scan starting now.
func NewTracker(budget time.Duration, minSize int64) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Phase:     PhaseWalking,
			StartTime: time.Now(),
			Budget:    budget,
			MinSize:   minSize,
		},
	}
}

// Update applies mutate to a copy of the current snapshot and publishes the
// result to all subscribers.
func (t *Tracker) Update(mutate func(*Snapshot)) {
	t.mu.Lock()
	snap := t.snap
	mutate(&snap)
	snap.Elapsed = time.Since(snap.StartTime)
	t.snap = snap
	listeners := make([]chan Snapshot, len(t.listeners))
	copy(listeners, t.listeners)
	t.mu.Unlock()

	// Non-blocking notify: a slow observer drops intermediate updates
	// rather than stalling the scan.
	for _, listener := range listeners {
		select {
		case listener <- snap:
		default:
		}
	}
}

// Snapshot returns the current progress snapshot.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	snap := t.snap
	snap.Elapsed = time.Since(snap.StartTime)
	return snap
}

// Subscribe returns a channel that receives progress updates.
func (t *Tracker) Subscribe() <-chan Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch := make(chan Snapshot, 16)
	t.listeners = append(t.listeners, ch)
	return ch
}

// Unsubscribe closes and removes a listener channel.
func (t *Tracker) Unsubscribe(ch <-chan Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, listener := range t.listeners {
		if listener == ch {
			close(listener)
			t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
			return
		}
	}
}
