// Package budget implements the soft time budget for a scan.
//
// The estimator projects completion time from observed throughput and flags
// when the projection exceeds the remaining budget. It never aborts anything:
// the driving loop checks it between units of work and, when flagged, parks
// on a Controller decision point until the caller chooses to continue as-is
// or to raise the minimum-size threshold and resume.
package budget

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// SuggestFloor is the smallest threshold a raise suggestion will propose.
const SuggestFloor = 50 * 1024 * 1024

// warmupItems is how many items must be measured before an ETA is trusted.
const warmupItems = 5

// Threshold is the current minimum-size cutoff, shared between the scanner,
// the verifier and the decision controller. It only ever rises.
type Threshold struct {
	v atomic.Int64
}

// NewThreshold creates a threshold at the given initial value.
func NewThreshold(min int64) *Threshold {
	t := &Threshold{}
	t.v.Store(min)
	return t
}

// Get returns the current cutoff.
func (t *Threshold) Get() int64 {
	return t.v.Load()
}

// Raise lifts the cutoff to min and reports whether it changed. Lowering is
// never performed.
func (t *Threshold) Raise(min int64) bool {
	for {
		cur := t.v.Load()
		if min <= cur {
			return false
		}
		if t.v.CompareAndSwap(cur, min) {
			return true
		}
	}
}

// SuggestMinSize returns the threshold proposed when the budget is exceeded:
// double the current value, but at least 50 MiB.
func SuggestMinSize(current int64) int64 {
	suggest := current * 2
	if suggest < SuggestFloor {
		suggest = SuggestFloor
	}
	return suggest
}

// Estimator projects completion time from observed byte throughput. Rate is
// measured per phase (a pause resets it so waiting time is not counted as
// work); the remaining-bytes figure may be a running estimate and projections
// simply get revised as it moves.
type Estimator struct {
	budget     time.Duration
	start      time.Time
	phaseStart time.Time
	items      int64
	bytes      int64
}

// NewEstimator creates an estimator for a scan that started at start with the
// given soft budget.
func NewEstimator(budget time.Duration, start time.Time) *Estimator {
	return &Estimator{budget: budget, start: start, phaseStart: start}
}

// StartPhase resets throughput measurement, e.g. when hashing begins or
// resumes after a pause.
func (e *Estimator) StartPhase() {
	e.phaseStart = time.Now()
	e.items = 0
	e.bytes = 0
}

// Observe records that items more units covering bytes finished in the
// current phase.
func (e *Estimator) Observe(items, bytes int64) {
	e.items += items
	e.bytes += bytes
}

// ETA projects how long remainingBytes will take at the measured pace. The
// projection is unknown until enough items have been measured.
func (e *Estimator) ETA(remainingBytes int64) (time.Duration, bool) {
	if e.items < warmupItems || e.bytes <= 0 || remainingBytes <= 0 {
		return 0, false
	}
	elapsed := time.Since(e.phaseStart)
	if elapsed <= 0 {
		return 0, false
	}
	perByte := float64(elapsed) / float64(e.bytes)
	return time.Duration(perByte * float64(remainingBytes)), true
}

// Remaining returns how much of the budget is left; negative once overrun.
func (e *Estimator) Remaining() time.Duration {
	return e.budget - time.Since(e.start)
}

// Exceeded reports whether finishing at the projected pace would overrun the
// budget. An already-overrun budget no longer triggers: the caller had their
// chance to decide while there was still time to save.
func (e *Estimator) Exceeded(eta time.Duration) bool {
	remaining := e.Remaining()
	return remaining > 0 && eta > remaining
}

// Decision is the caller's answer to a budget-exceeded signal.
type Decision int

const (
	// Continue finishes the scan at the current threshold regardless of the
	// projected overrun.
	Continue Decision = iota
	// Raise lifts the minimum-size threshold and resumes from the current
	// position; records already verified are retained.
	Raise
)

// Choice carries a decision and, for Raise, the new threshold.
type Choice struct {
	Decision   Decision
	NewMinSize int64
}

// Controller is the cooperative checkpoint between the driving loop and the
// presentation layer. The loop parks in AwaitDecision; the presentation layer
// answers via Resolve. Only the first signal pauses: once answered, later
// checks pass straight through, matching the one-shot prompt of the tool.
type Controller struct {
	threshold *Threshold

	mu       sync.Mutex
	resolved bool
	waiting  bool
	ch       chan Choice
}

// NewController creates a controller applying raises to threshold.
func NewController(threshold *Threshold) *Controller {
	return &Controller{
		threshold: threshold,
		ch:        make(chan Choice, 1),
	}
}

// Resolved reports whether a decision has already been made this run.
func (c *Controller) Resolved() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolved
}

// Waiting reports whether the driving loop is parked on a decision.
func (c *Controller) Waiting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waiting
}

// AwaitDecision parks until the caller resolves the signal or ctx is
// cancelled. If a decision was already made this run it returns immediately.
func (c *Controller) AwaitDecision(ctx context.Context) (Choice, error) {
	c.mu.Lock()
	if c.resolved {
		c.mu.Unlock()
		return Choice{Decision: Continue}, nil
	}
	c.waiting = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.waiting = false
		c.mu.Unlock()
	}()

	select {
	case choice := <-c.ch:
		return choice, nil
	case <-ctx.Done():
		return Choice{}, ctx.Err()
	}
}

// Resolve answers a pending signal. A Raise choice lifts the shared
// threshold before the driving loop wakes up.
func (c *Controller) Resolve(choice Choice) {
	c.mu.Lock()
	if c.resolved {
		c.mu.Unlock()
		return
	}
	c.resolved = true
	c.mu.Unlock()

	if choice.Decision == Raise && choice.NewMinSize > 0 {
		c.threshold.Raise(choice.NewMinSize)
	}
	c.ch <- choice
}
