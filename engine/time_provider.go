package engine

import (
	"time"
)

// Timer is a cancellable scheduled callback
type Timer interface {
	// Stop prevents the callback from firing
	// Returns false if the callback already fired or was stopped
	Stop() bool
}

// Clock supplies time and timer callbacks to components confined to the loop
// Callbacks always run on the loop's logical thread
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// RealClock uses the system monotonic clock, delivering callbacks into a Loop
type RealClock struct {
	loop *Loop
}

// NewRealClock creates a clock whose timers post into loop
func NewRealClock(loop *Loop) *RealClock {
	return &RealClock{loop: loop}
}

// Now returns the current time with monotonic clock reading
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// AfterFunc schedules fn on the loop after d
// A timer stopped after its callback was queued still runs it; owners discard
// such stale fires with generation counters
func (c *RealClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, func() {
		_ = c.loop.Post(fn)
	})
}
