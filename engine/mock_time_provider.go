package engine

import (
	"sort"
	"sync"
	"time"
)

// ManualClock provides a controllable time source for testing
// Callbacks fire synchronously on the goroutine calling Advance, which plays
// the role of the loop
type ManualClock struct {
	mu          sync.Mutex
	currentTime time.Time
	seq         uint64
	timers      []*manualTimer
}

type manualTimer struct {
	clock    *ManualClock
	deadline time.Time
	seq      uint64
	fn       func()
	done     bool
}

// NewManualClock creates a new manual clock with the given start time
func NewManualClock(startTime time.Time) *ManualClock {
	return &ManualClock{
		currentTime: startTime,
	}
}

// Now returns the current mocked time
func (m *ManualClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentTime
}

// AfterFunc registers fn to fire once the clock reaches now+d
func (m *ManualClock) AfterFunc(d time.Duration, fn func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	t := &manualTimer{
		clock:    m,
		deadline: m.currentTime.Add(d),
		seq:      m.seq,
		fn:       fn,
	}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves time forward by d, firing due callbacks in deadline order
// Callbacks scheduled by callbacks fire too if they fall within the window
func (m *ManualClock) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.currentTime.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDueLocked(target)
		if next == nil {
			m.currentTime = target
			m.mu.Unlock()
			return
		}
		next.done = true
		if next.deadline.After(m.currentTime) {
			m.currentTime = next.deadline
		}
		m.pruneLocked()
		fn := next.fn
		m.mu.Unlock()

		fn()
	}
}

// SetTime jumps to t, firing everything due on the way
func (m *ManualClock) SetTime(t time.Time) {
	d := t.Sub(m.Now())
	if d < 0 {
		m.mu.Lock()
		m.currentTime = t
		m.mu.Unlock()
		return
	}
	m.Advance(d)
}

// Pending returns the number of timers that have neither fired nor been stopped
func (m *ManualClock) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if !t.done {
			n++
		}
	}
	return n
}

func (m *ManualClock) nextDueLocked(target time.Time) *manualTimer {
	due := make([]*manualTimer, 0, len(m.timers))
	for _, t := range m.timers {
		if !t.done && !t.deadline.After(target) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline.Equal(due[j].deadline) {
			return due[i].seq < due[j].seq
		}
		return due[i].deadline.Before(due[j].deadline)
	})
	return due[0]
}

func (m *ManualClock) pruneLocked() {
	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.done {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(m.timers); i++ {
		m.timers[i] = nil
	}
	m.timers = live
}

// Stop implements Timer
func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	t.clock.pruneLocked()
	return true
}
