// Package engine provides the single logical thread that owns all orchestration state.
//
// Scheduling Model
//
// Every mutation of the emotional-state store, the route tracker and the reaction
// scheduler happens inside a task executed by Loop. Components therefore carry no
// locks. Timer callbacks, input events and producer messages never touch state
// directly; they are posted to the loop as tasks.
//
// Task Flow:
//  1. Producer goroutine calls loop.Post(fn) (or loop.Do(fn) to wait)
//  2. Task stored in a buffered channel (FIFO)
//  3. Loop goroutine drains the channel, running one task at a time
//  4. A panicking task is recovered and logged, the loop keeps running
//
// Clocks:
//   - RealClock posts AfterFunc callbacks into the loop
//   - ManualClock fires callbacks synchronously on Advance, for tests
package engine

import (
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/lixenwraith/echolens/core"
)

// DefaultLoopCapacity is the task buffer size used when none is given
const DefaultLoopCapacity = 256

// ErrLoopStopped is returned when a task is submitted after Stop
var ErrLoopStopped = errors.New("event loop stopped")

// Loop is a cooperative single-consumer task loop
type Loop struct {
	tasks  chan func()
	logger *zap.Logger

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
	stopped  atomic.Bool

	// Recovered task panics, for diagnostics
	faults atomic.Int64
}

// NewLoop creates a loop with the given task capacity
func NewLoop(capacity int, logger *zap.Logger) *Loop {
	if capacity <= 0 {
		capacity = DefaultLoopCapacity
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		tasks:    make(chan func(), capacity),
		logger:   logger.Named("loop"),
		stopChan: make(chan struct{}),
	}
}

// Start launches the loop goroutine, calling it twice is a no-op
func (l *Loop) Start() {
	if l.stopped.Load() {
		return
	}
	if l.running.CompareAndSwap(false, true) {
		l.wg.Add(1)
		core.Go(l.run)
	}
}

// Stop halts the loop after the task in flight; queued tasks are dropped
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		l.stopped.Store(true)
		close(l.stopChan)
		if l.running.CompareAndSwap(true, false) {
			l.wg.Wait()
		}
	})
}

// Post enqueues fn without waiting for it to run
// Blocks only while the task buffer is full
func (l *Loop) Post(fn func()) error {
	if fn == nil {
		return nil
	}
	if l.stopped.Load() {
		return ErrLoopStopped
	}
	select {
	case l.tasks <- fn:
		return nil
	case <-l.stopChan:
		return ErrLoopStopped
	}
}

// Do runs fn on the loop and waits for it to finish
// Must not be called from inside a loop task
func (l *Loop) Do(fn func()) error {
	done := make(chan struct{})
	if err := l.Post(func() {
		defer close(done)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-l.stopChan:
		// The task may have been dropped with the queue
		select {
		case <-done:
			return nil
		default:
			return ErrLoopStopped
		}
	}
}

// Faults returns the number of recovered task panics
func (l *Loop) Faults() int64 {
	return l.faults.Load()
}

// IsRunning reports whether the loop goroutine is active
func (l *Loop) IsRunning() bool {
	return l.running.Load()
}

func (l *Loop) run() {
	defer l.wg.Done()

	for {
		select {
		case <-l.stopChan:
			return
		case fn := <-l.tasks:
			l.exec(fn)
		}
	}
}

// exec runs one task, isolating panics from the loop
func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.faults.Add(1)
			l.logger.Error("task panicked", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()
	fn()
}
