package events

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// Unsubscribe removes a listener; calling it more than once is a no-op
type Unsubscribe func()

// Listener receives one emitted value
type Listener[T any] func(T)

type subscription[T any] struct {
	id     uint64
	fn     Listener[T]
	active bool
}

// Feed dispatches values to listeners
//
// Architecture:
//   - Single-threaded dispatch, confine every call to the owning loop
//   - Listeners are invoked synchronously in registration order
//   - A listener registered during dispatch first sees the next value
//   - A listener removed during dispatch is skipped for the rest of it
//   - A panicking listener is recovered and logged, later listeners still run
type Feed[T any] struct {
	name   string
	subs   []*subscription[T]
	nextID uint64
	closed bool
	logger *zap.Logger

	// Faults counts recovered listener panics
	Faults *atomic.Int64
}

// NewFeed creates a named feed, the name only appears in logs
func NewFeed[T any](name string, logger *zap.Logger) *Feed[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Feed[T]{
		name:   name,
		logger: logger,
		Faults: &atomic.Int64{},
	}
}

// Subscribe registers fn and returns its idempotent Unsubscribe
// Subscribing to a closed feed returns a no-op Unsubscribe
func (f *Feed[T]) Subscribe(fn Listener[T]) Unsubscribe {
	if fn == nil || f.closed {
		return func() {}
	}
	f.nextID++
	sub := &subscription[T]{id: f.nextID, fn: fn, active: true}
	f.subs = append(f.subs, sub)

	return func() {
		if !sub.active {
			return
		}
		sub.active = false
		f.remove(sub.id)
	}
}

// Emit delivers v to every active listener in registration order
func (f *Feed[T]) Emit(v T) {
	if f.closed || len(f.subs) == 0 {
		return
	}
	// Snapshot so listeners may subscribe or unsubscribe during dispatch
	snapshot := make([]*subscription[T], len(f.subs))
	copy(snapshot, f.subs)

	for _, sub := range snapshot {
		if !sub.active || f.closed {
			continue
		}
		f.deliver(sub, v)
	}
}

// Close drops all listeners; later Emit and Subscribe calls are no-ops
func (f *Feed[T]) Close() {
	for _, sub := range f.subs {
		sub.active = false
	}
	f.subs = nil
	f.closed = true
}

// Len returns the number of active listeners
func (f *Feed[T]) Len() int {
	return len(f.subs)
}

// Closed reports whether Close was called
func (f *Feed[T]) Closed() bool {
	return f.closed
}

func (f *Feed[T]) deliver(sub *subscription[T], v T) {
	defer func() {
		if r := recover(); r != nil {
			f.Faults.Add(1)
			f.logger.Error("subscriber fault",
				zap.String("feed", f.name),
				zap.Uint64("subscriber", sub.id),
				zap.Any("panic", r),
			)
		}
	}()
	sub.fn(v)
}

func (f *Feed[T]) remove(id uint64) {
	for i, s := range f.subs {
		if s.id == id {
			f.subs = append(f.subs[:i:i], f.subs[i+1:]...)
			return
		}
	}
}
