// Package route tracks the per-route loading phase that follows navigation
//
// Each route runs an independent Idle → Pending → Idle machine. Entering
// Pending schedules a completion after the configured delay; re-entering while
// Pending keeps the running timer.
package route

import (
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/echolens/core"
	"github.com/lixenwraith/echolens/engine"
	"github.com/lixenwraith/echolens/events"
)

// DefaultDelay is the simulated load phase of a route
const DefaultDelay = 1000 * time.Millisecond

// Change is emitted on every pending flip of a route
type Change struct {
	Route   core.RouteKey
	Pending bool
	At      time.Time
}

// transition is the in-flight completion of one route
type transition struct {
	timer engine.Timer
	gen   uint64
	began time.Time
}

// Tracker owns the PendingMap
// Not safe for concurrent use, confine to the engine loop
type Tracker struct {
	clock  engine.Clock
	delay  time.Duration
	logger *zap.Logger

	pending  map[core.RouteKey]bool
	inflight map[core.RouteKey]*transition
	order    []core.RouteKey // first-visit order
	gen      uint64

	feed     *events.Feed[Change]
	tornDown bool

	// StaleFires counts discarded timer fires
	StaleFires uint64
}

// NewTracker creates a tracker, a non-positive delay selects DefaultDelay
func NewTracker(clock engine.Clock, delay time.Duration, logger *zap.Logger) *Tracker {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("route")
	return &Tracker{
		clock:    clock,
		delay:    delay,
		logger:   logger,
		pending:  make(map[core.RouteKey]bool),
		inflight: make(map[core.RouteKey]*transition),
		feed:     events.NewFeed[Change]("route", logger),
	}
}

// BeginTransition moves route Idle→Pending and schedules its completion
// Returns false when route is already pending or the tracker is torn down
func (t *Tracker) BeginTransition(route core.RouteKey) bool {
	if t.tornDown {
		return false
	}
	if t.pending[route] {
		return false
	}

	if _, seen := t.pending[route]; !seen {
		t.order = append(t.order, route)
	}
	t.pending[route] = true

	t.gen++
	gen := t.gen
	now := t.clock.Now()
	tr := &transition{gen: gen, began: now}
	tr.timer = t.clock.AfterFunc(t.delay, func() {
		t.settle(route, gen)
	})
	t.inflight[route] = tr

	t.logger.Debug("transition begin",
		zap.String("route", string(route)),
		zap.Duration("delay", t.delay),
	)
	t.feed.Emit(Change{Route: route, Pending: true, At: now})
	return true
}

// Complete resolves a pending route early, for producers with real latency
// Returns false when route is not pending
func (t *Tracker) Complete(route core.RouteKey) bool {
	tr, ok := t.inflight[route]
	if !ok || t.tornDown {
		return false
	}
	tr.timer.Stop()
	t.settle(route, tr.gen)
	return true
}

// Pending reports the loading flag of route, false for unknown routes
func (t *Tracker) Pending(route core.RouteKey) bool {
	return t.pending[route]
}

// Routes returns a snapshot of every visited route in first-visit order
func (t *Tracker) Routes() map[core.RouteKey]bool {
	out := make(map[core.RouteKey]bool, len(t.pending))
	for k, v := range t.pending {
		out[k] = v
	}
	return out
}

// Visited returns visited routes in first-visit order
func (t *Tracker) Visited() []core.RouteKey {
	out := make([]core.RouteKey, len(t.order))
	copy(out, t.order)
	return out
}

// Delay returns the current load-phase duration
func (t *Tracker) Delay() time.Duration {
	return t.delay
}

// SetDelay changes the duration used by subsequent transitions
func (t *Tracker) SetDelay(d time.Duration) {
	if d > 0 {
		t.delay = d
	}
}

// Subscribe registers fn for every pending flip
func (t *Tracker) Subscribe(fn func(Change)) events.Unsubscribe {
	return t.feed.Subscribe(fn)
}

// Teardown cancels every outstanding completion and silences the feed
// Idempotent
func (t *Tracker) Teardown() {
	if t.tornDown {
		return
	}
	t.tornDown = true
	for route, tr := range t.inflight {
		tr.timer.Stop()
		delete(t.inflight, route)
	}
	t.feed.Close()
	t.logger.Debug("tracker torn down")
}

// TornDown reports whether Teardown was called
func (t *Tracker) TornDown() bool {
	return t.tornDown
}

// settle completes route if gen still identifies its in-flight transition
func (t *Tracker) settle(route core.RouteKey, gen uint64) {
	tr, ok := t.inflight[route]
	if t.tornDown || !ok || tr.gen != gen {
		t.StaleFires++
		t.logger.Debug("stale transition fire discarded",
			zap.String("route", string(route)),
			zap.Uint64("gen", gen),
		)
		return
	}

	delete(t.inflight, route)
	t.pending[route] = false

	now := t.clock.Now()
	t.logger.Debug("transition settled",
		zap.String("route", string(route)),
		zap.Duration("elapsed", now.Sub(tr.began)),
	)
	t.feed.Emit(Change{Route: route, Pending: false, At: now})
}
