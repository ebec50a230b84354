// Package store holds the single live emotional state and its subscription feed
package store

import (
	"go.uber.org/zap"

	"github.com/lixenwraith/echolens/core"
	"github.com/lixenwraith/echolens/events"
)

// Store owns the current EmotionalState
// Not safe for concurrent use, confine to the engine loop
type Store struct {
	state  core.EmotionalState
	feed   *events.Feed[core.EmotionalState]
	logger *zap.Logger

	updates uint64
}

// New creates a store holding core.InitialState
func New(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("store")
	return &Store{
		state:  core.InitialState(),
		feed:   events.NewFeed[core.EmotionalState]("emotional-state", logger),
		logger: logger,
	}
}

// Get returns the current value
func (s *Store) Get() core.EmotionalState {
	return s.state
}

// Update replaces the value, then notifies subscribers in registration order
// Every subscriber observes Get() == next during its callback
func (s *Store) Update(next core.EmotionalState) {
	s.state = next
	s.updates++
	s.logger.Debug("emotional state updated",
		zap.Stringer("state", next),
		zap.Uint64("seq", s.updates),
	)
	s.feed.Emit(next)
}

// Subscribe registers fn for every future Update
func (s *Store) Subscribe(fn func(core.EmotionalState)) events.Unsubscribe {
	return s.feed.Subscribe(fn)
}

// Reset restores the initial value without notifying subscribers
func (s *Store) Reset() {
	s.state = core.InitialState()
	s.updates = 0
}

// Updates returns how many updates were applied since creation or Reset
func (s *Store) Updates() uint64 {
	return s.updates
}

// Faults returns the number of recovered subscriber panics
func (s *Store) Faults() int64 {
	return s.feed.Faults.Load()
}

// Close drops all subscribers
func (s *Store) Close() {
	s.feed.Close()
}
