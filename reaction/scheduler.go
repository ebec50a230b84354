// Package reaction bridges state and navigation changes to bounded side effects
//
// Effect Windows
//
// A celebratory update opens the celebration window for a fixed duration. A
// later celebratory update inside the window resets its expiry to now+duration:
// the previous expiry timer is stopped before the new one is installed, and
// every timer carries the generation it was scheduled for, so a fire belonging
// to a superseded window is discarded. Windows never stack and never outlive
// the configured duration after the most recent trigger.
//
// Navigation
//
// The navigation cue plays once per route transition start, driven by the
// tracker's begin events rather than by rendering.
//
// Startup
//
// Start schedules a one-shot settle timer; when it fires the welcome cue plays
// and Initializing flips to false, permanently.
package reaction

import (
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/echolens/core"
	"github.com/lixenwraith/echolens/engine"
	"github.com/lixenwraith/echolens/events"
	"github.com/lixenwraith/echolens/route"
)

// CuePlayer is the effect-player boundary used by the scheduler
type CuePlayer interface {
	Play(core.Cue)
}

// StateSource is the emotional-state boundary used by the scheduler
type StateSource interface {
	Subscribe(fn func(core.EmotionalState)) events.Unsubscribe
}

// RouteSource is the navigation boundary used by the scheduler
type RouteSource interface {
	Subscribe(fn func(route.Change)) events.Unsubscribe
}

// EffectChange is emitted when an effect window opens or closes
type EffectChange struct {
	Kind      core.EffectKind
	Active    bool
	ExpiresAt time.Time // zero when closing
}

// Window is the active effect window of one kind
type Window struct {
	Kind      core.EffectKind
	ExpiresAt time.Time
}

type window struct {
	Window
	timer engine.Timer
	gen   uint64
}

// Scheduler owns EffectWindows and the startup phase
// Not safe for concurrent use, confine to the engine loop
type Scheduler struct {
	cfg    Config
	clock  engine.Clock
	player CuePlayer
	logger *zap.Logger

	celebratory map[core.EmotionLabel]struct{}

	windows map[core.EffectKind]*window
	gen     uint64

	started      bool
	initializing bool
	settleTimer  engine.Timer
	settleGen    uint64

	unsubs   []events.Unsubscribe
	effects  *events.Feed[EffectChange]
	ready    *events.Feed[time.Time]
	journal  *events.Feed[events.Event]
	tornDown bool

	stats Stats
}

// Stats counts scheduler activity
type Stats struct {
	Celebrations  uint64 // qualifying updates
	WindowResets  uint64 // qualifying updates while a window was open
	Expiries      uint64
	StaleFires    uint64
	CuesRequested uint64 // cues handed to the player, muted or not
}

// New creates a scheduler subscribed to state and routes
// Either source may be nil
func New(cfg Config, clock engine.Clock, player CuePlayer, state StateSource, routes RouteSource, logger *zap.Logger) *Scheduler {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("reaction")

	s := &Scheduler{
		cfg:          cfg,
		clock:        clock,
		player:       player,
		logger:       logger,
		celebratory:  make(map[core.EmotionLabel]struct{}, len(cfg.Celebratory)),
		windows:      make(map[core.EffectKind]*window),
		initializing: true,
		effects:      events.NewFeed[EffectChange]("effects", logger),
		ready:        events.NewFeed[time.Time]("ready", logger),
		journal:      events.NewFeed[events.Event]("journal", logger),
	}
	for _, e := range cfg.Celebratory {
		s.celebratory[e] = struct{}{}
	}

	if state != nil {
		s.unsubs = append(s.unsubs, state.Subscribe(s.onState))
	}
	if routes != nil {
		s.unsubs = append(s.unsubs, routes.Subscribe(s.onRoute))
	}
	return s
}

// Start begins the settle phase, calling it again is a no-op
func (s *Scheduler) Start() {
	if s.started || s.tornDown {
		return
	}
	s.started = true

	s.gen++
	gen := s.gen
	s.settleGen = gen
	s.settleTimer = s.clock.AfterFunc(s.cfg.SettleDelay, func() {
		s.settle(gen)
	})
	s.logger.Debug("settle phase started", zap.Duration("delay", s.cfg.SettleDelay))
}

// IsCelebratory classifies an emotion label, unknown labels are not celebratory
func (s *Scheduler) IsCelebratory(e core.EmotionLabel) bool {
	_, ok := s.celebratory[e]
	return ok
}

// Active reports whether a window of kind is open
func (s *Scheduler) Active(kind core.EffectKind) bool {
	_, ok := s.windows[kind]
	return ok
}

// Window returns the open window of kind
func (s *Scheduler) Window(kind core.EffectKind) (Window, bool) {
	w, ok := s.windows[kind]
	if !ok {
		return Window{}, false
	}
	return w.Window, true
}

// Initializing reports whether the settle phase is still running
func (s *Scheduler) Initializing() bool {
	return s.initializing
}

// Stats returns a copy of the activity counters
func (s *Scheduler) Stats() Stats {
	return s.stats
}

// OnEffect subscribes fn to window open/close changes
func (s *Scheduler) OnEffect(fn func(EffectChange)) events.Unsubscribe {
	return s.effects.Subscribe(fn)
}

// OnReady subscribes fn to the end of the settle phase
func (s *Scheduler) OnReady(fn func(time.Time)) events.Unsubscribe {
	return s.ready.Subscribe(fn)
}

// OnEvent subscribes fn to the journal of every transition the scheduler observes
func (s *Scheduler) OnEvent(fn func(events.Event)) events.Unsubscribe {
	return s.journal.Subscribe(fn)
}

// Trigger opens or resets a window of kind, exposed for producers beyond emotions
func (s *Scheduler) Trigger(kind core.EffectKind) {
	if s.tornDown {
		return
	}
	s.openWindow(kind, s.cfg.durationFor(kind))
}

// Teardown unsubscribes from the sources, cancels all timers and silences the
// feeds; idempotent
func (s *Scheduler) Teardown() {
	if s.tornDown {
		return
	}
	s.tornDown = true

	for _, unsub := range s.unsubs {
		unsub()
	}
	s.unsubs = nil

	for kind, w := range s.windows {
		w.timer.Stop()
		delete(s.windows, kind)
	}
	if s.settleTimer != nil {
		s.settleTimer.Stop()
		s.settleTimer = nil
	}

	s.effects.Close()
	s.ready.Close()
	s.journal.Close()
	s.logger.Debug("scheduler torn down")
}

func (s *Scheduler) onState(next core.EmotionalState) {
	if s.tornDown {
		return
	}
	s.record(events.EventEmotionUpdated, next)

	if !s.IsCelebratory(next.Emotion) {
		return
	}
	s.stats.Celebrations++

	// Window state changes before the cue, a failing cue cannot block it
	s.openWindow(core.EffectCelebration, s.cfg.durationFor(core.EffectCelebration))
	s.play(s.cfg.CelebrationCue)
}

func (s *Scheduler) onRoute(c route.Change) {
	if s.tornDown {
		return
	}
	if !c.Pending {
		s.record(events.EventRouteSettled, c.Route)
		return
	}
	s.record(events.EventRouteBegin, c.Route)
	s.play(s.cfg.NavigationCue)
}

// openWindow installs a fresh window, stopping the previous expiry first
func (s *Scheduler) openWindow(kind core.EffectKind, d time.Duration) {
	prev, wasActive := s.windows[kind]
	if wasActive {
		prev.timer.Stop()
		s.stats.WindowResets++
	}

	s.gen++
	gen := s.gen
	w := &window{
		Window: Window{Kind: kind, ExpiresAt: s.clock.Now().Add(d)},
		gen:    gen,
	}
	w.timer = s.clock.AfterFunc(d, func() {
		s.expire(kind, gen)
	})
	s.windows[kind] = w

	s.logger.Debug("effect window opened",
		zap.String("kind", string(kind)),
		zap.Bool("reset", wasActive),
		zap.Time("expires_at", w.ExpiresAt),
	)
	if !wasActive {
		s.record(events.EventEffectStarted, kind)
		s.effects.Emit(EffectChange{Kind: kind, Active: true, ExpiresAt: w.ExpiresAt})
	}
}

// expire closes kind if gen still identifies its current window
func (s *Scheduler) expire(kind core.EffectKind, gen uint64) {
	w, ok := s.windows[kind]
	if s.tornDown || !ok || w.gen != gen {
		s.stats.StaleFires++
		s.logger.Debug("stale expiry discarded", zap.String("kind", string(kind)), zap.Uint64("gen", gen))
		return
	}

	delete(s.windows, kind)
	s.stats.Expiries++
	s.logger.Debug("effect window expired", zap.String("kind", string(kind)))
	s.record(events.EventEffectExpired, kind)
	s.effects.Emit(EffectChange{Kind: kind, Active: false})
}

// settle ends the startup phase exactly once
func (s *Scheduler) settle(gen uint64) {
	if s.tornDown || !s.started || !s.initializing || gen != s.settleGen {
		s.stats.StaleFires++
		return
	}
	s.initializing = false
	s.settleTimer = nil

	s.play(s.cfg.WelcomeCue)
	now := s.clock.Now()
	s.logger.Info("startup settled")
	s.record(events.EventReady, nil)
	s.ready.Emit(now)
}

// play requests cue from the player, isolating player faults
func (s *Scheduler) play(cue core.Cue) {
	if s.player == nil || cue == "" {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("cue player fault", zap.String("cue", string(cue)), zap.Any("panic", r))
		}
	}()
	s.player.Play(cue)
	s.stats.CuesRequested++
	s.record(events.EventCueRequested, cue)
}

func (s *Scheduler) record(t events.EventType, payload any) {
	if s.journal.Len() == 0 {
		return
	}
	s.journal.Emit(events.Event{Type: t, Time: s.clock.Now(), Payload: payload})
}
