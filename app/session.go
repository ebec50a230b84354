// Package app composes the engine into one Session
//
// A Session owns a Loop and every component confined to it: the state store,
// the route tracker, the reaction scheduler and the audio service. Public
// methods are safe from any goroutine; they marshal onto the loop.
//
// Lifecycle:
//
//	sess, _ := app.New(app.Options{Config: cfg, Logger: logger})
//	sess.OnEffect(func(c reaction.EffectChange) { ... }) // before or after Start
//	sess.Start()
//	sess.Navigate(core.RouteChat)
//	sess.SetEmotionalState(state)
//	sess.Stop()
package app

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lixenwraith/echolens/audio"
	"github.com/lixenwraith/echolens/config"
	"github.com/lixenwraith/echolens/constants"
	"github.com/lixenwraith/echolens/core"
	"github.com/lixenwraith/echolens/engine"
	"github.com/lixenwraith/echolens/events"
	"github.com/lixenwraith/echolens/reaction"
	"github.com/lixenwraith/echolens/route"
	"github.com/lixenwraith/echolens/service"
	"github.com/lixenwraith/echolens/status"
	"github.com/lixenwraith/echolens/store"
	"github.com/lixenwraith/echolens/view"
)

// ErrNotStarted is returned by operations that need a running loop
var ErrNotStarted = errors.New("session not started")

// Options configures a Session, zero fields select defaults
type Options struct {
	Config *config.Config
	Logger *zap.Logger

	// Clock overrides the loop-backed real clock; timers must fire on the loop
	Clock engine.Clock

	// Sink replaces speaker output
	Sink audio.Sink

	// Status receives runtime metrics, a private registry is created when nil
	Status *status.Registry
}

// Session is one running instance of the engine
type Session struct {
	id     string
	cfg    *config.Config
	logger *zap.Logger

	loop  *engine.Loop
	clock engine.Clock
	hub   *service.Hub
	audio *audio.AudioService
	stats *status.Registry

	// Loop-confined
	store     *store.Store
	tracker   *route.Tracker
	scheduler *reaction.Scheduler
	route     core.RouteKey
	darkMode  bool

	started  atomic.Bool
	stopped  atomic.Bool
	stopOnce sync.Once
}

// New wires a Session without starting it
func New(opts Options) (*Session, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("session", id))

	stats := opts.Status
	if stats == nil {
		stats = status.NewRegistry()
	}

	loop := engine.NewLoop(constants.LoopQueueSize, logger)
	clock := opts.Clock
	if clock == nil {
		clock = engine.NewRealClock(loop)
	}

	audioCfg := cfg.Audio
	audioSvc := audio.NewService(&audioCfg, logger.Named("audio"))
	if opts.Sink != nil {
		audioSvc.WithSink(opts.Sink)
	}

	hub := service.NewHub(logger)
	if err := hub.Register(audioSvc); err != nil {
		return nil, err
	}

	s := &Session{
		id:      id,
		cfg:     cfg,
		logger:  logger,
		loop:    loop,
		clock:   clock,
		hub:     hub,
		audio:   audioSvc,
		stats:   stats,
		store:   store.New(logger),
		tracker: route.NewTracker(clock, cfg.Routes.TransitionDelay, logger),
	}
	s.scheduler = reaction.New(cfg.Reaction, clock, cuePlayer{audioSvc}, s.store, s.tracker, logger)
	s.bindStatus()
	return s, nil
}

// cuePlayer resolves the player lazily, it exists only after the audio service initializes
type cuePlayer struct {
	svc *audio.AudioService
}

func (c cuePlayer) Play(cue core.Cue) {
	if p := c.svc.Player(); p != nil {
		p.Play(cue)
	}
}

// ID returns the session identifier attached to every log entry
func (s *Session) ID() string {
	return s.id
}

// Status returns the metrics registry
func (s *Session) Status() *status.Registry {
	return s.stats
}

// Register adds a producer service, must be called before Start
func (s *Session) Register(svc service.Service, args ...any) error {
	if s.started.Load() {
		return errors.New("cannot register services after start")
	}
	return s.hub.Register(svc, args...)
}

// Start runs the loop, starts services, begins the settle phase and
// navigates to the dashboard
func (s *Session) Start() error {
	if s.stopped.Load() {
		return engine.ErrLoopStopped
	}
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}
	s.loop.Start()

	if err := s.hub.InitAll(); err != nil {
		s.shutdown()
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	if err := s.hub.StartAll(); err != nil {
		s.shutdown()
		return fmt.Errorf("failed to start services: %w", err)
	}
	s.stats.Bools.Get("audio.silent").Store(s.audio.IsSilent())
	if p := s.audio.Player(); p != nil {
		s.stats.Bools.Get("audio.muted").Store(p.IsMuted())
	}

	err := s.loop.Do(func() {
		s.scheduler.Start()
		s.navigate(core.RouteDashboard)
	})
	if err != nil {
		return err
	}
	s.logger.Info("session started", zap.Strings("services", s.hub.Order()))
	return nil
}

// Stop halts services first so producers post nothing after teardown, then
// tears down every component on the loop and stops it. Idempotent
//
// Stop waits on the loop: calling it from a listener (any On* callback)
// deadlocks, hand it to another goroutine instead
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		s.stopped.Store(true)
		s.hub.StopAll()
		if s.started.Load() {
			_ = s.loop.Do(s.teardown)
		} else {
			s.teardown()
		}
		s.loop.Stop()
		s.logger.Info("session stopped")
	})
}

func (s *Session) teardown() {
	s.scheduler.Teardown()
	s.tracker.Teardown()
	s.store.Close()
	s.store.Reset()
}

func (s *Session) shutdown() {
	s.stopped.Store(true)
	s.hub.StopAll()
	s.loop.Stop()
}

// Do runs fn on the loop and waits; before Start fn runs on the caller
func (s *Session) Do(fn func()) error {
	if s.stopped.Load() {
		return engine.ErrLoopStopped
	}
	if !s.started.Load() {
		fn()
		return nil
	}
	return s.loop.Do(fn)
}

func (s *Session) post(fn func()) error {
	if !s.started.Load() {
		return ErrNotStarted
	}
	return s.loop.Post(fn)
}

// Navigate begins a transition to r; navigating to the current route is a no-op
func (s *Session) Navigate(r core.RouteKey) error {
	return s.post(func() { s.navigate(r) })
}

func (s *Session) navigate(r core.RouteKey) {
	if r == s.route {
		return
	}
	s.route = r
	s.stats.Strings.Get("route.current").Store(string(r))
	s.tracker.BeginTransition(r)
}

// SetEmotionalState validates and publishes next
func (s *Session) SetEmotionalState(next core.EmotionalState) error {
	next = next.Normalize()
	if err := next.Validate(); err != nil {
		return err
	}
	return s.post(func() { s.store.Update(next) })
}

// Deliver is a feed.Handler, invalid states are logged and dropped
func (s *Session) Deliver(next core.EmotionalState) {
	if err := s.SetEmotionalState(next); err != nil {
		s.logger.Warn("state rejected", zap.Stringer("state", next), zap.Error(err))
	}
}

// ToggleDarkMode flips the theme token, playing the navigation cue
func (s *Session) ToggleDarkMode() error {
	return s.post(func() {
		s.darkMode = !s.darkMode
		s.stats.Bools.Get("view.dark").Store(s.darkMode)
		cuePlayer{s.audio}.Play(s.cfg.Reaction.NavigationCue)
	})
}

// ToggleMute flips audio output and returns the new mute state
func (s *Session) ToggleMute() bool {
	p := s.audio.Player()
	if p == nil {
		return true
	}
	muted := p.ToggleMute()
	s.stats.Bools.Get("audio.muted").Store(muted)
	return muted
}

// Snapshot projects the current state for rendering
func (s *Session) Snapshot() (view.Model, error) {
	var m view.Model
	err := s.Do(func() { m = s.model() })
	return m, err
}

func (s *Session) model() view.Model {
	w, celebrating := s.scheduler.Window(core.EffectCelebration)
	m := view.Model{
		State:              s.store.Get(),
		Route:              s.route,
		Pending:            s.tracker.Pending(s.route),
		Celebrating:        celebrating,
		CelebrationExpires: w.ExpiresAt,
		Initializing:       s.scheduler.Initializing(),
		DarkMode:           s.darkMode,
		Visited:            s.tracker.Visited(),
	}
	if p := s.audio.Player(); p != nil {
		m.Muted = p.IsMuted()
	}
	return m
}

// Reactions returns a copy of the scheduler counters
func (s *Session) Reactions() (reaction.Stats, error) {
	var st reaction.Stats
	err := s.Do(func() { st = s.scheduler.Stats() })
	return st, err
}

// OnEmotionalState subscribes fn to state updates, fn runs on the loop
func (s *Session) OnEmotionalState(fn func(core.EmotionalState)) (events.Unsubscribe, error) {
	return s.subscribe(func() events.Unsubscribe { return s.store.Subscribe(fn) })
}

// OnRoute subscribes fn to pending flips, fn runs on the loop
func (s *Session) OnRoute(fn func(route.Change)) (events.Unsubscribe, error) {
	return s.subscribe(func() events.Unsubscribe { return s.tracker.Subscribe(fn) })
}

// OnEffect subscribes fn to effect window open/close, fn runs on the loop
func (s *Session) OnEffect(fn func(reaction.EffectChange)) (events.Unsubscribe, error) {
	return s.subscribe(func() events.Unsubscribe { return s.scheduler.OnEffect(fn) })
}

// OnReady subscribes fn to the end of the settle phase, fn runs on the loop
func (s *Session) OnReady(fn func(time.Time)) (events.Unsubscribe, error) {
	return s.subscribe(func() events.Unsubscribe { return s.scheduler.OnReady(fn) })
}

// OnEvent subscribes fn to the reaction journal, fn runs on the loop
func (s *Session) OnEvent(fn func(events.Event)) (events.Unsubscribe, error) {
	return s.subscribe(func() events.Unsubscribe { return s.scheduler.OnEvent(fn) })
}

// subscribe registers on the loop; the returned Unsubscribe posts its removal
// so it is safe to call from a listener
func (s *Session) subscribe(reg func() events.Unsubscribe) (events.Unsubscribe, error) {
	var unsub events.Unsubscribe
	if err := s.Do(func() { unsub = reg() }); err != nil {
		return func() {}, err
	}
	var once atomic.Bool
	return func() {
		if !once.CompareAndSwap(false, true) {
			return
		}
		if err := s.post(unsub); err != nil {
			// Loop is gone or never ran, no dispatch can race the removal
			unsub()
		}
	}, nil
}

// bindStatus mirrors component state into the registry
func (s *Session) bindStatus() {
	emotion := s.stats.Strings.Get("emotion.current")
	emotion.Store(s.store.Get().String())
	updates := s.stats.Ints.Get("emotion.updates")
	s.store.Subscribe(func(next core.EmotionalState) {
		emotion.Store(next.String())
		updates.Add(1)
	})

	pendingCount := s.stats.Ints.Get("route.pending")
	transitions := s.stats.Ints.Get("route.transitions")
	s.tracker.Subscribe(func(c route.Change) {
		if c.Pending {
			pendingCount.Add(1)
			transitions.Add(1)
		} else {
			pendingCount.Add(-1)
		}
	})

	celebrating := s.stats.Bools.Get("reaction.celebrating")
	celebrations := s.stats.Ints.Get("reaction.celebrations")
	s.scheduler.OnEffect(func(c reaction.EffectChange) {
		if c.Kind != core.EffectCelebration {
			return
		}
		celebrating.Store(c.Active)
		if c.Active {
			celebrations.Add(1)
		}
	})

	initializing := s.stats.Bools.Get("reaction.initializing")
	initializing.Store(true)
	s.scheduler.OnReady(func(time.Time) {
		initializing.Store(false)
	})
}
