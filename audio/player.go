package audio

import (
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"go.uber.org/zap"

	"github.com/lixenwraith/echolens/core"
)

// Player plays named cues, fire-and-forget
// Play and Preload never block the caller and never report errors; failures
// are logged and counted
type Player struct {
	cfg    *Config
	rate   beep.SampleRate
	cache  *cueCache
	sink   Sink
	logger *zap.Logger

	muted  atomic.Bool
	closed atomic.Bool

	// lifecycle orders wg.Add against Close
	lifecycle sync.Mutex
	wg        sync.WaitGroup

	played      atomic.Int64
	unavailable atomic.Int64
}

// NewPlayer creates a player writing to sink, nil sink selects NopSink
func NewPlayer(cfg *Config, sink Sink, logger *zap.Logger) *Player {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if sink == nil {
		sink = NopSink{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	rate := beep.SampleRate(cfg.SampleRate)
	p := &Player{
		cfg:    cfg,
		rate:   rate,
		cache:  newCueCache(rate),
		sink:   sink,
		logger: logger.Named("audio"),
	}
	p.muted.Store(!cfg.Enabled)
	return p
}

// Preload warms the cache for names, each asset loads independently
func (p *Player) Preload(names ...core.Cue) {
	for _, cue := range names {
		if !cue.Known() {
			p.logger.Debug("preload of unknown cue ignored", zap.String("cue", string(cue)))
			continue
		}
		if p.cache.claim(cue) {
			p.loadAsync(cue)
		}
	}
}

// Play dispatches cue to the sink
// Unknown cues, unavailable assets and a muted player are silent no-ops
func (p *Player) Play(cue core.Cue) {
	if !cue.Known() {
		p.logger.Debug("unknown cue ignored", zap.String("cue", string(cue)))
		return
	}
	if p.closed.Load() || p.muted.Load() {
		return
	}

	buf, state, err := p.cache.acquire(cue)
	switch state {
	case cueReady:
		p.emit(cue, buf)
	case cueFailed:
		p.unavailable.Add(1)
		p.logger.Debug("cue skipped, asset unavailable", zap.String("cue", string(cue)), zap.Error(err))
	case cueLoading:
		// Played by the in-flight load once it settles
		p.logger.Debug("cue deferred, asset loading", zap.String("cue", string(cue)))
	default:
		p.loadAsync(cue)
	}
}

// ToggleMute flips the mute state and returns the new value
func (p *Player) ToggleMute() bool {
	for {
		old := p.muted.Load()
		if p.muted.CompareAndSwap(old, !old) {
			p.logger.Info("mute toggled", zap.Bool("muted", !old))
			return !old
		}
	}
}

// SetMuted forces the mute state
func (p *Player) SetMuted(muted bool) {
	p.muted.Store(muted)
}

// IsMuted reports the mute state
func (p *Player) IsMuted() bool {
	return p.muted.Load()
}

// Played returns the number of cues handed to the sink
func (p *Player) Played() int64 {
	return p.played.Load()
}

// Unavailable returns the number of plays skipped for missing assets
func (p *Player) Unavailable() int64 {
	return p.unavailable.Load()
}

// Source reports "asset" or "synth" for a loaded cue, empty otherwise
func (p *Player) Source(cue core.Cue) string {
	return p.cache.source(cue)
}

// Wait blocks until in-flight asset loads finish
func (p *Player) Wait() {
	p.wg.Wait()
}

// Close waits for loads and releases the sink; later plays are no-ops
func (p *Player) Close() {
	p.lifecycle.Lock()
	if !p.closed.CompareAndSwap(false, true) {
		p.lifecycle.Unlock()
		return
	}
	p.lifecycle.Unlock()

	p.wg.Wait()
	p.sink.Close()
}

// loadAsync decodes or synthesizes a claimed cue off the caller's goroutine,
// then plays it once for every Play that waited on the load
func (p *Player) loadAsync(cue core.Cue) {
	p.lifecycle.Lock()
	if p.closed.Load() {
		p.lifecycle.Unlock()
		return
	}
	p.wg.Add(1)
	p.lifecycle.Unlock()

	core.Go(func() {
		defer p.wg.Done()

		buf, source, err := p.cache.load(cue, p.cfg)
		waiting := p.cache.store(cue, buf, source, err)
		if err != nil {
			p.unavailable.Add(int64(waiting))
			p.logger.Warn("cue asset unavailable", zap.String("cue", string(cue)), zap.Error(err))
			return
		}
		p.logger.Debug("cue loaded",
			zap.String("cue", string(cue)),
			zap.String("source", source),
			zap.Int("samples", buf.Len()),
		)
		for i := 0; i < waiting && !p.closed.Load() && !p.muted.Load(); i++ {
			p.emit(cue, buf)
		}
	})
}

// emit wraps the cached buffer with the cue gain and hands it to the sink
func (p *Player) emit(cue core.Cue, buf *beep.Buffer) {
	defer func() {
		if r := recover(); r != nil {
			p.unavailable.Add(1)
			p.logger.Error("sink panicked", zap.String("cue", string(cue)), zap.Any("panic", r))
		}
	}()

	stream := newVolume(buf.Streamer(0, buf.Len()), p.cfg.Volume(cue))
	if err := p.sink.Play(stream); err != nil {
		p.unavailable.Add(1)
		p.logger.Debug("sink rejected cue", zap.String("cue", string(cue)), zap.Error(err))
		return
	}
	p.played.Add(1)
}
