package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"github.com/lixenwraith/echolens/constants"
	"github.com/lixenwraith/echolens/core"
)

// cueEntry is one cached cue
type cueEntry struct {
	state  cueState
	buffer *beep.Buffer
	source string // "asset" or "synth"
	err    error

	waiting int // plays requested while loading
}

// cueCache stores unity-gain buffers at the output sample rate
type cueCache struct {
	mu      sync.RWMutex
	rate    beep.SampleRate
	format  beep.Format
	entries map[core.Cue]*cueEntry
}

func newCueCache(rate beep.SampleRate) *cueCache {
	return &cueCache{
		rate:    rate,
		format:  beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2},
		entries: make(map[core.Cue]*cueEntry),
	}
}

// acquire returns the cached buffer and its state
// A missing cue is claimed for loading with one waiting play and reported as
// cueMissing; a loading cue records one more waiting play
func (c *cueCache) acquire(cue core.Cue) (*beep.Buffer, cueState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[cue]
	if !ok {
		c.entries[cue] = &cueEntry{state: cueLoading, waiting: 1}
		return nil, cueMissing, nil
	}
	if e.state == cueLoading {
		e.waiting++
	}
	return e.buffer, e.state, e.err
}

// claim marks cue as loading, returns false if another load owns it or it is settled
func (c *cueCache) claim(cue core.Cue) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[cue]; ok {
		return false
	}
	c.entries[cue] = &cueEntry{state: cueLoading}
	return true
}

// store settles a claimed cue and returns the plays that waited on it
func (c *cueCache) store(cue core.Cue, buf *beep.Buffer, source string, err error) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	var waiting int
	if prev, ok := c.entries[cue]; ok {
		waiting = prev.waiting
	}
	e := &cueEntry{buffer: buf, source: source, err: err, state: cueReady}
	if err != nil {
		e.state = cueFailed
		e.buffer = nil
	}
	c.entries[cue] = e
	return waiting
}

// source reports where a ready cue came from, empty when not ready
func (c *cueCache) source(cue core.Cue) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.entries[cue]; ok && e.state == cueReady {
		return e.source
	}
	return ""
}

// load decodes <dir>/<cue>.wav or synthesizes the cue
// Blocking; callers run it off the loop
func (c *cueCache) load(cue core.Cue, cfg *Config) (*beep.Buffer, string, error) {
	if !cue.Known() {
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownCue, cue)
	}

	if cfg.AssetDir != "" {
		path := filepath.Join(cfg.AssetDir, string(cue)+".wav")
		buf, err := c.decodeFile(path)
		if err == nil {
			return buf, "asset", nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, "", fmt.Errorf("%w: %s: %v", ErrAssetUnavailable, path, err)
		}
		if !cfg.Synthesize {
			return nil, "", fmt.Errorf("%w: %s not found", ErrAssetUnavailable, path)
		}
	} else if !cfg.Synthesize {
		return nil, "", fmt.Errorf("%w: no asset dir and synthesis disabled", ErrAssetUnavailable)
	}

	buf := beep.NewBuffer(c.format)
	buf.Append(SynthesizeCue(cue, c.rate))
	return buf, "synth", nil
}

func (c *cueCache) decodeFile(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode: %w", err)
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if format.SampleRate != c.rate {
		s = beep.Resample(constants.ResampleQuality, format.SampleRate, c.rate, streamer)
	}

	buf := beep.NewBuffer(c.format)
	buf.Append(s)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("stream: %w", err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("empty asset")
	}
	return buf, nil
}
