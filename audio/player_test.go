package audio

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lixenwraith/echolens/core"
)

// recordingSink counts streams and their sample lengths
type recordingSink struct {
	mu      sync.Mutex
	lengths []int
	fail    error
	closed  bool
}

func (r *recordingSink) Play(s beep.Streamer) error {
	if r.fail != nil {
		return r.fail
	}
	total, _ := drain(s)
	r.mu.Lock()
	r.lengths = append(r.lengths, total)
	r.mu.Unlock()
	return nil
}

func (r *recordingSink) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lengths)
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.SampleRate = 8000
	return cfg
}

func TestPlayerPreloadThenPlay(t *testing.T) {
	sink := &recordingSink{}
	p := NewPlayer(testConfig(), sink, nil)

	p.Preload(core.Cues...)
	p.Wait()
	for _, cue := range core.Cues {
		assert.Equal(t, "synth", p.Source(cue))
	}

	p.Play(core.CueSuccess)
	p.Play(core.CueClick)
	assert.Equal(t, 2, sink.count())
	assert.Equal(t, int64(2), p.Played())
}

func TestPlayerLazyLoadPlaysWhenReady(t *testing.T) {
	sink := &recordingSink{}
	p := NewPlayer(testConfig(), sink, nil)

	p.Play(core.CueNotification)
	p.Wait()
	assert.Equal(t, 1, sink.count(), "first play of an unloaded cue plays once loaded")
}

func TestPlayerPlayDuringPreloadIsDeferred(t *testing.T) {
	sink := &recordingSink{}
	p := NewPlayer(testConfig(), sink, nil)

	// Plays issued while the preload is in flight wait for it
	p.Preload(core.Cues...)
	p.Play(core.CueClick)
	p.Play(core.CueClick)
	p.Wait()

	assert.Equal(t, 2, sink.count())
	assert.Equal(t, int64(2), p.Played())
}

func TestPlayerFailedLoadCountsWaitingPlays(t *testing.T) {
	cfg := testConfig()
	cfg.Synthesize = false
	p := NewPlayer(cfg, &recordingSink{}, nil)

	p.Preload(core.CueClick)
	p.Play(core.CueClick)
	p.Wait()
	assert.Equal(t, int64(1), p.Unavailable())
}

func TestPlayerUnknownCueIsNoop(t *testing.T) {
	sink := &recordingSink{}
	p := NewPlayer(testConfig(), sink, nil)

	assert.NotPanics(t, func() {
		p.Play("fanfare")
		p.Preload("fanfare")
	})
	p.Wait()
	assert.Equal(t, 0, sink.count())
	assert.Equal(t, int64(0), p.Unavailable())
}

func TestPlayerMuted(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	sink := &recordingSink{}
	p := NewPlayer(cfg, sink, nil)

	assert.True(t, p.IsMuted())
	p.Preload(core.CueClick)
	p.Wait()
	p.Play(core.CueClick)
	assert.Equal(t, 0, sink.count())

	assert.False(t, p.ToggleMute())
	p.Play(core.CueClick)
	assert.Equal(t, 1, sink.count())
}

func TestPlayerAssetLoadingPerAsset(t *testing.T) {
	dir := t.TempDir()
	rate := beep.SampleRate(8000)

	// Valid asset at a different rate exercises resampling
	f, err := os.Create(filepath.Join(dir, "success.wav"))
	require.NoError(t, err)
	format := beep.Format{SampleRate: rate * 2, NumChannels: 2, Precision: 2}
	require.NoError(t, wav.Encode(f, SynthesizeCue(core.CueSuccess, rate*2), format))
	require.NoError(t, f.Close())

	// Corrupt asset
	require.NoError(t, os.WriteFile(filepath.Join(dir, "click.wav"), []byte("not a wav file"), 0o644))

	obs, logs := observer.New(zap.WarnLevel)
	cfg := testConfig()
	cfg.AssetDir = dir
	cfg.Synthesize = false
	sink := &recordingSink{}
	p := NewPlayer(cfg, sink, zap.New(obs))

	p.Preload(core.Cues...)
	p.Wait()

	assert.Equal(t, "asset", p.Source(core.CueSuccess), "good asset loads despite bad siblings")
	assert.Equal(t, "", p.Source(core.CueClick))
	assert.Equal(t, "", p.Source(core.CueNotification))
	assert.Equal(t, 2, logs.FilterMessage("cue asset unavailable").Len())

	assert.NotPanics(t, func() {
		p.Play(core.CueClick)
		p.Play(core.CueNotification)
		p.Play(core.CueSuccess)
	})
	require.Equal(t, 1, sink.count())

	sink.mu.Lock()
	got := sink.lengths[0]
	sink.mu.Unlock()
	want := rate.N(500 * time.Millisecond)
	assert.InDelta(t, want, got, float64(want)/20, "resampled asset keeps its duration")
}

func TestPlayerMissingAssetFallsBackToSynth(t *testing.T) {
	cfg := testConfig()
	cfg.AssetDir = t.TempDir()
	p := NewPlayer(cfg, &recordingSink{}, nil)

	p.Preload(core.CueClick)
	p.Wait()
	assert.Equal(t, "synth", p.Source(core.CueClick))
}

func TestPlayerSinkFailureSwallowed(t *testing.T) {
	sink := &recordingSink{fail: errors.New("device lost")}
	p := NewPlayer(testConfig(), sink, nil)

	p.Preload(core.CueClick)
	p.Wait()
	assert.NotPanics(t, func() { p.Play(core.CueClick) })
	assert.Equal(t, int64(0), p.Played())
	assert.Equal(t, int64(1), p.Unavailable())
}

func TestPlayerClose(t *testing.T) {
	sink := &recordingSink{}
	p := NewPlayer(testConfig(), sink, nil)

	p.Close()
	p.Close()
	p.Play(core.CueClick)
	p.Preload(core.CueClick)
	p.Wait()

	assert.True(t, sink.closed)
	assert.Equal(t, 0, sink.count())
}

func TestServiceSilentModeWhenNoDevice(t *testing.T) {
	svc := NewService(testConfig(), nil)
	svc.openSink = func(beep.SampleRate) (Sink, error) { return nil, ErrNoOutput }

	require.NoError(t, svc.Init())
	require.NoError(t, svc.Start())
	assert.True(t, svc.IsSilent())
	require.NotNil(t, svc.Player())

	assert.NotPanics(t, func() { svc.Player().Play(core.CueSuccess) })
	require.NoError(t, svc.Stop())
}

func TestServiceInitMuteArg(t *testing.T) {
	sink := &recordingSink{}
	svc := NewService(testConfig(), nil).WithSink(sink)

	require.NoError(t, svc.Init(true))
	assert.True(t, svc.Player().IsMuted())
	assert.Equal(t, "audio", svc.Name())
	assert.Empty(t, svc.Dependencies())
	require.NoError(t, svc.Stop())
	assert.True(t, sink.closed)
}
