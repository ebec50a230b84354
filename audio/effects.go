package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/echolens/constants"
	"github.com/lixenwraith/echolens/core"
)

// waveform is the oscillator shape of one partial
type waveform int

const (
	sineWave waveform = iota
	squareWave
)

// partial is one enveloped tone inside a cue
type partial struct {
	freq    float64
	wave    waveform
	offset  time.Duration // silence before the tone
	length  time.Duration
	attack  time.Duration
	release time.Duration
	gain    float64
}

// cueVoicing describes each synthesized cue as mixed partials
var cueVoicing = map[core.Cue][]partial{
	// Short square tick for navigation and toggles
	core.CueClick: {
		{freq: 1200, wave: squareWave, length: constants.ClickSoundDuration,
			attack: constants.ClickSoundAttack, release: constants.ClickSoundRelease, gain: 0.5},
	},
	// Rising C6-E6-G6 arpeggio for celebrations
	core.CueSuccess: {
		{freq: 1046.50, length: constants.SuccessNoteDuration,
			attack: constants.SuccessSoundAttack, release: constants.SuccessNoteRelease, gain: 1},
		{freq: 1318.51, offset: constants.SuccessNoteDuration, length: constants.SuccessNoteDuration,
			attack: constants.SuccessSoundAttack, release: constants.SuccessNoteRelease, gain: 1},
		{freq: 1567.98, offset: 2 * constants.SuccessNoteDuration, length: constants.SuccessLastDuration,
			attack: constants.SuccessSoundAttack, release: constants.SuccessLastRelease, gain: 1},
	},
	// A5 then E6 chime for welcome and alerts
	core.CueNotification: {
		{freq: 880, length: constants.NotificationSoundDuration,
			attack: constants.NotificationSoundAttack, release: constants.NotificationFirstRelease, gain: 0.6},
		{freq: 1318.51, offset: constants.NotificationSecondNoteDelay,
			length:  constants.NotificationSoundDuration - constants.NotificationSecondNoteDelay,
			attack:  constants.NotificationSoundAttack,
			release: constants.NotificationSecondRelease, gain: 0.4},
	},
}

// tone streams one partial with a linear attack and release
type tone struct {
	wave  waveform
	gain  float64
	step  float64 // phase increment per sample
	phase float64

	pos, total, attack, release int
}

func newTone(p partial, rate beep.SampleRate) *tone {
	return &tone{
		wave:    p.wave,
		gain:    p.gain,
		step:    p.freq / float64(rate),
		total:   rate.N(p.length),
		attack:  rate.N(p.attack),
		release: rate.N(p.release),
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for n < len(samples) && t.pos < t.total {
		v := t.gain * t.level() * t.sample()
		samples[n][0], samples[n][1] = v, v

		t.phase += t.step
		t.phase -= math.Floor(t.phase)
		t.pos++
		n++
	}
	return n, n > 0
}

func (t *tone) Err() error { return nil }

func (t *tone) sample() float64 {
	if t.wave == squareWave {
		if t.phase < 0.5 {
			return 1
		}
		return -1
	}
	return math.Sin(2 * math.Pi * t.phase)
}

// level is the envelope gain at the current position
func (t *tone) level() float64 {
	lvl := 1.0
	if t.attack > 0 && t.pos < t.attack {
		lvl = float64(t.pos) / float64(t.attack)
	}
	if left := t.total - t.pos; t.release > 0 && left < t.release {
		lvl = math.Min(lvl, float64(left)/float64(t.release))
	}
	return lvl
}

// newVolume wraps s with a linear gain
// math.Log2(0) is -Inf, so zero volume is rendered silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// SynthesizeCue returns the unity-gain stream for cue, nil for unknown cues
// Volume is applied at play time
func SynthesizeCue(cue core.Cue, rate beep.SampleRate) beep.Streamer {
	parts, ok := cueVoicing[cue]
	if !ok {
		return nil
	}
	streams := make([]beep.Streamer, 0, len(parts))
	for _, p := range parts {
		var s beep.Streamer = newTone(p, rate)
		if p.offset > 0 {
			s = beep.Seq(beep.Silence(rate.N(p.offset)), s)
		}
		streams = append(streams, s)
	}
	return beep.Mix(streams...)
}
