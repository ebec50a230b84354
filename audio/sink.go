package audio

import (
	"fmt"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/echolens/constants"
)

// Sink receives ready-to-play streams
// Play must not block; concurrent streams are mixed by the sink
type Sink interface {
	Play(s beep.Streamer) error
	Close()
}

// SpeakerSink plays through the process-wide beep speaker
type SpeakerSink struct {
	mu     sync.Mutex
	closed bool
}

// OpenSpeaker initializes the speaker at rate
// Returns ErrNoOutput when no device is available, e.g. on a headless host
func OpenSpeaker(rate beep.SampleRate) (*SpeakerSink, error) {
	if err := speaker.Init(rate, rate.N(constants.SpeakerBufferDuration)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoOutput, err)
	}
	return &SpeakerSink{}, nil
}

// Play hands s to the speaker mixer, returns immediately
func (s *SpeakerSink) Play(st beep.Streamer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrNoOutput
	}
	speaker.Play(st)
	return nil
}

// Close clears pending streams and releases the device
func (s *SpeakerSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	speaker.Clear()
	speaker.Close()
}

// NopSink discards every stream, used in silent mode
type NopSink struct{}

// Play implements Sink
func (NopSink) Play(beep.Streamer) error { return nil }

// Close implements Sink
func (NopSink) Close() {}
