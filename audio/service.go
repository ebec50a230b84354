package audio

import (
	"github.com/gopxl/beep"
	"go.uber.org/zap"

	"github.com/lixenwraith/echolens/core"
)

// AudioService wraps Player as a Service
// Handles graceful degradation when no audio device is available
type AudioService struct {
	cfg    *Config
	logger *zap.Logger

	// openSink is replaceable for headless tests
	openSink func(beep.SampleRate) (Sink, error)

	player *Player
	silent bool
}

// NewService creates a new audio service
func NewService(cfg *Config, logger *zap.Logger) *AudioService {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AudioService{
		cfg:    cfg,
		logger: logger,
		openSink: func(rate beep.SampleRate) (Sink, error) {
			return OpenSpeaker(rate)
		},
	}
}

// WithSink replaces the speaker with a fixed sink, must be called before Init
func (s *AudioService) WithSink(sink Sink) *AudioService {
	s.openSink = func(beep.SampleRate) (Sink, error) { return sink, nil }
	return s
}

// Name implements Service
func (s *AudioService) Name() string {
	return "audio"
}

// Dependencies implements Service
func (s *AudioService) Dependencies() []string {
	return nil
}

// Init implements Service
// args[0]: bool - initial mute state, overrides config
// A missing output device selects silent mode, no error is returned
func (s *AudioService) Init(args ...any) error {
	if len(args) > 0 {
		if muted, ok := args[0].(bool); ok {
			s.cfg.Enabled = !muted
		}
	}

	sink, err := s.openSink(beep.SampleRate(s.cfg.SampleRate))
	if err != nil {
		s.logger.Warn("audio output unavailable, continuing in silent mode", zap.Error(err))
		sink = NopSink{}
		s.silent = true
	}
	s.player = NewPlayer(s.cfg, sink, s.logger)
	return nil
}

// Start implements Service, warming every known cue
func (s *AudioService) Start() error {
	if s.player == nil {
		return nil
	}
	s.player.Preload(core.Cues...)
	return nil
}

// Stop implements Service
func (s *AudioService) Stop() error {
	if s.player != nil {
		s.player.Close()
	}
	return nil
}

// IsSilent reports whether no output device was found
func (s *AudioService) IsSilent() bool {
	return s.silent
}

// Player returns the cue player, nil before Init
func (s *AudioService) Player() *Player {
	return s.player
}
