package feed

import (
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/echolens/core"
)

var intensities = []core.IntensityLabel{core.IntensityLow, core.IntensityMedium, core.IntensityHigh}

// Simulator emits a random known emotion every interval
// Implements service.Service as "simulator"
type Simulator struct {
	interval time.Duration
	handler  Handler
	logger   *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand

	stop chan struct{}
	wg   sync.WaitGroup
}

// NewSimulator creates a simulator seeded with seed
func NewSimulator(interval time.Duration, seed uint64, handler Handler, logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{
		interval: interval,
		handler:  handler,
		logger:   logger.Named("simulator"),
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Next draws one state; sentiment follows the emotion
func (s *Simulator) Next() core.EmotionalState {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := core.KnownEmotions[s.rng.IntN(len(core.KnownEmotions))]
	return core.EmotionalState{
		Emotion:   e,
		Sentiment: core.SentimentFor(e),
		Intensity: intensities[s.rng.IntN(len(intensities))],
	}
}

// Name implements Service
func (s *Simulator) Name() string {
	return "simulator"
}

// Dependencies implements Service
func (s *Simulator) Dependencies() []string {
	return nil
}

// Init implements Service
// args[0]: time.Duration - interval, overrides constructor
func (s *Simulator) Init(args ...any) error {
	if len(args) > 0 {
		if d, ok := args[0].(time.Duration); ok && d > 0 {
			s.interval = d
		}
	}
	return nil
}

// Start implements Service
func (s *Simulator) Start() error {
	if s.stop != nil {
		return nil
	}
	s.stop = make(chan struct{})
	s.wg.Add(1)
	stop := s.stop
	core.Go(func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				state := s.Next()
				s.logger.Debug("simulated state", zap.Stringer("state", state))
				if s.handler != nil {
					s.handler(state)
				}
			}
		}
	})
	return nil
}

// Stop implements Service
func (s *Simulator) Stop() error {
	if s.stop == nil {
		return nil
	}
	close(s.stop)
	s.wg.Wait()
	s.stop = nil
	return nil
}
