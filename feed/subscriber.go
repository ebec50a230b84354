package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lixenwraith/echolens/core"
)

// RedisOptions addresses the broker
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

// Subscriber consumes Messages from a Redis channel
// Implements service.Service as "feed"
type Subscriber struct {
	opts    RedisOptions
	handler Handler
	logger  *zap.Logger

	client *redis.Client
	pubsub *redis.PubSub
	cancel context.CancelFunc
	wg     sync.WaitGroup

	received atomic.Int64
	dropped  atomic.Int64
	running  atomic.Bool
}

// NewSubscriber creates a subscriber delivering to handler
func NewSubscriber(opts RedisOptions, handler Handler, logger *zap.Logger) *Subscriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Subscriber{
		opts:    opts,
		handler: handler,
		logger:  logger.Named("feed"),
	}
}

// Name implements Service
func (s *Subscriber) Name() string {
	return "feed"
}

// Dependencies implements Service
func (s *Subscriber) Dependencies() []string {
	return nil
}

// Init implements Service
// args[0]: string - broker address, overrides options
func (s *Subscriber) Init(args ...any) error {
	if len(args) > 0 {
		if addr, ok := args[0].(string); ok && addr != "" {
			s.opts.Addr = addr
		}
	}
	if s.opts.Addr == "" {
		return errors.New("feed: redis address required")
	}
	if s.opts.Channel == "" {
		return errors.New("feed: channel required")
	}
	s.client = redis.NewClient(&redis.Options{
		Addr:     s.opts.Addr,
		Password: s.opts.Password,
		DB:       s.opts.DB,
	})
	return nil
}

// Start implements Service
// Blocks until the subscription is confirmed, then consumes in the background
func (s *Subscriber) Start() error {
	if s.client == nil {
		return errors.New("feed: not initialized")
	}
	ctx, cancel := context.WithCancel(context.Background())

	pubsub := s.client.Subscribe(ctx, s.opts.Channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		cancel()
		_ = pubsub.Close()
		return fmt.Errorf("feed: subscribe %s: %w", s.opts.Channel, err)
	}
	s.pubsub = pubsub
	s.cancel = cancel
	s.running.Store(true)

	msgs := pubsub.Channel()
	s.wg.Add(1)
	core.Go(func() {
		defer s.wg.Done()
		s.consume(ctx, msgs)
	})

	s.logger.Info("subscribed", zap.String("addr", s.opts.Addr), zap.String("channel", s.opts.Channel))
	return nil
}

// Stop implements Service
func (s *Subscriber) Stop() error {
	if !s.running.Swap(false) {
		if s.client != nil {
			err := s.client.Close()
			s.client = nil
			return err
		}
		return nil
	}
	s.cancel()
	_ = s.pubsub.Close()
	s.wg.Wait()

	err := s.client.Close()
	s.client = nil
	s.logger.Info("unsubscribed",
		zap.Int64("received", s.received.Load()),
		zap.Int64("dropped", s.dropped.Load()),
	)
	return err
}

// Received returns the number of delivered states
func (s *Subscriber) Received() int64 {
	return s.received.Load()
}

// Dropped returns the number of malformed messages discarded
func (s *Subscriber) Dropped() int64 {
	return s.dropped.Load()
}

func (s *Subscriber) consume(ctx context.Context, msgs <-chan *redis.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			s.deliver(msg.Payload)
		}
	}
}

func (s *Subscriber) deliver(payload string) {
	m, err := Decode([]byte(payload))
	if err != nil {
		s.dropped.Add(1)
		s.logger.Warn("dropping message", zap.Error(err))
		return
	}
	s.received.Add(1)
	s.logger.Debug("state received", zap.String("session", m.Session), zap.Stringer("state", m.EmotionalState))
	if s.handler != nil {
		s.handler(m.EmotionalState)
	}
}
