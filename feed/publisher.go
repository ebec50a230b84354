package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/lixenwraith/echolens/core"
)

// Publisher sends states to a Redis channel under one session id
type Publisher struct {
	client  *redis.Client
	channel string
	session string
}

// NewPublisher connects to opts.Addr, generating a fresh session id
func NewPublisher(opts RedisOptions) *Publisher {
	return &Publisher{
		client: redis.NewClient(&redis.Options{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		}),
		channel: opts.Channel,
		session: uuid.NewString(),
	}
}

// Session returns the id stamped on every message
func (p *Publisher) Session() string {
	return p.session
}

// Publish validates and sends state, returning the number of receivers
func (p *Publisher) Publish(ctx context.Context, state core.EmotionalState) (int64, error) {
	state = state.Normalize()
	if err := state.Validate(); err != nil {
		return 0, err
	}
	data, err := Encode(Message{Session: p.session, EmotionalState: state, At: time.Now().UTC()})
	if err != nil {
		return 0, err
	}
	n, err := p.client.Publish(ctx, p.channel, data).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to publish to %s: %w", p.channel, err)
	}
	return n, nil
}

// Close releases the connection pool
func (p *Publisher) Close() error {
	return p.client.Close()
}
