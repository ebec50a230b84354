// Package feed carries emotional-state updates from external producers
//
// Producers publish JSON Messages to a Redis pub/sub channel; the Subscriber
// decodes them and hands each validated state to a Handler. The Simulator
// stands in for the detection pipeline when no broker is configured.
package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lixenwraith/echolens/core"
)

// ErrMalformed is returned for payloads that are not a valid Message
var ErrMalformed = errors.New("malformed feed message")

// Handler receives decoded states, called from the feed goroutine
type Handler func(core.EmotionalState)

// Message is the wire form of one update
type Message struct {
	Session string `json:"session,omitempty"`
	core.EmotionalState
	At time.Time `json:"at,omitempty"`
}

// Encode renders m as JSON
func Encode(m Message) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	return data, nil
}

// Decode parses payload, normalizing and validating the carried state
func Decode(payload []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(payload, &m); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	m.EmotionalState = m.EmotionalState.Normalize()
	if err := m.EmotionalState.Validate(); err != nil {
		return Message{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return m, nil
}
