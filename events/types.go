package events

import (
	"time"
)

// EventType names a discrete orchestration transition
type EventType int

const (
	// EventEmotionUpdated signals a replaced emotional state
	// Trigger: store.Update | Payload: core.EmotionalState
	EventEmotionUpdated EventType = iota

	// EventRouteBegin signals Idle→Pending for a route
	// Trigger: route.Tracker.BeginTransition | Payload: core.RouteKey
	EventRouteBegin

	// EventRouteSettled signals Pending→Idle for a route
	// Trigger: transition timer or explicit completion | Payload: core.RouteKey
	EventRouteSettled

	// EventEffectStarted signals an effect window opening
	// Trigger: celebratory update with no active window | Payload: core.EffectKind
	EventEffectStarted

	// EventEffectExpired signals an effect window closing
	// Trigger: expiry timer of the current window | Payload: core.EffectKind
	EventEffectExpired

	// EventCueRequested signals a cue handed to the effect player; the player
	// may still skip it when muted or when its asset is unavailable
	// Payload: core.Cue
	EventCueRequested

	// EventReady signals the end of the startup settle phase, fires once
	// Payload: nil
	EventReady
)

// String returns the name of the event type for logs
func (e EventType) String() string {
	switch e {
	case EventEmotionUpdated:
		return "EmotionUpdated"
	case EventRouteBegin:
		return "RouteBegin"
	case EventRouteSettled:
		return "RouteSettled"
	case EventEffectStarted:
		return "EffectStarted"
	case EventEffectExpired:
		return "EffectExpired"
	case EventCueRequested:
		return "CueRequested"
	case EventReady:
		return "Ready"
	default:
		return "Unknown"
	}
}

// Event is an immutable record of one transition, carried on the journal feed
type Event struct {
	Type    EventType
	Time    time.Time
	Payload any
}
