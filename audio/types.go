package audio

import (
	"errors"
)

// cueState tracks the load phase of one cached cue
type cueState int

const (
	cueMissing cueState = iota // Never requested
	cueLoading                 // Async load in flight
	cueReady                   // Buffer available
	cueFailed                  // Asset unavailable, plays are no-ops
)

// Sentinel errors
var (
	ErrUnknownCue       = errors.New("unknown cue")
	ErrAssetUnavailable = errors.New("cue asset unavailable")
	ErrNoOutput         = errors.New("no audio output available")
	ErrInvalidVolume    = errors.New("volume out of range")
)
