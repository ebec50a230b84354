package constants

import "time"

// Orchestration Timing
const (
	// TransitionDelay is the load phase between navigation and view resolution
	TransitionDelay = 1000 * time.Millisecond

	// CelebrationDuration is the lifetime of a celebration window after its last trigger
	CelebrationDuration = 3000 * time.Millisecond

	// SettleDelay is the startup phase before the welcome cue
	SettleDelay = 1500 * time.Millisecond

	// FrameUpdateInterval is the terminal redraw interval (~30 FPS)
	FrameUpdateInterval = 33 * time.Millisecond
)

// Engine Limits
const (
	// LoopQueueSize is the task buffer of the engine loop
	LoopQueueSize = 256
)

// Producer Defaults
const (
	// RedisChannel is the pub/sub channel carrying emotional-state updates
	RedisChannel = "echolens:emotion"

	// SimulationInterval is the cadence of the simulated detection pipeline
	SimulationInterval = 2 * time.Second
)
