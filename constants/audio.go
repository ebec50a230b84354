package constants

import "time"

// Audio Output
const (
	// SpeakerBufferDuration is the speaker ring buffer length, bounds cue latency
	SpeakerBufferDuration = 100 * time.Millisecond

	// DefaultSampleRate is the output sample rate in Hz
	DefaultSampleRate = 44100

	// ResampleQuality is the beep resampler quality used for decoded assets
	ResampleQuality = 4
)

// Click Sound Timing
const (
	ClickSoundDuration = 40 * time.Millisecond
	ClickSoundAttack   = 2 * time.Millisecond
	ClickSoundRelease  = 30 * time.Millisecond
)

// Success Sound Timing (three-note arpeggio)
const (
	SuccessNoteDuration = 90 * time.Millisecond
	SuccessLastDuration = 320 * time.Millisecond
	SuccessSoundAttack  = 5 * time.Millisecond
	SuccessNoteRelease  = 40 * time.Millisecond
	SuccessLastRelease  = 260 * time.Millisecond
)

// Notification Sound Timing (two-tone chime)
const (
	NotificationSoundDuration   = 500 * time.Millisecond
	NotificationSoundAttack     = 5 * time.Millisecond
	NotificationFirstRelease    = 180 * time.Millisecond
	NotificationSecondRelease   = 420 * time.Millisecond
	NotificationSecondNoteDelay = 120 * time.Millisecond
)
