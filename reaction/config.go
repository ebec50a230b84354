package reaction

import (
	"time"

	"github.com/lixenwraith/echolens/constants"
	"github.com/lixenwraith/echolens/core"
)

// Config parameterizes the scheduler
// Zero fields fall back to defaults
type Config struct {
	Celebratory         []core.EmotionLabel `yaml:"celebratory"`
	CelebrationDuration time.Duration       `yaml:"celebration_duration"`
	SettleDelay         time.Duration       `yaml:"settle_delay"`

	// EffectDurations overrides the window length per kind, others use CelebrationDuration
	EffectDurations map[core.EffectKind]time.Duration `yaml:"effect_durations,omitempty"`

	CelebrationCue core.Cue `yaml:"celebration_cue"`
	NavigationCue  core.Cue `yaml:"navigation_cue"`
	WelcomeCue     core.Cue `yaml:"welcome_cue"`
}

// DefaultConfig returns the reference behavior
func DefaultConfig() Config {
	return Config{
		Celebratory:         []core.EmotionLabel{core.EmotionHappy, core.EmotionExcited, core.EmotionContent},
		CelebrationDuration: constants.CelebrationDuration,
		SettleDelay:         constants.SettleDelay,
		CelebrationCue:      core.CueSuccess,
		NavigationCue:       core.CueClick,
		WelcomeCue:          core.CueNotification,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Celebratory == nil {
		c.Celebratory = d.Celebratory
	}
	if c.CelebrationDuration <= 0 {
		c.CelebrationDuration = d.CelebrationDuration
	}
	if c.SettleDelay <= 0 {
		c.SettleDelay = d.SettleDelay
	}
	if c.CelebrationCue == "" {
		c.CelebrationCue = d.CelebrationCue
	}
	if c.NavigationCue == "" {
		c.NavigationCue = d.NavigationCue
	}
	if c.WelcomeCue == "" {
		c.WelcomeCue = d.WelcomeCue
	}
	return c
}

// durationFor returns the window length of kind, intensity does not modulate it
func (c Config) durationFor(kind core.EffectKind) time.Duration {
	if d := c.EffectDurations[kind]; d > 0 {
		return d
	}
	return c.CelebrationDuration
}
