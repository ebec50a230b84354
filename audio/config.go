package audio

import (
	"fmt"

	"github.com/lixenwraith/echolens/constants"
	"github.com/lixenwraith/echolens/core"
)

// Config controls cue output
type Config struct {
	// Enabled false starts the player muted
	Enabled bool `yaml:"enabled"`

	// MasterVolume scales every cue, 0.0-1.0
	MasterVolume float64 `yaml:"master_volume"`

	// CueVolumes scales individual cues, 0.0-1.0, missing entries play at 1.0
	CueVolumes map[core.Cue]float64 `yaml:"cue_volumes"`

	// SampleRate is the output rate in Hz
	SampleRate int `yaml:"sample_rate"`

	// AssetDir holds optional <cue>.wav overrides
	AssetDir string `yaml:"asset_dir"`

	// Synthesize falls back to generated tones when no asset file exists
	Synthesize bool `yaml:"synthesize"`
}

// DefaultConfig returns the default cue configuration
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		MasterVolume: 0.7,
		CueVolumes: map[core.Cue]float64{
			core.CueClick:        0.4,
			core.CueSuccess:      0.8,
			core.CueNotification: 0.7,
		},
		SampleRate: constants.DefaultSampleRate,
		Synthesize: true,
	}
}

// Volume returns the effective gain for cue
func (c *Config) Volume(cue core.Cue) float64 {
	v, ok := c.CueVolumes[cue]
	if !ok {
		v = 1.0
	}
	return v * c.MasterVolume
}

// Validate checks ranges
func (c *Config) Validate() error {
	if c.MasterVolume < 0 || c.MasterVolume > 1 {
		return fmt.Errorf("%w: master_volume %.2f", ErrInvalidVolume, c.MasterVolume)
	}
	for cue, v := range c.CueVolumes {
		if !cue.Known() {
			return fmt.Errorf("%w: %q", ErrUnknownCue, cue)
		}
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s %.2f", ErrInvalidVolume, cue, v)
		}
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("invalid sample_rate %d", c.SampleRate)
	}
	return nil
}
