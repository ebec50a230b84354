package audio

import (
	"errors"
	"testing"

	"github.com/lixenwraith/echolens/core"
)

// TestDefaultConfig verifies default configuration
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("Expected non-nil default config")
	}
	if !cfg.Enabled {
		t.Error("Expected default config to have Enabled=true")
	}
	if cfg.MasterVolume != 0.7 {
		t.Errorf("Expected default master volume 0.7, got %f", cfg.MasterVolume)
	}
	if cfg.SampleRate != 44100 {
		t.Errorf("Expected default sample rate 44100, got %d", cfg.SampleRate)
	}
	if !cfg.Synthesize {
		t.Error("Expected synthesis fallback by default")
	}

	// Every cue carries a volume
	for _, cue := range core.Cues {
		if _, ok := cfg.CueVolumes[cue]; !ok {
			t.Errorf("Missing default volume for %s", cue)
		}
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config invalid: %v", err)
	}
}

// TestConfigVolume verifies master and per-cue scaling
func TestConfigVolume(t *testing.T) {
	cfg := &Config{
		MasterVolume: 0.5,
		CueVolumes:   map[core.Cue]float64{core.CueClick: 0.4},
	}

	if got := cfg.Volume(core.CueClick); got != 0.2 {
		t.Errorf("Expected click volume 0.2, got %f", got)
	}
	// Missing entries play at unity
	if got := cfg.Volume(core.CueSuccess); got != 0.5 {
		t.Errorf("Expected success volume 0.5, got %f", got)
	}
}

// TestConfigValidate verifies range checks
func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"master too loud", func(c *Config) { c.MasterVolume = 1.5 }, ErrInvalidVolume},
		{"master negative", func(c *Config) { c.MasterVolume = -0.1 }, ErrInvalidVolume},
		{"cue too loud", func(c *Config) { c.CueVolumes[core.CueSuccess] = 2 }, ErrInvalidVolume},
		{"unknown cue", func(c *Config) { c.CueVolumes["fanfare"] = 0.5 }, ErrUnknownCue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.SampleRate = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for zero sample rate")
	}
}
