// Package config loads echolens settings from YAML with environment overrides
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/echolens/audio"
	"github.com/lixenwraith/echolens/constants"
	"github.com/lixenwraith/echolens/core"
	"github.com/lixenwraith/echolens/reaction"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "ECHOLENS_"

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all echolens configuration
type Config struct {
	Audio    audio.Config    `yaml:"audio"`
	Routes   RoutesConfig    `yaml:"routes"`
	Reaction reaction.Config `yaml:"reaction"`
	Feed     FeedConfig      `yaml:"feed"`
	Logging  LoggingConfig   `yaml:"logging"`
}

// RoutesConfig configures the route transition tracker
type RoutesConfig struct {
	// TransitionDelay is the simulated load phase; a real producer may complete earlier
	TransitionDelay time.Duration `yaml:"transition_delay"`
}

// FeedConfig configures emotional-state producers
type FeedConfig struct {
	// RedisAddr enables the Redis subscriber when non-empty
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	Channel       string `yaml:"channel"`

	// SimulationInterval is the cadence of the simulated detection pipeline
	SimulationInterval time.Duration `yaml:"simulation_interval"`
}

// LoggingConfig configures zap
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
	File        string `yaml:"file"` // empty logs to stderr
}

// Default returns the reference configuration
func Default() *Config {
	return &Config{
		Audio:    *audio.DefaultConfig(),
		Routes:   RoutesConfig{TransitionDelay: constants.TransitionDelay},
		Reaction: reaction.DefaultConfig(),
		Feed: FeedConfig{
			Channel:            constants.RedisChannel,
			SimulationInterval: constants.SimulationInterval,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path over the defaults, then applies environment overrides
// An empty path skips the file
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from ECHOLENS_* variables
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(EnvPrefix + key)
		return v, ok && v != ""
	}

	if v, ok := get("AUDIO_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %sAUDIO_ENABLED: %v", ErrInvalidConfig, EnvPrefix, err)
		}
		c.Audio.Enabled = b
	}

	// 0-100 converted to 0.0-1.0, clamped
	if v, ok := get("MASTER_VOLUME"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sMASTER_VOLUME: %v", ErrInvalidConfig, EnvPrefix, err)
		}
		c.Audio.MasterVolume = min(max(float64(n)/100.0, 0), 1)
	}

	if v, ok := get("ASSET_DIR"); ok {
		c.Audio.AssetDir = v
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"TRANSITION_DELAY", &c.Routes.TransitionDelay},
		{"CELEBRATION_DURATION", &c.Reaction.CelebrationDuration},
		{"SETTLE_DELAY", &c.Reaction.SettleDelay},
		{"SIMULATION_INTERVAL", &c.Feed.SimulationInterval},
	}
	for _, d := range durations {
		v, ok := get(d.key)
		if !ok {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s%s: %v", ErrInvalidConfig, EnvPrefix, d.key, err)
		}
		*d.dst = parsed
	}

	if v, ok := get("REDIS_ADDR"); ok {
		c.Feed.RedisAddr = v
	}
	if v, ok := get("REDIS_PASSWORD"); ok {
		c.Feed.RedisPassword = v
	}
	if v, ok := get("REDIS_CHANNEL"); ok {
		c.Feed.Channel = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.Logging.Level = v
	}
	if v, ok := get("LOG_FILE"); ok {
		c.Logging.File = v
	}
	return nil
}

// Validate rejects values the engine cannot run with
func (c *Config) Validate() error {
	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("%w: audio: %w", ErrInvalidConfig, err)
	}
	if c.Routes.TransitionDelay <= 0 {
		return fmt.Errorf("%w: routes.transition_delay must be positive", ErrInvalidConfig)
	}
	if c.Reaction.CelebrationDuration <= 0 {
		return fmt.Errorf("%w: reaction.celebration_duration must be positive", ErrInvalidConfig)
	}
	if c.Reaction.SettleDelay <= 0 {
		return fmt.Errorf("%w: reaction.settle_delay must be positive", ErrInvalidConfig)
	}
	for _, cue := range []struct {
		field string
		cue   core.Cue
	}{
		{"celebration_cue", c.Reaction.CelebrationCue},
		{"navigation_cue", c.Reaction.NavigationCue},
		{"welcome_cue", c.Reaction.WelcomeCue},
	} {
		if cue.cue == "" {
			continue
		}
		if !cue.cue.Known() {
			return fmt.Errorf("%w: reaction.%s %q is not a known cue", ErrInvalidConfig, cue.field, cue.cue)
		}
	}
	if c.Feed.SimulationInterval <= 0 {
		return fmt.Errorf("%w: feed.simulation_interval must be positive", ErrInvalidConfig)
	}
	if c.Feed.Channel == "" {
		return fmt.Errorf("%w: feed.channel must not be empty", ErrInvalidConfig)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: logging.level %q", ErrInvalidConfig, c.Logging.Level)
	}
	return nil
}

// Marshal renders the effective configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return out, nil
}
