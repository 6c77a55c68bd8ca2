// Package config handles pocketcube configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/SeamusWaldron/pocketcube"
)

// Config holds all settings.
type Config struct {
	Animation AnimationConfig `yaml:"animation"`
	Scramble  ScrambleConfig  `yaml:"scramble"`
	Playback  PlaybackConfig  `yaml:"playback"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// AnimationConfig holds interpolation and frame timing settings.
type AnimationConfig struct {
	StepAlpha         float64       `yaml:"step_alpha"`
	PlaybackStepAlpha float64       `yaml:"playback_step_alpha"`
	SettleEpsilon     float64       `yaml:"settle_epsilon"`
	RestEpsilon       float64       `yaml:"rest_epsilon"`
	FrameInterval     time.Duration `yaml:"frame_interval"`
	FramesPerTick     int           `yaml:"frames_per_tick"`
}

// ScrambleConfig holds scramble generation settings.
type ScrambleConfig struct {
	Length int   `yaml:"length"`
	Seed   int64 `yaml:"seed"` // 0 seeds from the clock
}

// PlaybackConfig holds playback settings.
type PlaybackConfig struct {
	Mode string `yaml:"mode"` // undo or replay
}

// StorageConfig holds session persistence settings.
type StorageConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"` // empty uses the default location
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Animation: AnimationConfig{
			StepAlpha:         pocketcube.DefaultStepAlpha,
			PlaybackStepAlpha: pocketcube.DefaultPlaybackStepAlpha,
			SettleEpsilon:     pocketcube.SettleEpsilon,
			RestEpsilon:       pocketcube.RestEpsilon,
			FrameInterval:     16 * time.Millisecond,
			FramesPerTick:     1,
		},
		Scramble: ScrambleConfig{
			Length: 20,
		},
		Playback: PlaybackConfig{
			Mode: "undo",
		},
		Storage: StorageConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validation errors.
var (
	ErrInvalidAlpha   = errors.New("config: interpolation factor must be in (0, 1)")
	ErrInvalidEpsilon = errors.New("config: convergence threshold must be positive")
	ErrInvalidValue   = errors.New("config: invalid value")
)

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	a := c.Animation
	if a.StepAlpha <= 0 || a.StepAlpha >= 1 {
		return fmt.Errorf("animation.step_alpha %v: %w", a.StepAlpha, ErrInvalidAlpha)
	}
	if a.PlaybackStepAlpha < 0 || a.PlaybackStepAlpha >= 1 {
		return fmt.Errorf("animation.playback_step_alpha %v: %w", a.PlaybackStepAlpha, ErrInvalidAlpha)
	}
	if a.SettleEpsilon <= 0 {
		return fmt.Errorf("animation.settle_epsilon %v: %w", a.SettleEpsilon, ErrInvalidEpsilon)
	}
	if a.RestEpsilon <= 0 {
		return fmt.Errorf("animation.rest_epsilon %v: %w", a.RestEpsilon, ErrInvalidEpsilon)
	}
	if a.FrameInterval <= 0 {
		return fmt.Errorf("animation.frame_interval %v: %w", a.FrameInterval, ErrInvalidValue)
	}
	if a.FramesPerTick < 1 {
		return fmt.Errorf("animation.frames_per_tick %d: %w", a.FramesPerTick, ErrInvalidValue)
	}
	if c.Scramble.Length < 0 {
		return fmt.Errorf("scramble.length %d: %w", c.Scramble.Length, ErrInvalidValue)
	}
	if _, ok := pocketcube.ParsePlaybackMode(c.Playback.Mode); !ok {
		return fmt.Errorf("playback.mode %q: %w", c.Playback.Mode, ErrInvalidValue)
	}
	return nil
}

// EngineOptions converts the animation, scramble and playback settings into
// engine options.
func (c *Config) EngineOptions(log *zap.Logger) []pocketcube.Option {
	mode, _ := pocketcube.ParsePlaybackMode(c.Playback.Mode)
	opts := []pocketcube.Option{
		pocketcube.WithStepAlpha(c.Animation.StepAlpha),
		pocketcube.WithPlaybackStepAlpha(c.Animation.PlaybackStepAlpha),
		pocketcube.WithSettleEpsilon(c.Animation.SettleEpsilon),
		pocketcube.WithRestEpsilon(c.Animation.RestEpsilon),
		pocketcube.WithPlaybackMode(mode),
		pocketcube.WithLogger(log),
	}
	if c.Scramble.Seed != 0 {
		opts = append(opts, pocketcube.WithSeed(c.Scramble.Seed))
	}
	return opts
}
