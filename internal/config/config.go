// Package config handles meshgen configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/surfmesh/internal/engine/water"
)

// Height source names.
const (
	SourceFlat  = "flat"
	SourceWaves = "waves"
	SourceTable = "table"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all meshgen settings.
type Config struct {
	Heightfield HeightfieldConfig `yaml:"heightfield" toml:"heightfield"`
	Waves       []water.Wave      `yaml:"waves" toml:"waves"`
	Table       TableConfig       `yaml:"table" toml:"table"`
	Placement   PlacementConfig   `yaml:"placement" toml:"placement"`
	Animation   AnimationConfig   `yaml:"animation" toml:"animation"`
	Watch       WatchConfig       `yaml:"watch" toml:"watch"`
	Logging     LoggingConfig     `yaml:"logging" toml:"logging"`
}

// HeightfieldConfig holds grid generation settings.
type HeightfieldConfig struct {
	XRes       int     `yaml:"x_res" toml:"x_res"`
	ZRes       int     `yaml:"z_res" toml:"z_res"`
	Workers    int     `yaml:"workers" toml:"workers"`
	Source     string  `yaml:"source" toml:"source"` // flat, waves or table
	FlatHeight float32 `yaml:"flat_height" toml:"flat_height"`
}

// TableConfig points at a height table file for the "table" source.
type TableConfig struct {
	Path  string  `yaml:"path" toml:"path"`
	Scale float32 `yaml:"scale" toml:"scale"`
}

// PlacementConfig positions generated geometry in the world.
type PlacementConfig struct {
	Position [3]float32 `yaml:"position" toml:"position"`
	Axis     [3]float32 `yaml:"axis" toml:"axis"`
	AngleDeg float32    `yaml:"angle_deg" toml:"angle_deg"`
	Scale    [3]float32 `yaml:"scale" toml:"scale"`
}

// AnimationConfig holds settings for animated height fields.
type AnimationConfig struct {
	FrameRate float32 `yaml:"frame_rate" toml:"frame_rate"`
	Frames    int     `yaml:"frames" toml:"frames"`
}

// WatchConfig holds file watching settings.
type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms" toml:"debounce_ms"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Heightfield: HeightfieldConfig{
			XRes:       160,
			ZRes:       160,
			Workers:    1,
			Source:     SourceWaves,
			FlatHeight: 0,
		},
		Waves: water.DefaultWaves(),
		Table: TableConfig{
			Scale: 1,
		},
		Placement: PlacementConfig{
			Axis:  [3]float32{0, 1, 0},
			Scale: [3]float32{1, 1, 1},
		},
		Animation: AnimationConfig{
			FrameRate: 30,
			Frames:    60,
		},
		Watch: WatchConfig{
			DebounceMS: 200,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks settings that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	hf := c.Heightfield
	if hf.XRes < 2 || hf.ZRes < 2 {
		return fmt.Errorf("%w: heightfield resolution %dx%d, need at least 2x2", ErrInvalidConfig, hf.XRes, hf.ZRes)
	}
	if hf.Workers < 0 {
		return fmt.Errorf("%w: negative worker count %d", ErrInvalidConfig, hf.Workers)
	}

	switch hf.Source {
	case SourceFlat, SourceWaves:
	case SourceTable:
		if c.Table.Path == "" {
			return fmt.Errorf("%w: source %q needs table.path", ErrInvalidConfig, hf.Source)
		}
	default:
		return fmt.Errorf("%w: unknown height source %q", ErrInvalidConfig, hf.Source)
	}

	if c.Animation.FrameRate <= 0 {
		return fmt.Errorf("%w: frame rate %v", ErrInvalidConfig, c.Animation.FrameRate)
	}
	if c.Animation.Frames < 0 {
		return fmt.Errorf("%w: negative frame count %d", ErrInvalidConfig, c.Animation.Frames)
	}
	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("%w: negative debounce %d", ErrInvalidConfig, c.Watch.DebounceMS)
	}

	for i, s := range c.Placement.Scale {
		if s == 0 {
			return fmt.Errorf("%w: placement scale component %d is zero", ErrInvalidConfig, i)
		}
	}
	return nil
}
