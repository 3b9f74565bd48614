// Package config holds the radarping configuration file schema, its
// defaults and its validation.
package config

import (
	"math"

	"github.com/cwbudde/radarping/dsp/effects/spatial/hrtf"
	"github.com/cwbudde/radarping/internal/scene"
	"github.com/sirupsen/logrus"
)

// LogLevel is a logrus level name.
type LogLevel string

// IsValid reports whether l names a logrus level.
func (l LogLevel) IsValid() bool {
	_, err := logrus.ParseLevel(string(l))
	return err == nil
}

// Level returns the logrus level, falling back to info.
func (l LogLevel) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(string(l))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// UIMode selects the front-end.
type UIMode string

const (
	UIWindow   UIMode = "window"
	UITerminal UIMode = "term"
	UIHeadless UIMode = "headless"
)

// IsValid reports whether m is a known front-end.
func (m UIMode) IsValid() bool {
	switch m {
	case UIWindow, UITerminal, UIHeadless:
		return true
	}
	return false
}

// Config is the top-level configuration.
type Config struct {
	Log   LogConfig   `yaml:"log"`
	Audio AudioConfig `yaml:"audio"`
	Scene SceneConfig `yaml:"scene"`
	Radar RadarConfig `yaml:"radar"`
	UI    UIConfig    `yaml:"ui"`
}

// LogConfig configures logrus.
type LogConfig struct {
	Level LogLevel `yaml:"level"`
	// File receives log output when set. The window and terminal
	// front-ends default to radarping.log so logs do not garble the UI.
	File string `yaml:"file"`
	JSON bool   `yaml:"json"`
}

// AudioConfig configures the spatializer and playback.
type AudioConfig struct {
	SampleRate    int     `yaml:"sample_rate"`
	FrameSize     int     `yaml:"frame_size"`
	Source        string  `yaml:"source"` // MP3 or FLAC path; empty selects the built-in ping
	Volume        float64 `yaml:"volume"`
	Interpolation string  `yaml:"interpolation"`
	SpatialBlend  float64 `yaml:"spatial_blend"`
	QueueSize     int     `yaml:"queue_size"`
	Mute          bool    `yaml:"mute"`
}

// SceneConfig configures the actor, the field and the attention cone.
type SceneConfig struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	MovementSpeed float64 `yaml:"movement_speed"`
	MinRadius     float64 `yaml:"min_radius"`
	MaxRadius     float64 `yaml:"max_radius"`
	MaxDistance   float64 `yaml:"max_distance"`
	MinSectorDeg  float64 `yaml:"min_sector_deg"`
	MaxSectorDeg  float64 `yaml:"max_sector_deg"`
	FocusSegments int     `yaml:"focus_segments"`
	Mapping       string  `yaml:"mapping"`
	Depth         float64 `yaml:"depth"`
}

// RadarConfig configures the pulse ring.
type RadarConfig struct {
	Speed        float64 `yaml:"speed"`
	MinRadius    float64 `yaml:"min_radius"`
	MaxRadius    float64 `yaml:"max_radius"`
	AlphaCeiling float64 `yaml:"alpha_ceiling"`
	Fade         bool    `yaml:"fade"`
}

// UIConfig configures the front-end loop.
type UIConfig struct {
	Mode        UIMode  `yaml:"mode"`
	TPS         int     `yaml:"tps"`
	FPSInterval float64 `yaml:"fps_interval"`
}

// Default returns the demo's stock configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Audio: AudioConfig{
			SampleRate:    44100,
			FrameSize:     1024,
			Volume:        1,
			Interpolation: hrtf.InterpolationBilinear.String(),
			SpatialBlend:  1,
			QueueSize:     4,
		},
		Scene: SceneConfig{
			Width:         1920,
			Height:        1080,
			MovementSpeed: 300,
			MinRadius:     60,
			MaxRadius:     1000,
			MaxDistance:   800,
			MinSectorDeg:  5,
			MaxSectorDeg:  240,
			FocusSegments: 100,
			Mapping:       scene.TopDown.String(),
			Depth:         400,
		},
		Radar: RadarConfig{
			Speed:        1500,
			MinRadius:    10,
			MaxRadius:    600,
			AlphaCeiling: 30,
			Fade:         true,
		},
		UI: UIConfig{
			Mode:        UIWindow,
			TPS:         144,
			FPSInterval: 0.2,
		},
	}
}

// Attention returns the cone limits with angles in radians.
func (c *Config) Attention() scene.AttentionConfig {
	return scene.AttentionConfig{
		MinRadius:      c.Scene.MinRadius,
		MaxRadius:      c.Scene.MaxRadius,
		MaxDistance:    c.Scene.MaxDistance,
		MinSectorWidth: c.Scene.MinSectorDeg * math.Pi / 180,
		MaxSectorWidth: c.Scene.MaxSectorDeg * math.Pi / 180,
	}
}

// RadarSettings returns the pulse ring parameters.
func (c *Config) RadarSettings() scene.RadarConfig {
	return scene.RadarConfig{
		Speed:        c.Radar.Speed,
		MinRadius:    c.Radar.MinRadius,
		MaxRadius:    c.Radar.MaxRadius,
		AlphaCeiling: c.Radar.AlphaCeiling,
		Fade:         c.Radar.Fade,
	}
}

// Mapper returns the pointer-to-direction mapping. Validate guarantees
// the mapping name parses.
func (c *Config) Mapper() scene.Mapper {
	mode, _ := scene.ParseDirectionMapping(c.Scene.Mapping)
	return scene.Mapper{Mode: mode, Depth: c.Scene.Depth}
}

// InterpolationMode returns the HRTF interpolation. Validate guarantees
// the name parses.
func (c *Config) InterpolationMode() hrtf.Interpolation {
	mode, _ := hrtf.ParseInterpolation(c.Audio.Interpolation)
	return mode
}
