package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/radarping/dsp/core"
	"github.com/cwbudde/radarping/dsp/effects/spatial/hrtf"
	"github.com/cwbudde/radarping/internal/scene"
	"gopkg.in/yaml.v3"
)

// Load reads the YAML file at path on top of Default and validates the
// result.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes YAML from r on top of Default. Unknown keys are
// rejected. An empty document yields the defaults.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Log.Level != "" && !cfg.Log.Level.IsValid() {
		errs = append(errs, fmt.Errorf("log.level %q is invalid; valid values: trace, debug, info, warn, error", cfg.Log.Level))
	}

	audio := core.ProcessorConfig{SampleRate: cfg.Audio.SampleRate, FrameSize: cfg.Audio.FrameSize}
	if err := audio.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("audio: %w", err))
	}
	if !(cfg.Audio.Volume > 0 && cfg.Audio.Volume <= 4) {
		errs = append(errs, fmt.Errorf("audio.volume %.2f is out of range (0, 4]", cfg.Audio.Volume))
	}
	if !(cfg.Audio.SpatialBlend >= 0 && cfg.Audio.SpatialBlend <= 1) {
		errs = append(errs, fmt.Errorf("audio.spatial_blend %.2f is out of range [0, 1]", cfg.Audio.SpatialBlend))
	}
	if _, err := hrtf.ParseInterpolation(cfg.Audio.Interpolation); err != nil {
		errs = append(errs, fmt.Errorf("audio.interpolation: %w", err))
	}
	if cfg.Audio.QueueSize < 1 {
		errs = append(errs, fmt.Errorf("audio.queue_size must be >= 1, got %d", cfg.Audio.QueueSize))
	}

	if !(cfg.Scene.Width > 0 && cfg.Scene.Height > 0) {
		errs = append(errs, fmt.Errorf("scene field %vx%v must be positive", cfg.Scene.Width, cfg.Scene.Height))
	}
	if cfg.Scene.MovementSpeed < 0 {
		errs = append(errs, fmt.Errorf("scene.movement_speed must be >= 0, got %v", cfg.Scene.MovementSpeed))
	}
	if cfg.Scene.FocusSegments < 3 {
		errs = append(errs, fmt.Errorf("scene.focus_segments must be >= 3, got %d", cfg.Scene.FocusSegments))
	}
	if _, err := scene.ParseDirectionMapping(cfg.Scene.Mapping); err != nil {
		errs = append(errs, fmt.Errorf("scene.mapping: %w", err))
	}
	if !(cfg.Scene.Depth > 0) {
		errs = append(errs, fmt.Errorf("scene.depth must be > 0, got %v", cfg.Scene.Depth))
	}
	if err := cfg.Attention().Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := cfg.RadarSettings().Validate(); err != nil {
		errs = append(errs, err)
	}

	if !cfg.UI.Mode.IsValid() {
		errs = append(errs, fmt.Errorf("ui.mode %q is invalid; valid values: window, term, headless", cfg.UI.Mode))
	}
	if cfg.UI.TPS < 1 || cfg.UI.TPS > 1000 {
		errs = append(errs, fmt.Errorf("ui.tps %d is out of range [1, 1000]", cfg.UI.TPS))
	}
	if !(cfg.UI.FPSInterval > 0) {
		errs = append(errs, fmt.Errorf("ui.fps_interval must be > 0, got %v", cfg.UI.FPSInterval))
	}

	return errors.Join(errs...)
}
