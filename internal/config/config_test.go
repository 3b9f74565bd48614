package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/radarping/dsp/effects/spatial/hrtf"
	"github.com/cwbudde/radarping/internal/config"
	"github.com/cwbudde/radarping/internal/scene"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	require.NoError(t, config.Validate(cfg))

	assert.Equal(t, 44100, cfg.Audio.SampleRate)
	assert.Equal(t, 1024, cfg.Audio.FrameSize)
	assert.Equal(t, config.UIWindow, cfg.UI.Mode)
	assert.Equal(t, scene.DefaultRadar(), cfg.RadarSettings())

	att := cfg.Attention()
	want := scene.DefaultAttention()
	assert.Equal(t, want.MaxDistance, att.MaxDistance)
	assert.InDelta(t, want.MinSectorWidth, att.MinSectorWidth, 1e-12)
	assert.InDelta(t, want.MaxSectorWidth, att.MaxSectorWidth, 1e-12)
}

func TestLoadFromReaderEmptyYieldsDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := config.LoadFromReader(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadFromReaderOverrides(t *testing.T) {
	t.Parallel()
	yaml := `
log:
  level: debug
audio:
  sample_rate: 48000
  frame_size: 512
  interpolation: nearest
scene:
  mapping: screen-plane
  depth: 250
ui:
  mode: headless
`
	cfg, err := config.LoadFromReader(strings.NewReader(yaml))
	require.NoError(t, err)

	assert.Equal(t, logrus.DebugLevel, cfg.Log.Level.Level())
	assert.Equal(t, 48000, cfg.Audio.SampleRate)
	assert.Equal(t, 512, cfg.Audio.FrameSize)
	assert.Equal(t, hrtf.InterpolationNearest, cfg.InterpolationMode())
	assert.Equal(t, scene.Mapper{Mode: scene.ScreenPlane, Depth: 250}, cfg.Mapper())
	assert.Equal(t, config.UIHeadless, cfg.UI.Mode)
	// Untouched sections keep their defaults.
	assert.Equal(t, 600.0, cfg.Radar.MaxRadius)
	assert.Equal(t, 1.0, cfg.Audio.Volume)
}

func TestLoadFromReaderRejectsUnknownKeys(t *testing.T) {
	t.Parallel()
	_, err := config.LoadFromReader(strings.NewReader("audio:\n  samplerate: 48000\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "samplerate")
}

func TestValidateReportsAllProblems(t *testing.T) {
	t.Parallel()
	yaml := `
log:
  level: loud
audio:
  sample_rate: 100
  spatial_blend: 2
  interpolation: cubic
scene:
  mapping: isometric
  max_distance: 0
radar:
  speed: 0
ui:
  mode: vr
  tps: 0
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	require.Error(t, err)

	for _, want := range []string{
		"log.level", "sample rate", "audio.spatial_blend", "audio.interpolation",
		"scene.mapping", "max distance", "radar speed", "ui.mode", "ui.tps",
	} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "radarping.yaml")
	require.NoError(t, os.WriteFile(path, []byte("radar:\n  alpha_ceiling: 80\n  fade: false\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 80.0, cfg.Radar.AlphaCeiling)
	assert.False(t, cfg.Radar.Fade)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLogLevelFallback(t *testing.T) {
	t.Parallel()
	assert.Equal(t, logrus.InfoLevel, config.LogLevel("nonsense").Level())
	assert.True(t, config.LogLevel("warn").IsValid())
	assert.False(t, config.LogLevel("nonsense").IsValid())
}
