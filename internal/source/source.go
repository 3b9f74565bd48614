// Package source produces the mono sample buffer the demo spatializes on
// every trigger: the built-in ping or a decoded MP3/FLAC asset.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/radarping/dsp/buffer"
	"github.com/cwbudde/radarping/dsp/core"
	"github.com/cwbudde/radarping/dsp/resample"
	"github.com/cwbudde/radarping/dsp/signal"
	"github.com/sirupsen/logrus"
)

// DefaultPeak is the peak level assets are normalized to.
const DefaultPeak = 0.8

// Ping renders the built-in radar ping at sampleRate.
func Ping(sampleRate int) (*buffer.Buffer, error) {
	g := signal.NewGenerator(core.WithSampleRate(sampleRate))
	x, err := g.Ping(signal.DefaultPing())
	if err != nil {
		return nil, err
	}
	return buffer.FromMono(x, sampleRate), nil
}

// Load returns the source for path at sampleRate. An empty path selects
// the built-in ping. Files are chosen by extension (.mp3, .flac).
func Load(path string, sampleRate int, logger logrus.FieldLogger) (*buffer.Buffer, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	log := logger.WithFields(logrus.Fields{"function": "Load", "path": path})

	if path == "" {
		buf, err := Ping(sampleRate)
		if err != nil {
			return nil, err
		}
		log.WithField("samples", buf.Len()).Debug("using built-in ping")
		return buf, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: open %q: %w", path, err)
	}
	defer f.Close()

	var decoded *buffer.Buffer
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		decoded, err = DecodeMP3(f)
	case ".flac":
		decoded, err = DecodeFLAC(f)
	default:
		return nil, fmt.Errorf("source: unsupported file type %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("source: decode %q: %w", path, err)
	}

	out, err := Prepare(decoded, sampleRate, DefaultPeak)
	if err != nil {
		return nil, fmt.Errorf("source: prepare %q: %w", path, err)
	}
	log.WithFields(logrus.Fields{
		"decoded_rate":     decoded.SampleRate(),
		"decoded_channels": decoded.Channels(),
		"samples":          out.Len(),
		"duration":         out.Duration(),
	}).Info("source loaded")
	return out, nil
}

// Prepare downmixes buf to mono, normalizes it to peak and resamples it
// to sampleRate.
func Prepare(buf *buffer.Buffer, sampleRate int, peak float64) (*buffer.Buffer, error) {
	mono, err := buffer.Downmix(nil, buf.Samples(), buf.Channels())
	if err != nil {
		return nil, err
	}
	mono, err = signal.Normalize(mono, peak)
	if err != nil {
		return nil, err
	}
	out, err := resample.Convert(mono, buf.SampleRate(), sampleRate, resample.WithQuality(resample.QualityBest))
	if err != nil {
		return nil, err
	}
	return buffer.FromMono(out, sampleRate), nil
}
