package core

import "fmt"

// Accepted ranges for streaming configurations.
const (
	MinSampleRate = 8000
	MaxSampleRate = 192000
	MinFrameSize  = 16
	MaxFrameSize  = 8192
)

// ProcessorConfig defines common frame-based processing settings.
type ProcessorConfig struct {
	SampleRate int
	FrameSize  int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns the defaults used by the binaural renderer.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: 44100,
		FrameSize:  1024,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithFrameSize sets the number of samples per channel processed per call.
func WithFrameSize(frameSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if frameSize > 0 {
			cfg.FrameSize = frameSize
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Validate checks the config against the supported ranges.
func (c ProcessorConfig) Validate() error {
	if c.SampleRate < MinSampleRate || c.SampleRate > MaxSampleRate {
		return fmt.Errorf("core: sample rate %d outside [%d, %d]", c.SampleRate, MinSampleRate, MaxSampleRate)
	}
	if c.FrameSize < MinFrameSize || c.FrameSize > MaxFrameSize {
		return fmt.Errorf("core: frame size %d outside [%d, %d]", c.FrameSize, MinFrameSize, MaxFrameSize)
	}
	return nil
}
