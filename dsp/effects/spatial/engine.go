package spatial

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cwbudde/radarping/dsp/effects/spatial/hrtf"
	"github.com/sirupsen/logrus"
)

// Recorder receives engine telemetry.
type Recorder interface {
	RecordFrame(ctx context.Context, elapsed time.Duration)
	RecordInitFailure(ctx context.Context, stage string)
}

type nopRecorder struct{}

func (nopRecorder) RecordFrame(context.Context, time.Duration) {}
func (nopRecorder) RecordInitFailure(context.Context, string)  {}

// Option configures Initialize.
type Option func(*engineConfig) error

type engineConfig struct {
	logger        logrus.FieldLogger
	metrics       Recorder
	provider      hrtf.Provider
	volume        float64
	interpolation hrtf.Interpolation
	spatialBlend  float64
}

func defaultEngineConfig() engineConfig {
	return engineConfig{
		logger:        logrus.StandardLogger(),
		metrics:       nopRecorder{},
		volume:        1,
		interpolation: hrtf.InterpolationBilinear,
		spatialBlend:  1,
	}
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(cfg *engineConfig) error {
		if logger == nil {
			return fmt.Errorf("spatial: logger must not be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithMetrics sets the telemetry recorder.
func WithMetrics(r Recorder) Option {
	return func(cfg *engineConfig) error {
		if r == nil {
			return fmt.Errorf("spatial: recorder must not be nil")
		}
		cfg.metrics = r
		return nil
	}
}

// WithHRTFProvider replaces the default spherical-head model.
func WithHRTFProvider(p hrtf.Provider) Option {
	return func(cfg *engineConfig) error {
		if p == nil {
			return fmt.Errorf("spatial: hrtf provider must not be nil")
		}
		cfg.provider = p
		return nil
	}
}

// WithVolume scales the HRTF. It must be in (0, 4].
func WithVolume(v float64) Option {
	return func(cfg *engineConfig) error {
		if !(v > 0 && v <= 4) {
			return fmt.Errorf("spatial: volume must be in (0, 4]: %v", v)
		}
		cfg.volume = v
		return nil
	}
}

// WithInterpolation selects how responses between grid points are formed.
func WithInterpolation(mode hrtf.Interpolation) Option {
	return func(cfg *engineConfig) error {
		if mode != hrtf.InterpolationNearest && mode != hrtf.InterpolationBilinear {
			return fmt.Errorf("spatial: invalid interpolation: %d", mode)
		}
		cfg.interpolation = mode
		return nil
	}
}

// WithSpatialBlend sets the wet/dry mix in [0, 1].
func WithSpatialBlend(blend float64) Option {
	return func(cfg *engineConfig) error {
		if !(blend >= 0 && blend <= 1) {
			return fmt.Errorf("spatial: spatial blend must be in [0, 1]: %v", blend)
		}
		cfg.spatialBlend = blend
		return nil
	}
}

// stages builds the engine resources. Tests substitute failing stages.
type stages struct {
	context func(ContextSettings) (*Context, error)
	hrtf    func(*Context, AudioSettings, HRTFSettings) (*HRTF, error)
	effect  func(*HRTF, AudioSettings) (*BinauralEffect, error)
}

func defaultStages() stages {
	return stages{
		context: NewContext,
		hrtf:    NewHRTF,
		effect:  NewBinauralEffect,
	}
}

// Engine spatializes mono frames. All methods are safe for concurrent
// use; frames are processed one at a time.
type Engine struct {
	mu      sync.Mutex
	audio   AudioSettings
	ctx     *Context
	hrtf    *HRTF
	effect  *BinauralEffect
	params  EffectParams
	logger  logrus.FieldLogger
	metrics Recorder
	closed  bool
}

// Initialize builds a Context, an HRTF and a BinauralEffect for the
// given stream format. If a stage fails, the resources already built are
// released in reverse order and an *InitError is returned.
func Initialize(sampleRate, frameSize int, opts ...Option) (*Engine, error) {
	return initialize(defaultStages(), sampleRate, frameSize, opts...)
}

func initialize(st stages, sampleRate, frameSize int, opts ...Option) (*Engine, error) {
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	audio := AudioSettings{SampleRate: sampleRate, FrameSize: frameSize}
	log := cfg.logger.WithFields(logrus.Fields{
		"function":    "Initialize",
		"sample_rate": sampleRate,
		"frame_size":  frameSize,
	})

	fail := func(stage string, err error) (*Engine, error) {
		cfg.metrics.RecordInitFailure(context.Background(), stage)
		log.WithField("stage", stage).WithError(err).Warn("spatial engine initialization failed")
		return nil, &InitError{Stage: stage, Err: err}
	}

	if err := audio.validate(); err != nil {
		return fail(StageContext, err)
	}

	ctx, err := st.context(ContextSettings{Logger: cfg.logger})
	if err != nil {
		return fail(StageContext, err)
	}

	h, err := st.hrtf(ctx, audio, HRTFSettings{Provider: cfg.provider, Volume: cfg.volume})
	if err != nil {
		ctx.Release()
		return fail(StageHRTF, err)
	}

	effect, err := st.effect(h, audio)
	if err != nil {
		h.Release()
		ctx.Release()
		return fail(StageEffect, err)
	}

	e := &Engine{
		audio:  audio,
		ctx:    ctx,
		hrtf:   h,
		effect: effect,
		params: EffectParams{
			Interpolation: cfg.interpolation,
			SpatialBlend:  cfg.spatialBlend,
		},
		logger:  cfg.logger,
		metrics: cfg.metrics,
	}
	log.WithField("hrtf", h.Name()).Info("spatial engine initialized")
	return e, nil
}

// FrameSize returns the number of mono samples Apply expects.
func (e *Engine) FrameSize() int {
	return e.audio.FrameSize
}

// SampleRate returns the stream sample rate.
func (e *Engine) SampleRate() int {
	return e.audio.SampleRate
}

// Apply spatializes one mono frame toward direction and returns
// 2*FrameSize interleaved stereo samples.
func (e *Engine) Apply(direction Vector3, frame []float64) ([]float64, error) {
	if e == nil {
		return nil, ErrNotInitialized
	}
	out := make([]float64, 2*e.audio.FrameSize)
	if err := e.ApplyTo(out, direction, frame); err != nil {
		return nil, err
	}
	return out, nil
}

// ApplyTo is Apply writing into dst, which must hold 2*FrameSize samples.
func (e *Engine) ApplyTo(dst []float64, direction Vector3, frame []float64) error {
	if e == nil {
		return ErrNotInitialized
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyLocked(dst, direction, frame)
}

func (e *Engine) applyLocked(dst []float64, direction Vector3, frame []float64) error {
	if e.closed {
		return ErrShutdown
	}
	if len(frame) != e.audio.FrameSize {
		return fmt.Errorf("%w: got %d samples, want %d", ErrFrameSize, len(frame), e.audio.FrameSize)
	}

	start := time.Now()
	params := e.params
	params.Direction = direction
	if err := e.effect.Apply(params, frame, dst); err != nil {
		return err
	}
	e.metrics.RecordFrame(context.Background(), time.Since(start))
	return nil
}

// Reset clears the effect's internal state so the next frame is rendered
// as the start of a new stream.
func (e *Engine) Reset() error {
	if e == nil {
		return ErrNotInitialized
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrShutdown
	}
	e.effect.Reset()
	return nil
}

// Shutdown releases the effect, the HRTF and the context in that order.
// Calling it more than once, or on a nil Engine, is a no-op.
func (e *Engine) Shutdown() {
	if e == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true

	e.effect.Release()
	e.hrtf.Release()
	e.ctx.Release()

	e.logger.WithField("function", "Shutdown").Info("spatial engine shut down")
}

// Describe returns a one-line summary of the engine configuration.
func (e *Engine) Describe() string {
	if e == nil {
		return "spatial engine: not initialized"
	}
	p := e.hrtf.Profile()
	az, el := p.GridSize()
	return fmt.Sprintf("spatial engine: %d Hz, frame %d, hrtf %s (%dx%d grid, %d taps, max delay %.1f samples), %s interpolation, blend %.2f",
		e.audio.SampleRate, e.audio.FrameSize, e.hrtf.Name(), az, el, p.IRLen(), p.MaxDelay(),
		e.params.Interpolation, e.params.SpatialBlend)
}
