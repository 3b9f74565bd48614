// Package signal generates deterministic test and cue signals.
package signal

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/cwbudde/radarping/dsp/core"
	"github.com/cwbudde/radarping/dsp/window"
)

// Generator creates deterministic signals from a shared configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return &Generator{
		cfg:  core.ApplyProcessorOptions(opts...),
		seed: 1,
	}
}

// NewGeneratorWithOptions creates a configured signal generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := NewGenerator(coreOpts...)
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("signal: sine samples must be > 0: %d", samples)
	}
	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("signal: sine sample rate must be > 0: %d", g.cfg.SampleRate)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / float64(g.cfg.SampleRate)
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("signal: noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("signal: noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// PingParams describes a sonar-style ping: a linear chirp from StartHz to
// EndHz with a linear attack and an exponential decay.
type PingParams struct {
	StartHz   float64
	EndHz     float64
	Duration  time.Duration
	Attack    time.Duration
	Decay     time.Duration // Time constant of the exponential decay
	Amplitude float64
}

// DefaultPing returns the built-in radar ping.
func DefaultPing() PingParams {
	return PingParams{
		StartHz:   1600,
		EndHz:     1100,
		Duration:  400 * time.Millisecond,
		Attack:    4 * time.Millisecond,
		Decay:     90 * time.Millisecond,
		Amplitude: 0.8,
	}
}

// Ping renders p. The last 5 ms are faded out so the ping ends on silence.
func (g *Generator) Ping(p PingParams) ([]float64, error) {
	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("signal: ping sample rate must be > 0: %d", g.cfg.SampleRate)
	}
	if p.Duration <= 0 || p.Decay <= 0 || p.Attack < 0 {
		return nil, fmt.Errorf("signal: invalid ping timing %v/%v/%v", p.Duration, p.Attack, p.Decay)
	}
	if p.StartHz <= 0 || p.EndHz <= 0 {
		return nil, fmt.Errorf("signal: ping frequencies must be > 0: %v, %v", p.StartHz, p.EndHz)
	}

	sr := float64(g.cfg.SampleRate)
	total := p.Duration.Seconds()
	n := int(math.Round(total * sr))
	if n <= 0 {
		return nil, fmt.Errorf("signal: ping shorter than one sample: %v", p.Duration)
	}

	attack := p.Attack.Seconds()
	tau := p.Decay.Seconds()
	sweep := (p.EndHz - p.StartHz) / total

	out := make([]float64, n)
	for i := range out {
		t := float64(i) / sr
		phase := 2 * math.Pi * (p.StartHz*t + 0.5*sweep*t*t)

		env := 1.0
		if t < attack {
			env = t / attack
		} else {
			env = math.Exp(-(t - attack) / tau)
		}
		out[i] = p.Amplitude * env * math.Sin(phase)
	}

	release := int(0.005 * sr)
	if release > n {
		release = n
	}
	_, fade := window.Ramps(release)
	tail := out[n-release:]
	for i := range tail {
		tail[i] *= fade[i]
	}

	return out, nil
}

// Peak returns the largest absolute sample value.
func Peak(data []float64) float64 {
	maxAbs := 0.0
	for _, v := range data {
		if av := math.Abs(v); av > maxAbs {
			maxAbs = av
		}
	}
	return maxAbs
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("signal: normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("signal: normalize input must not be empty")
	}

	maxAbs := Peak(data)

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}
