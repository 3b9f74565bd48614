package resample

import (
	"errors"
	"math"
)

// ErrInvalidRate indicates an invalid input/output sample rate.
var ErrInvalidRate = errors.New("resample: invalid sample rate")

// Quality selects the anti-aliasing filter.
type Quality int

const (
	// QualityFast uses short branches and a wide transition band.
	QualityFast Quality = iota
	// QualityBalanced is the default.
	QualityBalanced
	// QualityBest favours stopband attenuation over CPU.
	QualityBest
)

func (q Quality) String() string {
	switch q {
	case QualityFast:
		return "fast"
	case QualityBest:
		return "best"
	default:
		return "balanced"
	}
}

// filterParams are the prototype settings of a quality mode: taps per
// polyphase branch, cutoff relative to the narrower Nyquist, Kaiser beta.
type filterParams struct {
	tapsPerPhase int
	cutoffScale  float64
	kaiserBeta   float64
}

func (q Quality) params() filterParams {
	switch q {
	case QualityFast:
		return filterParams{tapsPerPhase: 16, cutoffScale: 0.88, kaiserBeta: 5}
	case QualityBest:
		return filterParams{tapsPerPhase: 64, cutoffScale: 0.96, kaiserBeta: 9}
	default:
		return filterParams{tapsPerPhase: 32, cutoffScale: 0.92, kaiserBeta: 7.5}
	}
}

type config struct {
	quality Quality
}

// Option configures Convert.
type Option func(*config)

// WithQuality selects the anti-aliasing filter.
func WithQuality(q Quality) Option {
	return func(cfg *config) {
		cfg.quality = q
	}
}

// Convert resamples a complete signal from inRate to outRate. The filter
// delay is removed so that output sample 0 lines up with input sample 0,
// and the result holds round(len(input)*outRate/inRate) samples. Equal
// rates return a copy of input.
func Convert(input []float64, inRate, outRate int, opts ...Option) ([]float64, error) {
	if inRate <= 0 || outRate <= 0 {
		return nil, ErrInvalidRate
	}
	if inRate == outRate {
		return append([]float64(nil), input...), nil
	}

	cfg := config{quality: QualityBalanced}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	g := gcd(inRate, outRate)
	up, down := outRate/g, inRate/g

	taps, err := design(up, down, cfg.quality.params())
	if err != nil {
		return nil, err
	}

	// Output m sits at m*down on the up-sampled grid. Only every up-th
	// grid point carries an input sample, so each output touches one
	// polyphase branch of taps.
	center := (len(taps) - 1) / 2
	n := int(math.Round(float64(len(input)) * float64(outRate) / float64(inRate)))
	out := make([]float64, n)
	for m := range out {
		pos := m*down + center
		var y float64
		for j := pos % up; j < len(taps); j += up {
			idx := (pos - j) / up
			if idx < 0 {
				break
			}
			if idx < len(input) {
				y += taps[j] * input[idx]
			}
		}
		out[m] = y
	}
	return out, nil
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
