package resample

import (
	"fmt"
	"math"

	"github.com/cwbudde/radarping/dsp/window"
)

// design returns a Kaiser-windowed sinc low-pass for the up-sampled grid
// of an up/down conversion. The length is odd so the delay is a whole
// number of grid samples, and the DC gain is up to undo the zero
// stuffing.
func design(up, down int, p filterParams) ([]float64, error) {
	n := p.tapsPerPhase*up | 1
	fc := 0.5 / float64(max(up, down)) * p.cutoffScale

	taps, err := window.Kaiser(n, p.kaiserBeta)
	if err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}

	center := float64(n-1) / 2
	var sum float64
	for i := range taps {
		taps[i] *= 2 * fc * sinc(2*fc*(float64(i)-center))
		sum += taps[i]
	}
	if sum == 0 {
		return nil, fmt.Errorf("resample: zero-gain prototype for %d/%d", up, down)
	}

	scale := float64(up) / sum
	for i := range taps {
		taps[i] *= scale
	}
	return taps, nil
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}
	return math.Sin(math.Pi*x) / (math.Pi * x)
}
