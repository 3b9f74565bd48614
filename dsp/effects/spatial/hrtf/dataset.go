package hrtf

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDataset is returned when a dataset is malformed.
var ErrInvalidDataset = errors.New("hrtf: invalid dataset")

// Dataset holds HRIRs on a regular grid. Azimuths are uniformly spaced over
// the full circle starting at 0; elevations are ascending. The responses for
// azimuth index a and elevation index e live at index e*len(Azimuths)+a.
// Delays are in samples and are applied separately from the responses.
type Dataset struct {
	SampleRate int
	Azimuths   []float64
	Elevations []float64
	IRLen      int
	Left       [][]float64
	Right      [][]float64
	DelayLeft  []float64
	DelayRight []float64
}

// Provider supplies a dataset for a sample rate.
type Provider interface {
	Name() string
	Dataset(sampleRate int) (*Dataset, error)
}

// Validate checks grid layout and response dimensions.
func (d *Dataset) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: nil", ErrInvalidDataset)
	}
	if d.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidDataset, d.SampleRate)
	}
	if len(d.Azimuths) == 0 || len(d.Elevations) == 0 {
		return fmt.Errorf("%w: empty grid", ErrInvalidDataset)
	}
	if d.IRLen <= 0 {
		return fmt.Errorf("%w: response length %d", ErrInvalidDataset, d.IRLen)
	}

	step := 2 * math.Pi / float64(len(d.Azimuths))
	for i, az := range d.Azimuths {
		if math.Abs(az-float64(i)*step) > 1e-9 {
			return fmt.Errorf("%w: azimuth %d is %.6f, want %.6f", ErrInvalidDataset, i, az, float64(i)*step)
		}
	}
	for i := 1; i < len(d.Elevations); i++ {
		if d.Elevations[i] <= d.Elevations[i-1] {
			return fmt.Errorf("%w: elevations not ascending at %d", ErrInvalidDataset, i)
		}
	}

	n := len(d.Azimuths) * len(d.Elevations)
	if len(d.Left) != n || len(d.Right) != n || len(d.DelayLeft) != n || len(d.DelayRight) != n {
		return fmt.Errorf("%w: want %d responses and delays per ear", ErrInvalidDataset, n)
	}
	for i := 0; i < n; i++ {
		if len(d.Left[i]) != d.IRLen || len(d.Right[i]) != d.IRLen {
			return fmt.Errorf("%w: response %d has wrong length", ErrInvalidDataset, i)
		}
		if d.DelayLeft[i] < 0 || d.DelayRight[i] < 0 {
			return fmt.Errorf("%w: negative delay at %d", ErrInvalidDataset, i)
		}
	}
	return nil
}

// MaxDelay returns the largest per-ear delay in samples.
func (d *Dataset) MaxDelay() float64 {
	m := 0.0
	for i := range d.DelayLeft {
		m = math.Max(m, math.Max(d.DelayLeft[i], d.DelayRight[i]))
	}
	return m
}

func (d *Dataset) index(az, el int) int {
	return el*len(d.Azimuths) + az
}

// scaled returns a deep copy of d with every response multiplied by gain.
func (d *Dataset) scaled(gain float64) *Dataset {
	c := &Dataset{
		SampleRate: d.SampleRate,
		Azimuths:   append([]float64(nil), d.Azimuths...),
		Elevations: append([]float64(nil), d.Elevations...),
		IRLen:      d.IRLen,
		Left:       make([][]float64, len(d.Left)),
		Right:      make([][]float64, len(d.Right)),
		DelayLeft:  append([]float64(nil), d.DelayLeft...),
		DelayRight: append([]float64(nil), d.DelayRight...),
	}
	for i := range d.Left {
		c.Left[i] = make([]float64, len(d.Left[i]))
		c.Right[i] = make([]float64, len(d.Right[i]))
		for j, v := range d.Left[i] {
			c.Left[i][j] = v * gain
		}
		for j, v := range d.Right[i] {
			c.Right[i][j] = v * gain
		}
	}
	return c
}
