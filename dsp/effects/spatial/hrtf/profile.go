package hrtf

import (
	"fmt"
	"math"

	"github.com/cwbudde/radarping/dsp/core"
)

// Interpolation selects how responses between grid points are formed.
type Interpolation int

const (
	// InterpolationNearest picks the closest grid point.
	InterpolationNearest Interpolation = iota
	// InterpolationBilinear blends the four surrounding grid points.
	InterpolationBilinear
)

// String returns the interpolation name.
func (i Interpolation) String() string {
	switch i {
	case InterpolationNearest:
		return "nearest"
	case InterpolationBilinear:
		return "bilinear"
	default:
		return fmt.Sprintf("Interpolation(%d)", int(i))
	}
}

// ParseInterpolation maps a name to an Interpolation.
func ParseInterpolation(name string) (Interpolation, error) {
	switch name {
	case "nearest":
		return InterpolationNearest, nil
	case "bilinear", "":
		return InterpolationBilinear, nil
	default:
		return 0, fmt.Errorf("hrtf: unknown interpolation %q", name)
	}
}

// Profile is an immutable, validated dataset with a gain applied. It is
// safe for concurrent lookups.
type Profile struct {
	ds     *Dataset
	volume float64
	azStep float64
}

// NewProfile validates ds and returns a profile over a copy of it with the
// responses scaled by volume. ds is left untouched.
func NewProfile(ds *Dataset, volume float64) (*Profile, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	if volume < 0 || math.IsNaN(volume) || math.IsInf(volume, 0) {
		return nil, fmt.Errorf("hrtf: volume must be >= 0 and finite: %f", volume)
	}
	own := ds.scaled(volume)
	return &Profile{
		ds:     own,
		volume: volume,
		azStep: 2 * math.Pi / float64(len(own.Azimuths)),
	}, nil
}

// SampleRate returns the dataset sample rate.
func (p *Profile) SampleRate() int {
	return p.ds.SampleRate
}

// IRLen returns the response length.
func (p *Profile) IRLen() int {
	return p.ds.IRLen
}

// Volume returns the applied gain.
func (p *Profile) Volume() float64 {
	return p.volume
}

// MaxDelay returns the largest per-ear delay in samples.
func (p *Profile) MaxDelay() float64 {
	return p.ds.MaxDelay()
}

// GridSize returns the number of azimuths and elevations.
func (p *Profile) GridSize() (azimuths, elevations int) {
	return len(p.ds.Azimuths), len(p.ds.Elevations)
}

type gridWeight struct {
	index  int
	weight float64
}

// Lookup writes the interpolated left and right responses for dir into
// left and right (IRLen samples each) and returns the per-ear delays in
// samples.
func (p *Profile) Lookup(dir Direction, mode Interpolation, left, right []float64) (delayLeft, delayRight float64, err error) {
	if len(left) != p.ds.IRLen || len(right) != p.ds.IRLen {
		return 0, 0, fmt.Errorf("hrtf: lookup buffers need %d samples, got %d and %d", p.ds.IRLen, len(left), len(right))
	}

	var weights [4]gridWeight
	n := p.neighbours(dir, mode, &weights)

	for i := range left {
		left[i] = 0
		right[i] = 0
	}
	for _, gw := range weights[:n] {
		if gw.weight == 0 {
			continue
		}
		l, r := p.ds.Left[gw.index], p.ds.Right[gw.index]
		for i := range left {
			left[i] += gw.weight * l[i]
			right[i] += gw.weight * r[i]
		}
		delayLeft += gw.weight * p.ds.DelayLeft[gw.index]
		delayRight += gw.weight * p.ds.DelayRight[gw.index]
	}
	return delayLeft, delayRight, nil
}

// neighbours fills w with grid indices and weights for dir and returns
// how many entries are used.
func (p *Profile) neighbours(dir Direction, mode Interpolation, w *[4]gridWeight) int {
	nAz := len(p.ds.Azimuths)

	az := math.Mod(dir.Azimuth, 2*math.Pi)
	if az < 0 {
		az += 2 * math.Pi
	}
	azPos := az / p.azStep
	a0 := int(math.Floor(azPos)) % nAz
	a1 := (a0 + 1) % nAz
	ta := azPos - math.Floor(azPos)

	e0, e1, te := p.elevationBracket(dir.Elevation)

	if mode == InterpolationNearest {
		a := a0
		if ta >= 0.5 {
			a = a1
		}
		e := e0
		if te >= 0.5 {
			e = e1
		}
		w[0] = gridWeight{index: p.ds.index(a, e), weight: 1}
		return 1
	}

	w[0] = gridWeight{index: p.ds.index(a0, e0), weight: (1 - ta) * (1 - te)}
	w[1] = gridWeight{index: p.ds.index(a1, e0), weight: ta * (1 - te)}
	w[2] = gridWeight{index: p.ds.index(a0, e1), weight: (1 - ta) * te}
	w[3] = gridWeight{index: p.ds.index(a1, e1), weight: ta * te}
	return 4
}

// elevationBracket clamps el to the grid and returns the surrounding ring
// indices and the blend factor between them.
func (p *Profile) elevationBracket(el float64) (lo, hi int, t float64) {
	els := p.ds.Elevations
	last := len(els) - 1
	if el <= els[0] {
		return 0, 0, 0
	}
	if el >= els[last] {
		return last, last, 0
	}
	for i := 0; i < last; i++ {
		if el < els[i+1] {
			return i, i + 1, (el - els[i]) / (els[i+1] - els[i])
		}
	}
	return last, last, 0
}

// Cues returns the interaural time difference (left delay minus right
// delay, seconds) and broadband level difference (right over left, dB) for
// dir. Positive values mean the source is nearer the right ear.
func (p *Profile) Cues(dir Direction, mode Interpolation) (itd, ild float64, err error) {
	left := make([]float64, p.ds.IRLen)
	right := make([]float64, p.ds.IRLen)
	dl, dr, err := p.Lookup(dir, mode, left, right)
	if err != nil {
		return 0, 0, err
	}

	var el, er float64
	for i := range left {
		el += left[i] * left[i]
		er += right[i] * right[i]
	}
	if el == 0 || er == 0 {
		return (dl - dr) / float64(p.ds.SampleRate), 0, nil
	}
	return (dl - dr) / float64(p.ds.SampleRate), core.LinearPowerToDB(er / el), nil
}
