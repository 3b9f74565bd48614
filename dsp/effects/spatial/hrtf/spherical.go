package hrtf

import (
	"fmt"
	"math"

	"github.com/cwbudde/radarping/dsp/conv"
	"github.com/cwbudde/radarping/dsp/core"
	"github.com/cwbudde/radarping/dsp/window"
)

const (
	speedOfSound      = 343.0 // m/s
	defaultHeadRadius = 0.0875
	referenceRate     = 44100.0

	shadowAlphaMin = 0.1
	shadowThetaMin = 150 * math.Pi / 180
)

// Pinna echo model: reflection gain, delay amplitude and offset in samples
// at 44.1 kHz, and elevation scaling.
var (
	pinnaRho = [...]float64{0.5, -1, 0.5, -0.25, 0.25}
	pinnaA   = [...]float64{1, 5, 5, 5, 5}
	pinnaB   = [...]float64{2, 4, 7, 11, 13}
	pinnaD   = [...]float64{1, 0.5, 0.5, 0.5, 0.5}
)

var (
	leftEar  = Vector3{X: -1}
	rightEar = Vector3{X: 1}
)

// SphericalHead synthesizes HRIRs from a rigid-sphere head model with a
// first-order head-shadow filter, Woodworth interaural delays and a set of
// pinna echoes.
type SphericalHead struct {
	headRadius float64
	azStep     float64 // degrees
	elMin      float64
	elMax      float64
	elStep     float64
	pinna      bool
}

// SphericalHeadOption configures a SphericalHead.
type SphericalHeadOption func(*SphericalHead) error

// WithHeadRadius sets the head radius in meters.
func WithHeadRadius(meters float64) SphericalHeadOption {
	return func(h *SphericalHead) error {
		if meters <= 0 || meters > 0.2 || math.IsNaN(meters) {
			return fmt.Errorf("hrtf: head radius must be in (0, 0.2]: %f", meters)
		}
		h.headRadius = meters
		return nil
	}
}

// WithGrid sets the azimuth and elevation spacing in degrees. The azimuth
// step must divide 360.
func WithGrid(azimuthStep, elevationStep float64) SphericalHeadOption {
	return func(h *SphericalHead) error {
		if azimuthStep <= 0 || azimuthStep > 90 {
			return fmt.Errorf("hrtf: azimuth step must be in (0, 90]: %f", azimuthStep)
		}
		if n := 360 / azimuthStep; math.Abs(n-math.Round(n)) > 1e-9 {
			return fmt.Errorf("hrtf: azimuth step %f does not divide 360", azimuthStep)
		}
		if elevationStep <= 0 || elevationStep > 65 {
			return fmt.Errorf("hrtf: elevation step must be in (0, 65]: %f", elevationStep)
		}
		h.azStep = azimuthStep
		h.elStep = elevationStep
		return nil
	}
}

// WithoutPinna disables the pinna echo stage.
func WithoutPinna() SphericalHeadOption {
	return func(h *SphericalHead) error {
		h.pinna = false
		return nil
	}
}

// NewSphericalHead returns the default synthetic HRTF provider.
func NewSphericalHead(opts ...SphericalHeadOption) (*SphericalHead, error) {
	h := &SphericalHead{
		headRadius: defaultHeadRadius,
		azStep:     10,
		elMin:      -40,
		elMax:      90,
		elStep:     10,
		pinna:      true,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(h); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Name identifies the provider.
func (h *SphericalHead) Name() string {
	return "spherical-head"
}

// ResponseLength returns the HRIR length used at sampleRate: 2.5 ms rounded
// up to a power of two, at least 32 taps.
func ResponseLength(sampleRate int) int {
	n := conv.NextPowerOf2(int(math.Ceil(float64(sampleRate) * 0.0025)))
	if n < 32 {
		n = 32
	}
	return n
}

// Dataset synthesizes the full grid at sampleRate.
func (h *SphericalHead) Dataset(sampleRate int) (*Dataset, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("hrtf: sample rate must be > 0: %d", sampleRate)
	}

	nAz := int(math.Round(360 / h.azStep))
	azimuths := make([]float64, nAz)
	for i := range azimuths {
		azimuths[i] = float64(i) * 2 * math.Pi / float64(nAz)
	}

	var elevations []float64
	for el := h.elMin; el <= h.elMax+1e-9; el += h.elStep {
		elevations = append(elevations, el*math.Pi/180)
	}

	irLen := ResponseLength(sampleRate)
	taper := window.Generate(window.TypeHann, irLen, window.WithSlope(window.SlopeRight))

	n := nAz * len(elevations)
	ds := &Dataset{
		SampleRate: sampleRate,
		Azimuths:   azimuths,
		Elevations: elevations,
		IRLen:      irLen,
		Left:       make([][]float64, n),
		Right:      make([][]float64, n),
		DelayLeft:  make([]float64, n),
		DelayRight: make([]float64, n),
	}

	for e, el := range elevations {
		for a, az := range azimuths {
			dir := Direction{Azimuth: az, Elevation: el}
			idx := ds.index(a, e)

			left, err := h.earResponse(dir, leftEar, sampleRate, irLen)
			if err != nil {
				return nil, err
			}
			right, err := h.earResponse(dir, rightEar, sampleRate, irLen)
			if err != nil {
				return nil, err
			}
			if err := window.ApplyCoefficientsInPlace(left, taper); err != nil {
				return nil, err
			}
			if err := window.ApplyCoefficientsInPlace(right, taper); err != nil {
				return nil, err
			}
			ds.Left[idx] = left
			ds.Right[idx] = right

			dl, dr := h.earDelays(dir, sampleRate)
			ds.DelayLeft[idx] = dl
			ds.DelayRight[idx] = dr
		}
	}

	return ds, nil
}

// earAngle returns the angle between the source direction and an ear axis.
func earAngle(dir Direction, ear Vector3) float64 {
	c := dir.Vector().Dot(ear)
	return math.Acos(math.Max(-1, math.Min(1, c)))
}

// earDelays returns per-ear delays in samples with the earlier ear at zero.
func (h *SphericalHead) earDelays(dir Direction, sampleRate int) (left, right float64) {
	left = h.woodworth(earAngle(dir, leftEar)) * float64(sampleRate)
	right = h.woodworth(earAngle(dir, rightEar)) * float64(sampleRate)
	m := math.Min(left, right)
	return left - m, right - m
}

// woodworth returns the propagation delay to an ear in seconds for a source
// at angle theta from the ear axis.
func (h *SphericalHead) woodworth(theta float64) float64 {
	ac := h.headRadius / speedOfSound
	if theta < math.Pi/2 {
		return ac * (1 - math.Cos(theta))
	}
	return ac * (1 + theta - math.Pi/2)
}

func (h *SphericalHead) earResponse(dir Direction, ear Vector3, sampleRate, irLen int) ([]float64, error) {
	shadow := h.shadowResponse(earAngle(dir, ear), sampleRate, irLen)
	if !h.pinna {
		return shadow, nil
	}

	azimuth := core.WrapAngle(dir.Azimuth)
	if ear.X < 0 {
		azimuth = -azimuth
	}
	full, err := conv.Direct(shadow, pinnaResponse(azimuth, dir.Elevation, sampleRate))
	if err != nil {
		return nil, fmt.Errorf("hrtf: pinna stage: %w", err)
	}
	return full[:irLen], nil
}

// shadowResponse returns the truncated impulse response of the head-shadow
// filter (1 + j*alpha*w/2w0) / (1 + j*w/2w0), discretized by the bilinear
// transform.
func (h *SphericalHead) shadowResponse(theta float64, sampleRate, irLen int) []float64 {
	alpha := (1 + shadowAlphaMin/2) + (1-shadowAlphaMin/2)*math.Cos(theta/shadowThetaMin*math.Pi)
	omega0 := speedOfSound / h.headRadius
	k := float64(sampleRate) / omega0

	b0 := (1 + alpha*k) / (1 + k)
	b1 := (1 - alpha*k) / (1 + k)
	a1 := (1 - k) / (1 + k)

	out := make([]float64, irLen)
	x1, y1 := 0.0, 0.0
	for n := range out {
		x := 0.0
		if n == 0 {
			x = 1
		}
		y := b0*x + b1*x1 - a1*y1
		out[n] = y
		x1, y1 = x, y
	}
	return out
}

// pinnaResponse returns the direct path plus pinna reflections, each placed
// at a fractional delay by linear split between neighbouring taps.
func pinnaResponse(azimuth, elevation float64, sampleRate int) []float64 {
	scale := float64(sampleRate) / referenceRate
	taus := make([]float64, len(pinnaRho))
	maxTau := 0.0
	for k := range pinnaRho {
		tau := pinnaA[k]*math.Cos(azimuth/2)*math.Sin(pinnaD[k]*(math.Pi/2-elevation)) + pinnaB[k]
		taus[k] = math.Max(0, tau*scale)
		maxTau = math.Max(maxTau, taus[k])
	}

	out := make([]float64, int(math.Ceil(maxTau))+2)
	out[0] = 1
	for k, tau := range taus {
		i := int(math.Floor(tau))
		frac := tau - float64(i)
		out[i] += pinnaRho[k] * (1 - frac)
		out[i+1] += pinnaRho[k] * frac
	}
	return out
}
