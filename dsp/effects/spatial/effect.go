package spatial

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/radarping/dsp/buffer"
	"github.com/cwbudde/radarping/dsp/conv"
	"github.com/cwbudde/radarping/dsp/core"
	"github.com/cwbudde/radarping/dsp/delay"
	"github.com/cwbudde/radarping/dsp/effects/spatial/hrtf"
	"github.com/cwbudde/radarping/dsp/window"
)

// Vector3 is a listener-relative direction. See hrtf.Vector3.
type Vector3 = hrtf.Vector3

// EffectParams are the per-frame parameters of a BinauralEffect.
type EffectParams struct {
	Direction     Vector3
	Interpolation hrtf.Interpolation
	// SpatialBlend mixes the binaural signal (1) with the dry mono
	// signal on both channels (0).
	SpatialBlend float64
}

// BinauralEffect renders mono frames to interleaved stereo with a
// per-ear fractional delay followed by an FIR convolution.
//
// When the direction changes between frames the delay is ramped across
// the frame and the old and new convolutions are crossfaded.
type BinauralEffect struct {
	refHandle
	hrtf      *HRTF
	profile   *hrtf.Profile
	frameSize int

	delayL, delayR *delay.Line
	convL, convR   *conv.SpectralOverlapSave

	irL, irR             []float64
	specL, specR         []complex128
	prevSpecL, prevSpecR []complex128

	primed       bool
	dir          hrtf.Direction
	mode         hrtf.Interpolation
	curDelayL    float64
	curDelayR    float64
	targetDelayL float64
	targetDelayR float64

	fadeIn, fadeOut  []float64
	delayed          []float64
	wetL, wetR, prev []float64
}

// NewBinauralEffect creates an effect for frames of audio.FrameSize
// samples and retains h.
func NewBinauralEffect(h *HRTF, audio AudioSettings) (*BinauralEffect, error) {
	if h == nil {
		return nil, fmt.Errorf("spatial: binaural effect needs an hrtf")
	}
	if err := audio.validate(); err != nil {
		return nil, err
	}
	profile := h.Profile()
	if profile.SampleRate() != audio.SampleRate {
		return nil, fmt.Errorf("%w: hrtf built for %d Hz, stream is %d Hz",
			ErrSampleRate, profile.SampleRate(), audio.SampleRate)
	}

	n := audio.FrameSize
	irLen := profile.IRLen()
	lineSize := int(math.Ceil(profile.MaxDelay())) + 4

	e := &BinauralEffect{
		hrtf:      h,
		profile:   profile,
		frameSize: n,
		irL:       make([]float64, irLen),
		irR:       make([]float64, irLen),
		delayed:   make([]float64, n),
		wetL:      make([]float64, n),
		wetR:      make([]float64, n),
		prev:      make([]float64, n),
	}

	var err error
	if e.delayL, err = delay.New(lineSize); err != nil {
		return nil, err
	}
	if e.delayR, err = delay.New(lineSize); err != nil {
		return nil, err
	}
	if e.convL, err = conv.NewSpectralOverlapSave(irLen, n); err != nil {
		return nil, err
	}
	if e.convR, err = conv.NewSpectralOverlapSave(irLen, n); err != nil {
		return nil, err
	}

	bins := e.convL.FFTSize()
	e.specL = make([]complex128, bins)
	e.specR = make([]complex128, bins)
	e.prevSpecL = make([]complex128, bins)
	e.prevSpecR = make([]complex128, bins)
	e.fadeIn, e.fadeOut = window.Ramps(n)

	if err := h.retain(); err != nil {
		return nil, err
	}
	e.init(h.unref)
	return e, nil
}

// Release drops the owner's reference. Calling it again is a no-op.
func (e *BinauralEffect) Release() {
	if e == nil {
		return
	}
	e.releaseOwner()
}

// FrameSize returns the number of mono samples per frame.
func (e *BinauralEffect) FrameSize() int {
	return e.frameSize
}

// Reset clears the delay lines and convolution history. The next frame
// starts without a crossfade.
func (e *BinauralEffect) Reset() {
	e.delayL.Reset()
	e.delayR.Reset()
	e.convL.Reset()
	e.convR.Reset()
	e.primed = false
}

// Apply renders in (FrameSize samples) to out (2*FrameSize interleaved
// samples).
func (e *BinauralEffect) Apply(params EffectParams, in, out []float64) error {
	if !e.usable() {
		return ErrReleased
	}
	if len(in) != e.frameSize {
		return fmt.Errorf("%w: got %d samples, want %d", ErrFrameSize, len(in), e.frameSize)
	}
	if len(out) != 2*e.frameSize {
		return fmt.Errorf("%w: output holds %d samples, want %d", ErrFrameSize, len(out), 2*e.frameSize)
	}

	dir := hrtf.ToDirection(params.Direction)
	crossfade := false
	if !e.primed || dir != e.dir || params.Interpolation != e.mode {
		if err := e.loadKernel(dir, params.Interpolation); err != nil {
			return err
		}
		crossfade = e.primed
		if !e.primed {
			e.curDelayL, e.curDelayR = e.targetDelayL, e.targetDelayR
		}
		e.dir, e.mode, e.primed = dir, params.Interpolation, true
	}

	if err := e.renderEar(in, e.wetL, e.delayL, e.convL, &e.curDelayL, e.targetDelayL, e.specL, e.prevSpecL, crossfade); err != nil {
		return err
	}
	if err := e.renderEar(in, e.wetR, e.delayR, e.convR, &e.curDelayR, e.targetDelayR, e.specR, e.prevSpecR, crossfade); err != nil {
		return err
	}

	blend := core.Clamp(params.SpatialBlend, 0, 1)
	if blend < 1 {
		for i, x := range in {
			e.wetL[i] = blend*e.wetL[i] + (1-blend)*x
			e.wetR[i] = blend*e.wetR[i] + (1-blend)*x
		}
	}

	return buffer.Interleave(out, e.wetL, e.wetR)
}

// loadKernel looks up the responses for dir and makes them current,
// keeping the previous spectra for the crossfade. The new spectra are built
// in the previous slots and swapped in only when every step succeeds.
func (e *BinauralEffect) loadKernel(dir hrtf.Direction, mode hrtf.Interpolation) error {
	dl, dr, err := e.profile.Lookup(dir, mode, e.irL, e.irR)
	if err != nil {
		return err
	}
	if err := e.convL.KernelSpectrumTo(e.prevSpecL, e.irL); err != nil {
		return err
	}
	if err := e.convR.KernelSpectrumTo(e.prevSpecR, e.irR); err != nil {
		return err
	}
	e.specL, e.prevSpecL = e.prevSpecL, e.specL
	e.specR, e.prevSpecR = e.prevSpecR, e.specR
	e.targetDelayL, e.targetDelayR = dl, dr
	return nil
}

func (e *BinauralEffect) renderEar(
	in, wet []float64,
	line *delay.Line,
	cv *conv.SpectralOverlapSave,
	cur *float64, target float64,
	kernel, prevKernel []complex128,
	crossfade bool,
) error {
	start := *cur
	step := (target - start) / float64(e.frameSize)
	for i, x := range in {
		e.delayed[i] = line.Process(x, start+step*float64(i+1))
	}
	*cur = target

	if err := cv.Push(e.delayed); err != nil {
		return err
	}
	if err := cv.ConvolveTo(wet, kernel); err != nil {
		return err
	}
	if !crossfade {
		return nil
	}

	if err := cv.ConvolveTo(e.prev, prevKernel); err != nil {
		return err
	}
	vecmath.MulBlockInPlace(wet, e.fadeIn)
	vecmath.MulBlockInPlace(e.prev, e.fadeOut)
	for i, v := range e.prev {
		wet[i] += v
	}
	return nil
}
