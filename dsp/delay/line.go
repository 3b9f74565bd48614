// Package delay provides a circular fractional delay line.
package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/radarping/dsp/interp"
)

// Line is a circular delay line. Read(0) returns the most recently
// written sample.
type Line struct {
	buffer   []float64
	writePos int
	mode     interp.Mode
}

// Option configures a Line.
type Option func(*Line)

// WithMode selects the fractional interpolation mode.
func WithMode(mode interp.Mode) Option {
	return func(d *Line) {
		d.mode = mode
	}
}

// New returns a delay line of fixed size. The longest readable
// fractional delay is size-3 samples.
func New(size int, opts ...Option) (*Line, error) {
	if size < 4 {
		return nil, fmt.Errorf("delay: size must be >= 4: %d", size)
	}
	d := &Line{buffer: make([]float64, size), mode: interp.Hermite}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d, nil
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// MaxDelay returns the longest delay ReadFractional honours.
func (d *Line) MaxDelay() float64 {
	return float64(len(d.buffer) - 3)
}

// Write writes one sample.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads an integer delay in samples.
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	readPos := ((d.writePos-1-delay)%size + size) % size
	return d.buffer[readPos]
}

// ReadFractional reads a fractional delay, clamped to [0, MaxDelay].
func (d *Line) ReadFractional(delay float64) float64 {
	if delay < 0 || math.IsNaN(delay) {
		delay = 0
	}
	if maxDelay := d.MaxDelay(); delay > maxDelay {
		delay = maxDelay
	}

	p := int(math.Floor(delay))
	t := delay - float64(p)

	x0 := d.Read(p)
	x1 := d.Read(p + 1)
	if d.mode == interp.Linear {
		return interp.Linear2(t, x0, x1)
	}

	xm1 := x0
	if p > 0 {
		xm1 = d.Read(p - 1)
	}
	x2 := d.Read(p + 2)
	return interp.Hermite4(t, xm1, x0, x1, x2)
}

// Process writes sample and returns the line output delayed by delay samples.
func (d *Line) Process(sample, delay float64) float64 {
	d.Write(sample)
	return d.ReadFractional(delay)
}

// Reset clears line state.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePos = 0
}
