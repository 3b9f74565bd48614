package buffer

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidChannels is returned for channel counts other than 1 or 2.
	ErrInvalidChannels = errors.New("buffer: channel count must be 1 or 2")
	// ErrChannelMismatch is returned when a sample count is not a multiple of the channel count.
	ErrChannelMismatch = errors.New("buffer: sample count is not a multiple of the channel count")
	// ErrFrameRange is returned when a requested frame lies outside the buffer.
	ErrFrameRange = errors.New("buffer: frame out of range")
)

// Buffer holds interleaved samples with a fixed channel count and sample rate.
// The number of samples is always a multiple of the channel count.
type Buffer struct {
	samples    []float64
	channels   int
	sampleRate int
}

// New returns a zero-filled Buffer holding frames samples per channel.
func New(frames, channels, sampleRate int) (*Buffer, error) {
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}
	if frames < 0 {
		frames = 0
	}
	return &Buffer{
		samples:    make([]float64, frames*channels),
		channels:   channels,
		sampleRate: sampleRate,
	}, nil
}

// FromInterleaved wraps an existing interleaved slice without copying.
// Mutations to the slice are visible through the Buffer and vice versa.
func FromInterleaved(samples []float64, channels, sampleRate int) (*Buffer, error) {
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}
	if len(samples)%channels != 0 {
		return nil, fmt.Errorf("%w: %d samples, %d channels", ErrChannelMismatch, len(samples), channels)
	}
	return &Buffer{samples: samples, channels: channels, sampleRate: sampleRate}, nil
}

// FromMono wraps a mono slice without copying.
func FromMono(samples []float64, sampleRate int) *Buffer {
	return &Buffer{samples: samples, channels: 1, sampleRate: sampleRate}
}

// Samples returns the underlying interleaved slice.
func (b *Buffer) Samples() []float64 {
	return b.samples
}

// Channels returns the channel count.
func (b *Buffer) Channels() int {
	return b.channels
}

// SampleRate returns the sample rate in Hz.
func (b *Buffer) SampleRate() int {
	return b.sampleRate
}

// Len returns the total number of samples across all channels.
func (b *Buffer) Len() int {
	return len(b.samples)
}

// Frames returns the number of samples per channel.
func (b *Buffer) Frames() int {
	return len(b.samples) / b.channels
}

// Duration returns the playing time of the buffer.
func (b *Buffer) Duration() time.Duration {
	if b.sampleRate <= 0 {
		return 0
	}
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.sampleRate)
}

// Frame returns the index-th block of frameSize samples per channel.
// The last block may be shorter than frameSize*Channels().
func (b *Buffer) Frame(index, frameSize int) ([]float64, error) {
	if frameSize <= 0 {
		return nil, fmt.Errorf("buffer: invalid frame size %d", frameSize)
	}
	step := frameSize * b.channels
	start := index * step
	if index < 0 || start >= len(b.samples) {
		return nil, fmt.Errorf("%w: index %d, %d samples", ErrFrameRange, index, len(b.samples))
	}
	end := start + step
	if end > len(b.samples) {
		end = len(b.samples)
	}
	return b.samples[start:end], nil
}

// Truncate shortens the buffer to n total samples. n must be a multiple
// of the channel count and not exceed Len.
func (b *Buffer) Truncate(n int) error {
	if n < 0 || n > len(b.samples) {
		return fmt.Errorf("buffer: truncate to %d of %d samples", n, len(b.samples))
	}
	if n%b.channels != 0 {
		return fmt.Errorf("%w: truncate to %d", ErrChannelMismatch, n)
	}
	b.samples = b.samples[:n]
	return nil
}

// Zero sets all samples to 0.
func (b *Buffer) Zero() {
	for i := range b.samples {
		b.samples[i] = 0
	}
}

// Copy returns a deep copy of the buffer.
func (b *Buffer) Copy() *Buffer {
	s := make([]float64, len(b.samples))
	copy(s, b.samples)
	return &Buffer{samples: s, channels: b.channels, sampleRate: b.sampleRate}
}
