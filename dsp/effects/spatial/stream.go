package spatial

import (
	"fmt"

	"github.com/cwbudde/radarping/dsp/buffer"
	"github.com/cwbudde/radarping/dsp/core"
)

// FrameCount returns how many frames of frameSize samples cover length
// samples. The last frame may be partial.
func FrameCount(length, frameSize int) int {
	if length <= 0 || frameSize <= 0 {
		return 0
	}
	return (length + frameSize - 1) / frameSize
}

// Spatialize renders a mono source toward direction with e. The source is cut
// into frames, the last one zero padded, and frame i lands at offset
// 2*FrameSize*i of the stereo result, which is then trimmed to twice the
// source length. The engine lock is held for the whole source.
func Spatialize(e *Engine, source *buffer.Buffer, direction Vector3) (*buffer.Buffer, error) {
	if e == nil {
		return nil, ErrNotInitialized
	}
	if source == nil {
		return nil, fmt.Errorf("spatial: nil source")
	}
	if source.Channels() != 1 {
		return nil, fmt.Errorf("%w: got %d channels", ErrNotMono, source.Channels())
	}
	if source.SampleRate() != e.audio.SampleRate {
		return nil, fmt.Errorf("%w: source is %d Hz, engine is %d Hz",
			ErrSampleRate, source.SampleRate(), e.audio.SampleRate)
	}

	n := source.Len()
	fs := e.audio.FrameSize
	frames := FrameCount(n, fs)

	out, err := buffer.New(frames*fs, 2, e.audio.SampleRate)
	if err != nil {
		return nil, err
	}
	dst := out.Samples()
	frame := make([]float64, fs)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrShutdown
	}

	for i := 0; i < frames; i++ {
		in, err := source.Frame(i, fs)
		if err != nil {
			return nil, err
		}
		core.CopyPadded(frame, in)
		if err := e.applyLocked(dst[2*fs*i:2*fs*(i+1)], direction, frame); err != nil {
			return nil, fmt.Errorf("spatial: frame %d: %w", i, err)
		}
	}

	if err := out.Truncate(2 * n); err != nil {
		return nil, err
	}
	return out, nil
}
