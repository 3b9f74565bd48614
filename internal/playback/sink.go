// Package playback delivers finished stereo buffers to an output.
package playback

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cwbudde/radarping/dsp/buffer"
)

// ErrClosed indicates use of a sink after Close.
var ErrClosed = errors.New("playback: sink closed")

// Sink accepts interleaved stereo buffers. Play must not retain buf
// after it returns unless it copies it.
type Sink interface {
	Name() string
	Play(buf *buffer.Buffer) error
	Close() error
}

func checkFormat(buf *buffer.Buffer, sampleRate int) error {
	if buf == nil {
		return fmt.Errorf("playback: nil buffer")
	}
	if buf.Channels() != 2 {
		return fmt.Errorf("%w: sink plays stereo, got %d channels", buffer.ErrChannelMismatch, buf.Channels())
	}
	if sampleRate > 0 && buf.SampleRate() != sampleRate {
		return fmt.Errorf("playback: buffer is %d Hz, sink runs at %d Hz", buf.SampleRate(), sampleRate)
	}
	return nil
}

// Recorder keeps copies of every played buffer in memory.
type Recorder struct {
	mu         sync.Mutex
	sampleRate int
	buffers    []*buffer.Buffer
	closed     bool
}

// NewRecorder returns a recorder that accepts buffers at sampleRate, or
// at any rate when sampleRate is 0.
func NewRecorder(sampleRate int) *Recorder {
	return &Recorder{sampleRate: sampleRate}
}

// Name implements Sink.
func (r *Recorder) Name() string { return "recorder" }

// Play stores a copy of buf.
func (r *Recorder) Play(buf *buffer.Buffer) error {
	if err := checkFormat(buf, r.sampleRate); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	r.buffers = append(r.buffers, buf.Copy())
	return nil
}

// Buffers returns the recorded buffers in play order.
func (r *Recorder) Buffers() []*buffer.Buffer {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*buffer.Buffer, len(r.buffers))
	copy(out, r.buffers)
	return out
}

// PCM returns every recorded buffer as concatenated 16-bit little-endian
// PCM, as an audio device would receive it.
func (r *Recorder) PCM() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	var pcm []byte
	for _, b := range r.buffers {
		pcm = buffer.AppendInt16LE(pcm, b.Samples())
	}
	return pcm
}

// Close implements Sink.
func (r *Recorder) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return nil
}

// Discard drops every buffer.
type Discard struct{}

// Name implements Sink.
func (Discard) Name() string { return "discard" }

// Play validates buf and drops it.
func (Discard) Play(buf *buffer.Buffer) error { return checkFormat(buf, 0) }

// Close implements Sink.
func (Discard) Close() error { return nil }
