package playback

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/cwbudde/radarping/dsp/buffer"
	"github.com/ebitengine/oto/v3"
	"github.com/sirupsen/logrus"
)

// OtoSink plays buffers on the default audio device. Each buffer gets its
// own player, so overlapping pings mix.
type OtoSink struct {
	mu         sync.Mutex
	ctx        *oto.Context
	sampleRate int
	players    []*oto.Player
	logger     logrus.FieldLogger
	closed     bool
}

// NewOtoSink opens the device for signed 16-bit stereo at sampleRate and
// waits until it is ready. oto allows one context per process.
func NewOtoSink(sampleRate int, logger logrus.FieldLogger) (*OtoSink, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   50 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("playback: failed to create oto context: %w", err)
	}
	<-ready

	logger.WithFields(logrus.Fields{
		"function":    "NewOtoSink",
		"sample_rate": sampleRate,
	}).Info("audio output opened")

	return &OtoSink{ctx: ctx, sampleRate: sampleRate, logger: logger}, nil
}

// Name implements Sink.
func (s *OtoSink) Name() string { return "oto" }

// Play converts buf to clamped 16-bit PCM and starts playing it. It
// returns without waiting for playback to finish.
func (s *OtoSink) Play(buf *buffer.Buffer) error {
	if err := checkFormat(buf, s.sampleRate); err != nil {
		return err
	}
	pcm := buffer.AppendInt16LE(make([]byte, 0, 2*buf.Len()), buf.Samples())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.reapLocked()

	p := s.ctx.NewPlayer(bytes.NewReader(pcm))
	p.Play()
	s.players = append(s.players, p)
	return nil
}

// reapLocked closes players that have finished.
func (s *OtoSink) reapLocked() {
	live := s.players[:0]
	for _, p := range s.players {
		if p.IsPlaying() {
			live = append(live, p)
			continue
		}
		if err := p.Close(); err != nil {
			s.logger.WithField("function", "OtoSink.Play").WithError(err).Debug("closing finished player")
		}
	}
	for i := len(live); i < len(s.players); i++ {
		s.players[i] = nil
	}
	s.players = live
}

// Close stops all players and suspends the device.
func (s *OtoSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	var firstErr error
	for _, p := range s.players {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.players = nil
	if err := s.ctx.Suspend(); err != nil && firstErr == nil {
		firstErr = err
	}

	s.logger.WithField("function", "OtoSink.Close").Info("audio output closed")
	return firstErr
}
