// Package demo runs one tick of the radar demo: it moves the actor,
// recomputes the attention cone, advances the radar ring and, on a
// trigger, sends the source through the spatializer to the sink.
package demo

import (
	"context"
	"errors"

	"github.com/cwbudde/radarping/dsp/buffer"
	"github.com/cwbudde/radarping/dsp/effects/spatial"
	"github.com/cwbudde/radarping/internal/config"
	"github.com/cwbudde/radarping/internal/observe"
	"github.com/cwbudde/radarping/internal/playback"
	"github.com/cwbudde/radarping/internal/scene"
	"github.com/sirupsen/logrus"
)

// Input is what a front-end samples once per tick.
type Input struct {
	Pointer scene.Vec2
	Move    scene.Move
	Dt      float64 // seconds since the previous tick
	Trigger bool    // key-down edge, not key state
}

// Frame is everything a front-end draws for one tick.
type Frame struct {
	Actor   scene.Vec2
	Pointer scene.Vec2
	Cone    scene.Cone
	Outline []scene.Vec2
	Radar   scene.RadarState
	HUD     scene.HUD
	Muted   bool
}

// Options are the collaborators of a Session. Engine may be nil, in
// which case the session runs muted.
type Options struct {
	Engine  *spatial.Engine
	Source  *buffer.Buffer
	Sink    playback.Sink
	Metrics *observe.Metrics
	Logger  logrus.FieldLogger
}

// Session is the per-tick state machine of the demo. Tick and Close
// must be called from one goroutine.
type Session struct {
	actor     *scene.Actor
	radar     *scene.Radar
	fps       *scene.FPSCounter
	attention scene.AttentionConfig
	mapper    scene.Mapper
	segments  int

	worker  *spatial.Worker
	source  *buffer.Buffer
	sink    playback.Sink
	metrics *observe.Metrics
	logger  logrus.FieldLogger
}

// NewSession builds a session from cfg. Audio is enabled only when an
// engine, a source and a sink are all present and cfg does not mute it.
func NewSession(cfg *config.Config, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = observe.DefaultMetrics()
	}

	s := &Session{
		actor:     scene.NewActor(scene.Vec2{X: cfg.Scene.Width, Y: cfg.Scene.Height}, cfg.Scene.MovementSpeed),
		radar:     scene.NewRadar(cfg.RadarSettings()),
		fps:       scene.NewFPSCounter(cfg.UI.FPSInterval),
		attention: cfg.Attention(),
		mapper:    cfg.Mapper(),
		segments:  cfg.Scene.FocusSegments,
		source:    opts.Source,
		sink:      opts.Sink,
		metrics:   metrics,
		logger:    logger,
	}

	log := logger.WithField("function", "NewSession")
	switch {
	case cfg.Audio.Mute:
		log.Info("audio muted by configuration")
	case opts.Engine == nil:
		log.Warn("no spatial engine; running muted")
	case opts.Source == nil || opts.Sink == nil:
		log.Warn("no source or sink; running muted")
	default:
		s.worker = spatial.NewWorker(opts.Engine, cfg.Audio.QueueSize)
	}
	return s
}

// Muted reports whether triggers produce no audio.
func (s *Session) Muted() bool {
	return s.worker == nil
}

// Tick advances the demo by one step and returns what to draw. A trigger
// aims from the actor's position after this step's movement and starts the
// radar before it advances.
func (s *Session) Tick(ctx context.Context, in Input) Frame {
	s.deliverReady(ctx)

	s.actor.Step(in.Move, in.Dt)
	if in.Trigger {
		s.trigger(ctx, in.Pointer)
	}
	cone := scene.ComputeCone(s.actor.Position, in.Pointer, s.attention)
	s.radar.Tick(in.Dt)
	s.fps.Tick(in.Dt)

	return Frame{
		Actor:   s.actor.Position,
		Pointer: in.Pointer,
		Cone:    cone,
		Outline: cone.Outline(s.segments),
		Radar:   s.radar.State(),
		HUD: scene.HUD{
			Elapsed:    s.fps.Elapsed(),
			Pointer:    in.Pointer,
			FocusAngle: cone.FocusAngle,
			FPS:        s.fps.FPS(),
		},
		Muted: s.Muted(),
	}
}

func (s *Session) trigger(ctx context.Context, pointer scene.Vec2) {
	s.radar.Trigger()
	s.metrics.RecordPulse(ctx, s.Muted())

	log := s.logger.WithField("function", "Session.trigger")
	if s.worker == nil {
		log.Debug("radar pulse (muted)")
		return
	}

	dir := s.mapper.Direction(s.actor.Position, pointer)
	id, err := s.worker.TrySubmit(s.source, dir)
	if errors.Is(err, spatial.ErrQueueFull) {
		log.Warn("spatializer busy; pulse is silent")
		return
	}
	if err != nil {
		log.WithError(err).Error("spatialize request rejected")
		return
	}
	log.WithFields(logrus.Fields{
		"request_id": id.String(),
		"x":          dir.X,
		"y":          dir.Y,
		"z":          dir.Z,
	}).Debug("radar pulse")
}

// deliverReady hands finished renders to the sink without blocking.
func (s *Session) deliverReady(ctx context.Context) {
	if s.worker == nil {
		return
	}
	for {
		select {
		case res, ok := <-s.worker.Results():
			if !ok {
				return
			}
			s.deliver(ctx, res)
		default:
			return
		}
	}
}

func (s *Session) deliver(ctx context.Context, res spatial.Result) {
	log := s.logger.WithFields(logrus.Fields{
		"function":   "Session.deliver",
		"request_id": res.ID.String(),
	})
	if res.Err != nil {
		log.WithError(res.Err).Error("spatialize failed")
		return
	}
	if err := s.sink.Play(res.Output); err != nil {
		s.metrics.RecordPlayback(ctx, s.sink.Name(), "error")
		log.WithError(err).Error("playback failed")
		return
	}
	s.metrics.RecordPlayback(ctx, s.sink.Name(), "ok")
	log.WithField("elapsed", res.Elapsed).Debug("pulse delivered")
}

// Close waits for pending renders, plays them and closes the sink. The
// engine stays owned by the caller.
func (s *Session) Close() error {
	if s.worker == nil {
		if s.sink != nil {
			return s.sink.Close()
		}
		return nil
	}

	ctx := context.Background()
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for res := range s.worker.Results() {
			s.deliver(ctx, res)
		}
	}()
	s.worker.Close()
	<-drained
	s.worker = nil

	return s.sink.Close()
}
