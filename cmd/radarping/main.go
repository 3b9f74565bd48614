// Command radarping is a binaural radar demo. WASD moves the listener,
// the mouse aims the attention cone and F fires a pulse that is heard
// from the pointer's direction.
//
// Usage:
//
//	radarping [flags]
//
// Examples:
//
//	radarping
//	radarping -ui term
//	radarping -config radarping.yaml -source assets/ping.flac
//	radarping -ui headless -ticks 720 -pulse-every 144 -log-level debug
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cwbudde/radarping/dsp/buffer"
	"github.com/cwbudde/radarping/dsp/effects/spatial"
	"github.com/cwbudde/radarping/internal/config"
	"github.com/cwbudde/radarping/internal/demo"
	"github.com/cwbudde/radarping/internal/observe"
	"github.com/cwbudde/radarping/internal/playback"
	"github.com/cwbudde/radarping/internal/scene"
	"github.com/cwbudde/radarping/internal/source"
	"github.com/cwbudde/radarping/internal/ui/term"
	"github.com/cwbudde/radarping/internal/ui/window"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const defaultLogFile = "radarping.log"

type flags struct {
	config     string
	ui         string
	source     string
	logLevel   string
	logFile    string
	mute       bool
	ticks      int
	pulseEvery int
}

func main() {
	var f flags
	flag.StringVar(&f.config, "config", "", "YAML configuration file")
	flag.StringVar(&f.ui, "ui", "", "front-end: window, term or headless (overrides config)")
	flag.StringVar(&f.source, "source", "", "MP3 or FLAC pulse sound (default: built-in ping)")
	flag.StringVar(&f.logLevel, "log-level", "", "log level (overrides config)")
	flag.StringVar(&f.logFile, "log-file", "", "log file (window and term default to "+defaultLogFile+")")
	flag.BoolVar(&f.mute, "mute", false, "run without audio")
	flag.IntVar(&f.ticks, "ticks", 720, "headless: number of ticks to run, 0 runs until interrupted")
	flag.IntVar(&f.pulseEvery, "pulse-every", 144, "headless: ticks between pulses")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: radarping [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Binaural radar demo: WASD moves, the mouse aims, F fires a pulse.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(f); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(f flags) (*config.Config, error) {
	cfg := config.Default()
	if f.config != "" {
		var err error
		if cfg, err = config.Load(f.config); err != nil {
			return nil, err
		}
	}
	if f.ui != "" {
		cfg.UI.Mode = config.UIMode(f.ui)
	}
	if f.source != "" {
		cfg.Audio.Source = f.source
	}
	if f.logLevel != "" {
		cfg.Log.Level = config.LogLevel(f.logLevel)
	}
	if f.logFile != "" {
		cfg.Log.File = f.logFile
	}
	if f.mute {
		cfg.Audio.Mute = true
	}
	if cfg.Log.File == "" && cfg.UI.Mode != config.UIHeadless {
		cfg.Log.File = defaultLogFile
	}
	return cfg, config.Validate(cfg)
}

func newLogger(cfg config.LogConfig) (*logrus.Logger, *os.File, error) {
	logger := logrus.New()
	logger.SetLevel(cfg.Level.Level())
	if cfg.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if cfg.File == "" {
		return logger, nil, nil
	}
	file, err := os.OpenFile(cfg.File, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(file)
	return logger, file, nil
}

func run(f flags) error {
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	logger, logFile, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer func() { _ = logFile.Close() }()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.WithField("function", "run")
	metrics := observe.DefaultMetrics()

	var (
		engine *spatial.Engine
		src    *buffer.Buffer
		sink   playback.Sink
	)
	if !cfg.Audio.Mute {
		engine, src, sink = startAudio(cfg, logger, metrics)
	}
	if engine != nil {
		defer engine.Shutdown()
	}

	session := demo.NewSession(cfg, demo.Options{
		Engine:  engine,
		Source:  src,
		Sink:    sink,
		Metrics: metrics,
		Logger:  logger,
	})
	defer func() {
		if err := session.Close(); err != nil {
			log.WithError(err).Warn("session close failed")
		}
	}()

	log.WithFields(logrus.Fields{
		"ui":    string(cfg.UI.Mode),
		"muted": session.Muted(),
	}).Info("radarping starting")

	field := scene.Vec2{X: cfg.Scene.Width, Y: cfg.Scene.Height}
	switch cfg.UI.Mode {
	case config.UIWindow:
		return window.NewGame(ctx, session, int(field.X), int(field.Y), cfg.UI.TPS).Run("Radar Ping")
	case config.UITerminal:
		return term.Run(term.NewModel(ctx, session, field, cfg.UI.TPS))
	default:
		return runHeadless(ctx, session, cfg, f.ticks, f.pulseEvery, logger)
	}
}

// startAudio brings up the spatializer, the source and the sink. Any
// failure is logged and leaves the demo muted.
func startAudio(cfg *config.Config, logger *logrus.Logger, metrics *observe.Metrics) (*spatial.Engine, *buffer.Buffer, playback.Sink) {
	log := logger.WithField("function", "startAudio")
	sr := cfg.Audio.SampleRate

	src, err := source.Load(cfg.Audio.Source, sr, logger)
	if err != nil {
		log.WithError(err).Error("pulse source unavailable; running muted")
		return nil, nil, nil
	}

	engine, err := spatial.Initialize(sr, cfg.Audio.FrameSize,
		spatial.WithLogger(logger),
		spatial.WithMetrics(metrics),
		spatial.WithVolume(cfg.Audio.Volume),
		spatial.WithInterpolation(cfg.InterpolationMode()),
		spatial.WithSpatialBlend(cfg.Audio.SpatialBlend),
	)
	if err != nil {
		log.WithError(err).Error("spatial engine unavailable; running muted")
		return nil, nil, nil
	}
	log.Info(engine.Describe())

	var sink playback.Sink = playback.Discard{}
	if cfg.UI.Mode != config.UIHeadless {
		oto, err := playback.NewOtoSink(sr, logger)
		if err != nil {
			log.WithError(err).Error("audio device unavailable; running muted")
			engine.Shutdown()
			return nil, nil, nil
		}
		sink = oto
	}
	return engine, src, sink
}

// runHeadless drives the session from a ticker with the pointer circling
// the actor, firing a pulse every pulseEvery ticks. A reporter logs the
// HUD once per second.
func runHeadless(ctx context.Context, session *demo.Session, cfg *config.Config, ticks, pulseEvery int, logger logrus.FieldLogger) error {
	tps := cfg.UI.TPS
	dt := 1 / float64(tps)
	frames := make(chan demo.Frame, 1)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(frames)
		ticker := time.NewTicker(time.Second / time.Duration(tps))
		defer ticker.Stop()

		center := scene.Vec2{X: cfg.Scene.Width / 2, Y: cfg.Scene.Height / 2}
		for i := 0; ticks <= 0 || i < ticks; i++ {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
			}
			angle := 2 * math.Pi * float64(i) / float64(4*tps)
			in := demo.Input{
				Pointer: center.Add(scene.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}.Scale(cfg.Scene.MaxDistance / 2)),
				Dt:      dt,
				Trigger: pulseEvery > 0 && i%pulseEvery == 0,
			}
			frame := session.Tick(gctx, in)
			select {
			case frames <- frame:
			default:
			}
		}
		return nil
	})
	g.Go(func() error {
		log := logger.WithField("function", "runHeadless")
		last := -1.0
		for frame := range frames {
			if frame.HUD.Elapsed-last < 1 {
				continue
			}
			last = frame.HUD.Elapsed
			log.WithFields(logrus.Fields{
				"elapsed": frame.HUD.Elapsed,
				"focus":   frame.HUD.FocusAngle,
				"radius":  frame.Radar.Radius,
				"fps":     frame.HUD.FPS,
				"muted":   frame.Muted,
			}).Info("tick")
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
