// Package observe provides the OpenTelemetry metric instruments of
// radarping. Tests should use NewMetrics with their own
// metric.MeterProvider; DefaultMetrics binds to the global provider.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/cwbudde/radarping"

// Metrics holds all instruments. Safe for concurrent use.
type Metrics struct {
	// SpatialFrames counts frames rendered by the binaural engine.
	SpatialFrames metric.Int64Counter

	// SpatialDuration tracks per-frame render latency.
	SpatialDuration metric.Float64Histogram

	// InitFailures counts engine initialization failures. Use with
	// attribute.String("stage", ...).
	InitFailures metric.Int64Counter

	// RadarPulses counts radar triggers. Use with
	// attribute.Bool("muted", ...).
	RadarPulses metric.Int64Counter

	// PlaybackBuffers counts buffers handed to a sink. Use with
	// attribute.String("sink", ...), attribute.String("status", ...).
	PlaybackBuffers metric.Int64Counter
}

// frameBuckets are histogram boundaries in seconds. A 1024-sample frame
// at 44.1 kHz lasts about 23 ms.
var frameBuckets = []float64{
	0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05,
}

// NewMetrics creates every instrument from mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.SpatialFrames, err = m.Int64Counter("radarping.spatial.frames",
		metric.WithDescription("Frames rendered by the binaural engine."),
	); err != nil {
		return nil, err
	}
	if met.SpatialDuration, err = m.Float64Histogram("radarping.spatial.duration",
		metric.WithDescription("Latency of rendering one binaural frame."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(frameBuckets...),
	); err != nil {
		return nil, err
	}
	if met.InitFailures, err = m.Int64Counter("radarping.spatial.init_failures",
		metric.WithDescription("Binaural engine initialization failures by stage."),
	); err != nil {
		return nil, err
	}
	if met.RadarPulses, err = m.Int64Counter("radarping.radar.pulses",
		metric.WithDescription("Radar pulses triggered."),
	); err != nil {
		return nil, err
	}
	if met.PlaybackBuffers, err = m.Int64Counter("radarping.playback.buffers",
		metric.WithDescription("Stereo buffers handed to the output sink by sink and status."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level Metrics built from
// otel.GetMeterProvider on first use.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordFrame records one rendered frame and its latency.
func (m *Metrics) RecordFrame(ctx context.Context, elapsed time.Duration) {
	m.SpatialFrames.Add(ctx, 1)
	m.SpatialDuration.Record(ctx, elapsed.Seconds())
}

// RecordInitFailure records an initialization failure at stage.
func (m *Metrics) RecordInitFailure(ctx context.Context, stage string) {
	m.InitFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordPulse records a radar trigger.
func (m *Metrics) RecordPulse(ctx context.Context, muted bool) {
	m.RadarPulses.Add(ctx, 1, metric.WithAttributes(attribute.Bool("muted", muted)))
}

// RecordPlayback records a buffer handed to sink.
func (m *Metrics) RecordPlayback(ctx context.Context, sink, status string) {
	m.PlaybackBuffers.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("sink", sink),
			attribute.String("status", status),
		),
	)
}
