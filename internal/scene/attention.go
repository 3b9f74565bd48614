package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/radarping/dsp/core"
)

// AttentionConfig bounds the attention cone. Angles are in radians.
type AttentionConfig struct {
	MinRadius      float64
	MaxRadius      float64
	MaxDistance    float64
	MinSectorWidth float64
	MaxSectorWidth float64
}

// DefaultAttention returns the demo's cone limits.
func DefaultAttention() AttentionConfig {
	return AttentionConfig{
		MinRadius:      60,
		MaxRadius:      1000,
		MaxDistance:    800,
		MinSectorWidth: 5 * math.Pi / 180,
		MaxSectorWidth: 240 * math.Pi / 180,
	}
}

// Validate reports every inconsistent field.
func (c AttentionConfig) Validate() error {
	var errs []error
	if !(c.MaxDistance > 0) {
		errs = append(errs, fmt.Errorf("scene: max distance must be > 0: %v", c.MaxDistance))
	}
	if c.MinRadius < 0 || c.MinRadius > c.MaxRadius {
		errs = append(errs, fmt.Errorf("scene: radius range [%v, %v] is invalid", c.MinRadius, c.MaxRadius))
	}
	if c.MinSectorWidth < 0 || c.MinSectorWidth > c.MaxSectorWidth || c.MaxSectorWidth > 2*math.Pi {
		errs = append(errs, fmt.Errorf("scene: sector range [%v, %v] is invalid", c.MinSectorWidth, c.MaxSectorWidth))
	}
	return errors.Join(errs...)
}

// Cone is the attention sector from the actor toward the pointer.
// StartAngle and EndAngle are not wrapped into (-Pi, Pi].
type Cone struct {
	Center             Vec2
	OuterRadius        float64
	StartAngle         float64
	EndAngle           float64
	FocusAngle         float64
	SectorWidth        float64
	NormalizedDistance float64
}

// ComputeCone derives the cone for the current actor and pointer. Far
// pointers give a long, narrow cone; near pointers a short, wide one.
func ComputeCone(actor, pointer Vec2, cfg AttentionConfig) Cone {
	d := pointer.Sub(actor)
	norm := math.Min(d.Len(), cfg.MaxDistance) / cfg.MaxDistance

	width := core.Lerp(cfg.MinSectorWidth, cfg.MaxSectorWidth, 1-norm)
	focus := math.Atan2(d.Y, d.X)

	return Cone{
		Center:             actor,
		OuterRadius:        core.Lerp(cfg.MinRadius, cfg.MaxRadius, norm),
		StartAngle:         focus - width/2,
		EndAngle:           focus + width/2,
		FocusAngle:         focus,
		SectorWidth:        width,
		NormalizedDistance: norm,
	}
}

// Outline returns a triangle fan of n vertices: the center followed by
// n-1 points on the arc from StartAngle to EndAngle.
func (c Cone) Outline(n int) []Vec2 {
	if n < 3 {
		return nil
	}
	pts := make([]Vec2, n)
	pts[0] = c.Center
	for i := 1; i < n; i++ {
		a := c.StartAngle + (c.EndAngle-c.StartAngle)*float64(i-1)/float64(n-2)
		pts[i] = c.Center.Add(Vec2{math.Cos(a), math.Sin(a)}.Scale(c.OuterRadius))
	}
	return pts
}
