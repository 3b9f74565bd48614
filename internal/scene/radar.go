package scene

import (
	"fmt"

	"github.com/cwbudde/radarping/dsp/core"
)

// RadarConfig tunes the pulse ring.
type RadarConfig struct {
	Speed        float64 // units per second
	MinRadius    float64
	MaxRadius    float64
	AlphaCeiling float64
	Fade         bool
}

// DefaultRadar returns the demo's pulse settings.
func DefaultRadar() RadarConfig {
	return RadarConfig{
		Speed:        1500,
		MinRadius:    10,
		MaxRadius:    600,
		AlphaCeiling: 30,
		Fade:         true,
	}
}

// Validate checks the ring parameters.
func (c RadarConfig) Validate() error {
	if !(c.Speed > 0) {
		return fmt.Errorf("scene: radar speed must be > 0: %v", c.Speed)
	}
	if c.MinRadius < 0 || !(c.MaxRadius > c.MinRadius) {
		return fmt.Errorf("scene: radar radius range [%v, %v] is invalid", c.MinRadius, c.MaxRadius)
	}
	if c.AlphaCeiling < 0 || c.AlphaCeiling > 255 {
		return fmt.Errorf("scene: radar alpha ceiling must be in [0, 255]: %v", c.AlphaCeiling)
	}
	return nil
}

// RadarState is a snapshot of the ring.
type RadarState struct {
	Radius    float64
	Expanding bool
	Alpha     float64
}

// Radar is the idle/expanding pulse ring.
type Radar struct {
	cfg       RadarConfig
	radius    float64
	expanding bool
}

// NewRadar returns an idle radar.
func NewRadar(cfg RadarConfig) *Radar {
	return &Radar{cfg: cfg, radius: cfg.MinRadius}
}

// Trigger starts a pulse from the minimum radius. A pulse already in
// flight restarts.
func (r *Radar) Trigger() {
	r.radius = r.cfg.MinRadius
	r.expanding = true
}

// Tick advances the ring by dt seconds. Once it reaches the maximum the
// radar goes idle at the minimum radius. Negative dt counts as zero.
func (r *Radar) Tick(dt float64) {
	if !r.expanding || dt <= 0 {
		return
	}
	r.radius += r.cfg.Speed * dt
	if r.radius >= r.cfg.MaxRadius {
		r.expanding = false
		r.radius = r.cfg.MinRadius
	}
}

// State returns the current radius, phase and ring alpha.
func (r *Radar) State() RadarState {
	return RadarState{Radius: r.radius, Expanding: r.expanding, Alpha: r.alpha()}
}

func (r *Radar) alpha() float64 {
	if !r.cfg.Fade {
		return r.cfg.AlphaCeiling
	}
	return core.Clamp(255*(1-r.radius/r.cfg.MaxRadius), 0, r.cfg.AlphaCeiling)
}
