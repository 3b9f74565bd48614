package scene

import "fmt"

// FPSCounter averages the tick rate over fixed intervals.
type FPSCounter struct {
	interval float64
	elapsed  float64
	mark     float64
	frames   int
	fps      float64
}

// NewFPSCounter returns a counter that updates every interval seconds.
func NewFPSCounter(interval float64) *FPSCounter {
	if interval <= 0 {
		interval = 0.2
	}
	return &FPSCounter{interval: interval}
}

// Tick records one frame that took dt seconds.
func (c *FPSCounter) Tick(dt float64) {
	if dt > 0 {
		c.elapsed += dt
	}
	c.frames++
	if span := c.elapsed - c.mark; span >= c.interval {
		c.fps = float64(c.frames) / span
		c.mark = c.elapsed
		c.frames = 0
	}
}

// FPS returns the rate of the last completed interval.
func (c *FPSCounter) FPS() float64 {
	return c.fps
}

// Elapsed returns the total time seen by Tick.
func (c *FPSCounter) Elapsed() float64 {
	return c.elapsed
}

// HUD is the text overlay of the demo.
type HUD struct {
	Elapsed    float64
	Pointer    Vec2
	FocusAngle float64
	FPS        float64
}

// Lines returns the left column of the overlay followed by the FPS
// readout, which front-ends place in the top-right corner.
func (h HUD) Lines() (left []string, fps string) {
	left = []string{
		fmt.Sprintf("Elapsed Time: %.6f", h.Elapsed),
		fmt.Sprintf("Mouse Position: x = %.0f y = %.0f", h.Pointer.X, h.Pointer.Y),
		fmt.Sprintf("Mouse Radian: %.6f", h.FocusAngle),
	}
	return left, fmt.Sprintf("FPS: %.1f", h.FPS)
}
