package scene

import (
	"fmt"

	"github.com/cwbudde/radarping/dsp/effects/spatial/hrtf"
)

// DirectionMapping selects how a screen offset becomes a 3D direction.
type DirectionMapping int

const (
	// TopDown treats the screen as the ground plane seen from above with
	// the listener facing up the screen.
	TopDown DirectionMapping = iota
	// ScreenPlane treats the screen as a wall in front of the listener:
	// screen X/Y become left/right and up/down at a fixed depth.
	ScreenPlane
)

func (m DirectionMapping) String() string {
	switch m {
	case TopDown:
		return "top-down"
	case ScreenPlane:
		return "screen-plane"
	default:
		return fmt.Sprintf("DirectionMapping(%d)", int(m))
	}
}

// ParseDirectionMapping parses a mapping name. The empty string selects
// TopDown.
func ParseDirectionMapping(name string) (DirectionMapping, error) {
	switch name {
	case "", "top-down":
		return TopDown, nil
	case "screen-plane":
		return ScreenPlane, nil
	default:
		return 0, fmt.Errorf("scene: unknown direction mapping %q", name)
	}
}

// Mapper turns actor and pointer positions into a listener-relative
// direction.
type Mapper struct {
	Mode DirectionMapping
	// Depth is the distance to the virtual screen for ScreenPlane.
	Depth float64
}

// Direction returns the direction from actor toward pointer. Coincident
// positions under TopDown yield the zero vector, which the renderer
// treats as straight ahead.
func (m Mapper) Direction(actor, pointer Vec2) hrtf.Vector3 {
	d := pointer.Sub(actor)
	switch m.Mode {
	case ScreenPlane:
		return hrtf.Vector3{X: d.X, Y: -d.Y, Z: -m.Depth}
	default:
		return hrtf.Vector3{X: d.X, Y: 0, Z: d.Y}
	}
}
