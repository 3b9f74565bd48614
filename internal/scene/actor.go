package scene

import "github.com/cwbudde/radarping/dsp/core"

// Move is the set of held movement keys.
type Move struct {
	Up, Down, Left, Right bool
}

// Actor is the listener avatar moving inside a rectangular field.
type Actor struct {
	Position Vec2
	Speed    float64 // units per second
	Field    Vec2    // width and height; zero means unbounded
}

// NewActor places an actor at the centre of field.
func NewActor(field Vec2, speed float64) *Actor {
	return &Actor{Position: field.Scale(0.5), Speed: speed, Field: field}
}

// Step moves the actor for dt seconds. Opposite keys cancel and diagonal
// moves are not normalized.
func (a *Actor) Step(m Move, dt float64) {
	if dt <= 0 {
		return
	}
	step := a.Speed * dt
	if m.Up {
		a.Position.Y -= step
	}
	if m.Down {
		a.Position.Y += step
	}
	if m.Left {
		a.Position.X -= step
	}
	if m.Right {
		a.Position.X += step
	}

	if a.Field.X > 0 {
		a.Position.X = core.Clamp(a.Position.X, 0, a.Field.X)
	}
	if a.Field.Y > 0 {
		a.Position.Y = core.Clamp(a.Position.Y, 0, a.Field.Y)
	}
}
