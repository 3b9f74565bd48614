package interp

import "fmt"

// Mode selects an interpolation algorithm.
type Mode int

const (
	// Hermite is 4-point cubic Hermite interpolation.
	Hermite Mode = iota
	// Linear is 2-point linear interpolation.
	Linear
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Hermite:
		return "hermite"
	case Linear:
		return "linear"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps a mode name to a Mode.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "hermite", "":
		return Hermite, nil
	case "linear":
		return Linear, nil
	default:
		return 0, fmt.Errorf("interp: unknown mode %q", name)
	}
}

// Linear2 interpolates from x0 to x1.
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}
