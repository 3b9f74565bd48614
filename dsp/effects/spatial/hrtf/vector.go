package hrtf

import "math"

// Vector3 is a listener-relative direction or position.
type Vector3 struct {
	X, Y, Z float64
}

// Forward points straight ahead of the listener.
var Forward = Vector3{X: 0, Y: 0, Z: -1}

// Len returns the Euclidean length of v.
func (v Vector3) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Dot returns the dot product of v and w.
func (v Vector3) Dot(w Vector3) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Normalize returns v scaled to unit length. Zero and non-finite vectors
// map to Forward.
func (v Vector3) Normalize() Vector3 {
	l := v.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return Forward
	}
	return Vector3{X: v.X / l, Y: v.Y / l, Z: v.Z / l}
}

// Direction is a source direction in radians.
type Direction struct {
	Azimuth   float64 // 0 ahead, +pi/2 right
	Elevation float64 // 0 horizontal, +pi/2 above
}

// ToDirection converts a vector to azimuth and elevation.
func ToDirection(v Vector3) Direction {
	n := v.Normalize()
	el := math.Asin(math.Max(-1, math.Min(1, n.Y)))
	az := 0.0
	if math.Abs(n.X) > 1e-12 || math.Abs(n.Z) > 1e-12 {
		az = math.Atan2(n.X, -n.Z)
	}
	return Direction{Azimuth: az, Elevation: el}
}

// Vector returns the unit vector pointing in direction d.
func (d Direction) Vector() Vector3 {
	cosEl := math.Cos(d.Elevation)
	return Vector3{
		X: cosEl * math.Sin(d.Azimuth),
		Y: math.Sin(d.Elevation),
		Z: -cosEl * math.Cos(d.Azimuth),
	}
}
