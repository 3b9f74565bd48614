// Package interp provides fractional interpolation primitives used by the
// delay lines of the binaural renderer.
//
//   - [Linear2]:  2-point linear interpolation
//   - [Hermite4]: 4-point cubic Hermite (default)
//
// [Mode] selects the algorithm at construction time of a delay line.
package interp
