// Package scene holds the per-tick state of the radar demo: the actor,
// the attention cone toward the pointer, the radar pulse ring and the
// mapping from screen positions to listener-relative directions.
//
// Screen coordinates have +X to the right and +Y downward. Nothing in
// this package is safe for concurrent use.
package scene
