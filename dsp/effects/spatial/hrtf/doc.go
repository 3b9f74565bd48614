// Package hrtf models head-related transfer functions for binaural rendering.
//
// A [Provider] synthesizes or loads a [Dataset]: left/right head-related
// impulse responses (HRIRs) with their interaural delays stripped out, on a
// regular azimuth/elevation grid. A [Profile] wraps a validated dataset and
// answers direction lookups with nearest-neighbour or bilinear interpolation.
//
// Coordinates are listener-relative: +X right, +Y up, -Z ahead. Azimuth is
// measured from straight ahead, positive towards the right; elevation is
// positive upwards.
package hrtf
