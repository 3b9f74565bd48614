// Package spatial renders mono audio as binaural stereo.
//
// An Engine owns three resources built in order: a Context, an HRTF and a
// BinauralEffect. Initialize rolls back whatever it built when a later
// stage fails, and Shutdown releases the resources in reverse order.
//
// Apply spatializes one frame of exactly FrameSize samples toward a
// listener-relative direction and returns 2*FrameSize interleaved stereo
// samples. Spatialize streams a whole mono buffer through Apply, zero
// padding the last partial frame and trimming the result back to the
// source length.
//
// Direction vectors use +X right, +Y up and -Z ahead of the listener.
// Leftward directions make the left channel louder and earlier.
package spatial
