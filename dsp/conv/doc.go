// Package conv provides convolution routines for impulse-response rendering.
//
//   - [Direct]: O(N*M) time-domain convolution, used as a reference and to
//     combine short filter stages.
//   - [SpectralOverlapSave]: streaming FFT overlap-save where the kernel is
//     supplied per block as a precomputed spectrum. Several kernels can be
//     applied to the same input block, which is what a crossfade between
//     two impulse responses needs.
//
// All FFTs go through algo-fft plans sized to the next power of two that
// holds one block plus the kernel tail.
package conv
