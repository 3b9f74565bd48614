package buffer

import "fmt"

// Interleave writes left and right into dst as L0 R0 L1 R1 ...
// dst must hold 2*len(left) samples and right must match left.
func Interleave(dst, left, right []float64) error {
	if len(left) != len(right) {
		return fmt.Errorf("buffer: interleave channel lengths %d and %d differ", len(left), len(right))
	}
	if len(dst) < 2*len(left) {
		return fmt.Errorf("buffer: interleave needs %d samples, dst has %d", 2*len(left), len(dst))
	}
	for i := range left {
		dst[2*i] = left[i]
		dst[2*i+1] = right[i]
	}
	return nil
}

// Deinterleave splits a stereo slice into left and right.
func Deinterleave(left, right, src []float64) error {
	if len(src)%2 != 0 {
		return fmt.Errorf("%w: %d samples, 2 channels", ErrChannelMismatch, len(src))
	}
	n := len(src) / 2
	if len(left) < n || len(right) < n {
		return fmt.Errorf("buffer: deinterleave needs %d samples per channel", n)
	}
	for i := 0; i < n; i++ {
		left[i] = src[2*i]
		right[i] = src[2*i+1]
	}
	return nil
}

// Downmix averages interleaved channels into a mono slice and returns it.
// dst is reused when it has enough capacity.
func Downmix(dst, src []float64, channels int) ([]float64, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}
	if len(src)%channels != 0 {
		return nil, fmt.Errorf("%w: %d samples, %d channels", ErrChannelMismatch, len(src), channels)
	}
	n := len(src) / channels
	if cap(dst) >= n {
		dst = dst[:n]
	} else {
		dst = make([]float64, n)
	}
	scale := 1 / float64(channels)
	for i := 0; i < n; i++ {
		sum := 0.0
		for ch := 0; ch < channels; ch++ {
			sum += src[i*channels+ch]
		}
		dst[i] = sum * scale
	}
	return dst, nil
}
