package buffer

import (
	"encoding/binary"
	"math"
)

// ToInt16 converts float samples to signed 16-bit PCM. Samples are clamped
// to [-1, 1] before scaling so out-of-range values saturate instead of
// wrapping. dst must be at least as long as src.
func ToInt16(dst []int16, src []float64) {
	for i, v := range src {
		if math.IsNaN(v) {
			v = 0
		}
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		dst[i] = int16(math.Round(v * math.MaxInt16))
	}
}

// FromInt16 converts signed 16-bit PCM to floats in [-1, 1).
func FromInt16(dst []float64, src []int16) {
	for i, v := range src {
		dst[i] = float64(v) / 32768
	}
}

// AppendInt16LE appends src as clamped little-endian signed 16-bit PCM.
func AppendInt16LE(dst []byte, src []float64) []byte {
	pcm := make([]int16, len(src))
	ToInt16(pcm, src)
	for _, v := range pcm {
		dst = binary.LittleEndian.AppendUint16(dst, uint16(v))
	}
	return dst
}
