package buffer

import (
	"math"
	"testing"
)

func TestToInt16Clamps(t *testing.T) {
	src := []float64{0, 1, -1, 2.5, -7, 0.5, math.NaN()}
	dst := make([]int16, len(src))
	ToInt16(dst, src)

	want := []int16{0, 32767, -32767, 32767, -32767, 16384, 0}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst[%d] = %d, want %d", i, dst[i], want[i])
		}
	}
}

func TestFromInt16(t *testing.T) {
	dst := make([]float64, 3)
	FromInt16(dst, []int16{0, -32768, 16384})
	want := []float64{0, -1, 0.5}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestAppendInt16LE(t *testing.T) {
	got := AppendInt16LE(nil, []float64{1, -1})
	want := []byte{0xff, 0x7f, 0x01, 0x80}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d = %#x, want %#x", i, got[i], want[i])
		}
	}
}
