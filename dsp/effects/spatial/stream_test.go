package spatial

import (
	"errors"
	"testing"

	"github.com/cwbudde/radarping/dsp/buffer"
	"github.com/cwbudde/radarping/internal/testutil"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func TestFrameCount(t *testing.T) {
	tests := []struct {
		length, frameSize, want int
	}{
		{0, 512, 0},
		{1, 512, 1},
		{512, 512, 1},
		{1000, 512, 2},
		{1025, 1024, 2},
		{100, 0, 0},
	}
	for _, tt := range tests {
		if got := FrameCount(tt.length, tt.frameSize); got != tt.want {
			t.Errorf("FrameCount(%d, %d) = %d, want %d", tt.length, tt.frameSize, got, tt.want)
		}
	}
}

func TestSpatializeMatchesFrameByFrame(t *testing.T) {
	const n = 1000
	src := testutil.DeterministicNoise(11, 0.5, n)
	dir := Vector3{X: -0.5, Z: -1}

	streamed := newTestEngine(t)
	out, err := Spatialize(streamed, buffer.FromMono(src, 16000), dir)
	if err != nil {
		t.Fatalf("Spatialize() error = %v", err)
	}
	if out.Channels() != 2 || out.Len() != 2*n {
		t.Fatalf("output: %d channels, %d samples, want 2 channels, %d samples", out.Channels(), out.Len(), 2*n)
	}

	manual := newTestEngine(t)
	fs := manual.FrameSize()
	var want []float64
	for i := 0; i < FrameCount(n, fs); i++ {
		frame := make([]float64, fs)
		copy(frame, src[i*fs:min((i+1)*fs, n)])
		stereo, err := manual.Apply(dir, frame)
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		want = append(want, stereo...)
	}

	testutil.RequireSliceNearlyEqual(t, out.Samples(), want[:2*n], 1e-12)
}

func TestSpatializeEmptySource(t *testing.T) {
	e := newTestEngine(t)
	out, err := Spatialize(e, buffer.FromMono(nil, 16000), Vector3{Z: -1})
	if err != nil {
		t.Fatalf("Spatialize() error = %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", out.Len())
	}
}

func TestSpatializeRejectsSource(t *testing.T) {
	e := newTestEngine(t)

	stereo, err := buffer.New(10, 2, 16000)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Spatialize(e, stereo, Vector3{}); !errors.Is(err, ErrNotMono) {
		t.Fatalf("stereo source error = %v, want ErrNotMono", err)
	}
	if _, err := Spatialize(e, buffer.FromMono(make([]float64, 10), 44100), Vector3{}); !errors.Is(err, ErrSampleRate) {
		t.Fatalf("rate mismatch error = %v, want ErrSampleRate", err)
	}
	if _, err := Spatialize(e, nil, Vector3{}); err == nil {
		t.Fatal("expected error for nil source")
	}

	e.Shutdown()
	if _, err := Spatialize(e, buffer.FromMono(make([]float64, 10), 16000), Vector3{}); !errors.Is(err, ErrShutdown) {
		t.Fatalf("after Shutdown error = %v, want ErrShutdown", err)
	}
}

func TestSpatialize1000At512(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	e, err := Initialize(44100, 512, WithLogger(logger))
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	defer e.Shutdown()

	out, err := Spatialize(e, buffer.FromMono(testutil.DeterministicSine(440, 44100, 0.5, 1000), 44100), Vector3{X: 1})
	if err != nil {
		t.Fatalf("Spatialize() error = %v", err)
	}
	if out.Channels() != 2 || out.Len() != 2000 {
		t.Fatalf("output: %d channels, %d samples, want 2 channels, 2000 samples", out.Channels(), out.Len())
	}
	testutil.RequireFinite(t, out.Samples())
}

func TestSpatializeOutOfOrderDiffers(t *testing.T) {
	src := testutil.DeterministicNoise(5, 0.5, 3*256)
	dir := Vector3{X: 0.7, Z: -0.3}

	render := func(order []int) []float64 {
		e := newTestEngine(t)
		fs := e.FrameSize()
		out := make([]float64, 2*len(src))
		for _, i := range order {
			stereo, err := e.Apply(dir, src[i*fs:(i+1)*fs])
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			copy(out[2*fs*i:], stereo)
		}
		return out
	}

	inOrder := render([]int{0, 1, 2})
	again := render([]int{0, 1, 2})
	testutil.RequireSliceNearlyEqual(t, again, inOrder, 1e-12)

	shuffled := render([]int{2, 0, 1})
	maxDiff, err := testutil.MaxAbsDiff(inOrder, shuffled)
	if err != nil {
		t.Fatal(err)
	}
	if maxDiff < 1e-3 {
		t.Fatalf("out-of-order max difference = %g, want the effect history to change the output", maxDiff)
	}
}
