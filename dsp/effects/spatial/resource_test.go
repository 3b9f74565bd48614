package spatial

import (
	"errors"
	"testing"
)

func testAudio() AudioSettings {
	return AudioSettings{SampleRate: 16000, FrameSize: 256}
}

func TestContextReleaseIdempotent(t *testing.T) {
	ctx, err := NewContext(ContextSettings{})
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	if ctx.Released() {
		t.Fatal("new context reports released")
	}
	ctx.Release()
	ctx.Release()
	if !ctx.Released() {
		t.Fatal("context not released")
	}
}

func TestHRTFRetainsContext(t *testing.T) {
	ctx, err := NewContext(ContextSettings{})
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	h, err := NewHRTF(ctx, testAudio(), HRTFSettings{})
	if err != nil {
		t.Fatalf("NewHRTF() error = %v", err)
	}
	if h.Name() != "spherical-head" {
		t.Fatalf("Name() = %q, want spherical-head", h.Name())
	}

	ctx.Release()
	if ctx.Released() {
		t.Fatal("context freed while hrtf still holds it")
	}
	h.Release()
	if !h.Released() || !ctx.Released() {
		t.Fatalf("after hrtf release: hrtf released=%v context released=%v", h.Released(), ctx.Released())
	}
	h.Release()
}

func TestNewHRTFAfterContextRelease(t *testing.T) {
	ctx, err := NewContext(ContextSettings{})
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	ctx.Release()

	if _, err := NewHRTF(ctx, testAudio(), HRTFSettings{}); !errors.Is(err, ErrReleased) {
		t.Fatalf("NewHRTF() error = %v, want ErrReleased", err)
	}
}

func TestEffectRejectsRateMismatch(t *testing.T) {
	ctx, _ := NewContext(ContextSettings{})
	defer ctx.Release()
	h, err := NewHRTF(ctx, testAudio(), HRTFSettings{})
	if err != nil {
		t.Fatalf("NewHRTF() error = %v", err)
	}
	defer h.Release()

	_, err = NewBinauralEffect(h, AudioSettings{SampleRate: 22050, FrameSize: 256})
	if !errors.Is(err, ErrSampleRate) {
		t.Fatalf("NewBinauralEffect() error = %v, want ErrSampleRate", err)
	}
}

func TestEffectRetainsHRTF(t *testing.T) {
	ctx, _ := NewContext(ContextSettings{})
	h, err := NewHRTF(ctx, testAudio(), HRTFSettings{})
	if err != nil {
		t.Fatalf("NewHRTF() error = %v", err)
	}
	e, err := NewBinauralEffect(h, testAudio())
	if err != nil {
		t.Fatalf("NewBinauralEffect() error = %v", err)
	}

	h.Release()
	ctx.Release()
	if h.Released() || ctx.Released() {
		t.Fatal("parents freed while effect is alive")
	}

	e.Release()
	if !e.Released() || !h.Released() || !ctx.Released() {
		t.Fatal("release chain incomplete")
	}

	in := make([]float64, 256)
	out := make([]float64, 512)
	if err := e.Apply(EffectParams{Direction: Vector3{Z: -1}}, in, out); !errors.Is(err, ErrReleased) {
		t.Fatalf("Apply() after release error = %v, want ErrReleased", err)
	}
}
