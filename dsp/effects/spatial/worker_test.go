package spatial

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cwbudde/radarping/dsp/buffer"
	"github.com/cwbudde/radarping/internal/testutil"
	"github.com/google/uuid"
)

func TestWorkerDeliversInOrder(t *testing.T) {
	e := newTestEngine(t)
	w := NewWorker(e, 4)

	src := buffer.FromMono(testutil.DeterministicNoise(5, 0.5, 600), 16000)
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		id, err := w.Submit(context.Background(), src, Vector3{X: -1})
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		ids = append(ids, id)
	}

	for i, want := range ids {
		select {
		case res := <-w.Results():
			if res.ID != want {
				t.Fatalf("result %d ID = %v, want %v", i, res.ID, want)
			}
			if res.Err != nil {
				t.Fatalf("result %d error = %v", i, res.Err)
			}
			if res.Output.Len() != 1200 {
				t.Fatalf("result %d Len() = %d, want 1200", i, res.Output.Len())
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for result %d", i)
		}
	}

	w.Close()
	if _, ok := <-w.Results(); ok {
		t.Fatal("results channel still open after Close")
	}
	if _, err := w.Submit(context.Background(), src, Vector3{}); !errors.Is(err, ErrWorkerClosed) {
		t.Fatalf("Submit() after Close error = %v, want ErrWorkerClosed", err)
	}
	w.Close()
}

func TestWorkerReportsErrors(t *testing.T) {
	e := newTestEngine(t)
	w := NewWorker(e, 1)
	defer w.Close()

	stereo, _ := buffer.New(16, 2, 16000)
	id, err := w.Submit(context.Background(), stereo, Vector3{})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	res := <-w.Results()
	if res.ID != id || !errors.Is(res.Err, ErrNotMono) {
		t.Fatalf("result = %+v, want ErrNotMono for %v", res, id)
	}
}

func TestWorkerSubmitHonoursContext(t *testing.T) {
	// A nil engine fails fast, so the queue only fills while results are
	// not drained.
	w := NewWorker(nil, 1)
	src := buffer.FromMono(make([]float64, 16), 16000)

	for i := 0; i < 3; i++ {
		if _, err := w.Submit(context.Background(), src, Vector3{}); err != nil {
			t.Fatalf("Submit() %d error = %v", i, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := w.Submit(ctx, src, Vector3{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Submit() on full queue error = %v, want DeadlineExceeded", err)
	}

	if _, err := w.TrySubmit(src, Vector3{}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("TrySubmit() on full queue error = %v, want ErrQueueFull", err)
	}

	go func() {
		for range w.Results() {
		}
	}()
	w.Close()

	if _, err := w.TrySubmit(src, Vector3{}); !errors.Is(err, ErrWorkerClosed) {
		t.Fatalf("TrySubmit() after Close error = %v, want ErrWorkerClosed", err)
	}
}

func TestWorkerCloseReleasesBlockedSubmit(t *testing.T) {
	w := NewWorker(nil, 1)
	src := buffer.FromMono(make([]float64, 16), 16000)

	// Results are not drained, so three requests leave the queue full.
	for i := 0; i < 3; i++ {
		if _, err := w.Submit(context.Background(), src, Vector3{}); err != nil {
			t.Fatalf("Submit() %d error = %v", i, err)
		}
	}

	submitted := make(chan error, 1)
	go func() {
		_, err := w.Submit(context.Background(), src, Vector3{})
		submitted <- err
	}()
	select {
	case err := <-submitted:
		t.Fatalf("Submit() on full queue returned early: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	closed := make(chan struct{})
	go func() {
		w.Close()
		close(closed)
	}()

	select {
	case err := <-submitted:
		if !errors.Is(err, ErrWorkerClosed) {
			t.Fatalf("blocked Submit() error = %v, want ErrWorkerClosed", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not release the blocked Submit")
	}

	go func() {
		for range w.Results() {
		}
	}()
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return after results were drained")
	}
}
