package spatial

import (
	"errors"
	"fmt"
)

var (
	// ErrInitialization wraps a failure while building one of the engine's
	// resources. The message names the failing stage.
	ErrInitialization = errors.New("spatial: initialization failed")
	// ErrFrameSize indicates a mono frame whose length differs from the
	// engine's frame size.
	ErrFrameSize = errors.New("spatial: frame size mismatch")
	// ErrShutdown indicates use of an engine after Shutdown.
	ErrShutdown = errors.New("spatial: engine is shut down")
	// ErrNotInitialized indicates a nil engine.
	ErrNotInitialized = errors.New("spatial: engine not initialized")
	// ErrNotMono indicates a source buffer with more than one channel.
	ErrNotMono = errors.New("spatial: source must be mono")
	// ErrSampleRate indicates a source whose sample rate differs from the
	// engine's.
	ErrSampleRate = errors.New("spatial: sample rate mismatch")
	// ErrReleased indicates use of a resource after Release.
	ErrReleased = errors.New("spatial: resource released")
	// ErrWorkerClosed indicates a submit to a closed worker.
	ErrWorkerClosed = errors.New("spatial: worker closed")
	// ErrQueueFull indicates a TrySubmit to a worker with no free slot.
	ErrQueueFull = errors.New("spatial: worker queue full")
)

// Initialization stages, in build order.
const (
	StageContext = "context"
	StageHRTF    = "hrtf"
	StageEffect  = "effect"
)

// InitError reports the stage at which Initialize failed. It matches
// ErrInitialization as well as the underlying cause.
type InitError struct {
	Stage string
	Err   error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("spatial: initialization failed at %s stage: %v", e.Stage, e.Err)
}

// Unwrap returns ErrInitialization and the underlying cause.
func (e *InitError) Unwrap() []error {
	return []error{ErrInitialization, e.Err}
}
