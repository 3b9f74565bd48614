package spatial

import (
	"context"
	"sync"
	"time"

	"github.com/cwbudde/radarping/dsp/buffer"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Request asks a Worker to spatialize one source.
type Request struct {
	ID        uuid.UUID
	Source    *buffer.Buffer
	Direction Vector3
}

// Result is the outcome of a Request.
type Result struct {
	ID      uuid.UUID
	Output  *buffer.Buffer
	Err     error
	Elapsed time.Duration
}

// Worker feeds requests to an Engine from a single goroutine, so callers
// on other goroutines never block on the engine lock.
type Worker struct {
	engine  *Engine
	logger  logrus.FieldLogger
	queue   chan Request
	results chan Result
	done    chan struct{}
	quit    chan struct{}

	quitOnce sync.Once
	mu       sync.RWMutex
	closed   bool
}

// NewWorker starts a worker with room for queueSize pending requests and
// as many undelivered results.
func NewWorker(engine *Engine, queueSize int) *Worker {
	if queueSize < 1 {
		queueSize = 1
	}
	w := &Worker{
		engine:  engine,
		logger:  logrus.StandardLogger(),
		queue:   make(chan Request, queueSize),
		results: make(chan Result, queueSize),
		done:    make(chan struct{}),
		quit:    make(chan struct{}),
	}
	if engine != nil {
		w.logger = engine.logger
	}
	go w.run()
	return w
}

func (w *Worker) run() {
	defer close(w.done)
	defer close(w.results)

	for req := range w.queue {
		start := time.Now()
		out, err := Spatialize(w.engine, req.Source, req.Direction)
		res := Result{ID: req.ID, Output: out, Err: err, Elapsed: time.Since(start)}
		if err != nil {
			w.logger.WithFields(logrus.Fields{
				"function":   "Worker.run",
				"request_id": req.ID.String(),
			}).WithError(err).Warn("spatialize failed")
		}
		w.results <- res
	}
}

// Submit queues source for rendering toward direction and returns the
// request ID that the matching Result will carry. It blocks while the
// queue is full, until ctx is done or Close is called.
func (w *Worker) Submit(ctx context.Context, source *buffer.Buffer, direction Vector3) (uuid.UUID, error) {
	req := Request{ID: uuid.New(), Source: source, Direction: direction}

	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return uuid.Nil, ErrWorkerClosed
	}

	select {
	case w.queue <- req:
		return req.ID, nil
	case <-ctx.Done():
		return uuid.Nil, ctx.Err()
	case <-w.quit:
		return uuid.Nil, ErrWorkerClosed
	}
}

// TrySubmit is Submit without waiting: a full queue yields ErrQueueFull.
func (w *Worker) TrySubmit(source *buffer.Buffer, direction Vector3) (uuid.UUID, error) {
	req := Request{ID: uuid.New(), Source: source, Direction: direction}

	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return uuid.Nil, ErrWorkerClosed
	}

	select {
	case w.queue <- req:
		return req.ID, nil
	default:
		return uuid.Nil, ErrQueueFull
	}
}

// Results delivers one Result per accepted request, in submission order.
// It is closed after Close once the queue has drained.
func (w *Worker) Results() <-chan Result {
	return w.results
}

// Close stops accepting requests and waits until the queued ones have
// been processed. Submit calls blocked on a full queue return
// ErrWorkerClosed. Results must be drained concurrently or have room for
// the pending requests.
func (w *Worker) Close() {
	w.quitOnce.Do(func() { close(w.quit) })

	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()
	<-w.done
}
