package coordinator

import (
	"context"
	"sync/atomic"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/metrics"
	"golang.org/x/sync/semaphore"
)

// Window bounds how many checkpoints may be in flight beyond the durable
// cursor. The coordinator acquires one token per emitted job; the
// sequencer releases it once that checkpoint's cursor advance is durable.
type Window struct {
	sem      *semaphore.Weighted
	size     int
	inFlight atomic.Int64
	workerID string
}

func NewWindow(size int, workerID string) *Window {
	if size < 1 {
		size = 1
	}
	return &Window{
		sem:      semaphore.NewWeighted(int64(size)),
		size:     size,
		workerID: workerID,
	}
}

// Acquire blocks until a slot is free or ctx is done.
func (w *Window) Acquire(ctx context.Context) error {
	if err := w.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	n := w.inFlight.Add(1)
	metrics.CoordinatorWindowInFlight.WithLabelValues(w.workerID).Set(float64(n))
	return nil
}

func (w *Window) Release() {
	n := w.inFlight.Add(-1)
	metrics.CoordinatorWindowInFlight.WithLabelValues(w.workerID).Set(float64(n))
	w.sem.Release(1)
}

func (w *Window) InFlight() int { return int(w.inFlight.Load()) }

func (w *Window) Size() int { return w.size }
