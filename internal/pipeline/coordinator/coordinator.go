package coordinator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/domain/event"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/metrics"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/store"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
	otelTrace "go.opentelemetry.io/otel/trace"
)

// Coordinator emits checkpoint fetch jobs in sequence order, one window
// token per job.
type Coordinator struct {
	workerID   string
	cursorRepo store.CursorRepository
	start      int64
	window     *Window
	jobCh      chan<- event.FetchJob
	logger     *slog.Logger
}

func New(
	workerID string,
	cursorRepo store.CursorRepository,
	start int64,
	window *Window,
	jobCh chan<- event.FetchJob,
	logger *slog.Logger,
) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		workerID:   workerID,
		cursorRepo: cursorRepo,
		start:      start,
		window:     window,
		jobCh:      jobCh,
		logger:     logger.With("component", "coordinator", "worker_id", workerID),
	}
}

// Resume returns the first checkpoint to fetch: one past the durable
// cursor, but never below the configured start.
func (c *Coordinator) Resume(ctx context.Context) (int64, error) {
	ctx, span := tracing.Tracer("coordinator").Start(ctx, "coordinator.resume",
		otelTrace.WithAttributes(attribute.String("worker_id", c.workerID)),
	)
	defer span.End()

	cursor, err := c.cursorRepo.Get(ctx, c.workerID)
	if err != nil {
		tracing.Fail(span, err)
		return 0, fmt.Errorf("load cursor %s: %w", c.workerID, err)
	}
	next := cursor.NextSequence(c.start)
	if cursor != nil {
		metrics.PipelineCursorSequence.WithLabelValues(c.workerID).Set(float64(cursor.LastCheckpointProcessed))
	}
	span.SetAttributes(attribute.Int64("resume_from", next))
	c.logger.Info("resuming", "checkpoint", next, "has_cursor", cursor != nil, "start_checkpoint", c.start)
	return next, nil
}

// Run emits from, from+1, ... until ctx is cancelled. It closes the job
// channel on return so fetch workers drain and exit.
func (c *Coordinator) Run(ctx context.Context, from int64) error {
	defer close(c.jobCh)
	c.logger.Info("coordinator started", "from", from, "window", c.window.Size())

	for seq := from; ; seq++ {
		if err := c.window.Acquire(ctx); err != nil {
			c.logger.Info("coordinator stopping", "next", seq)
			return err
		}
		select {
		case c.jobCh <- event.FetchJob{WorkerID: c.workerID, Sequence: seq}:
			metrics.CoordinatorJobsEmitted.WithLabelValues(c.workerID).Inc()
		case <-ctx.Done():
			c.window.Release()
			c.logger.Info("coordinator stopping", "next", seq)
			return ctx.Err()
		}
	}
}
