package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/chain"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/domain/event"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/domain/model"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/metrics"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/pipeline/extractor"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/pipeline/retry"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
	otelTrace "go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	defaultRetryMaxAttempts = 4
	defaultPollInterval     = 5 * time.Second
)

// Fetcher consumes FetchJobs, pulls each checkpoint from the source,
// extracts its domain events and hands the result to the writer.
type Fetcher struct {
	source      chain.CheckpointSource
	jobCh       <-chan event.FetchJob
	extractedCh chan<- event.ExtractedCheckpoint
	workerCount int
	logger      *slog.Logger

	retryMaxAttempts int
	backoff          retry.Backoff
	pollInterval     time.Duration
	sleepFn          func(ctx context.Context, d time.Duration) error
	extract          func(*model.Checkpoint) event.ExtractedCheckpoint
}

type Option func(*Fetcher)

func WithRetryMaxAttempts(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.retryMaxAttempts = n
		}
	}
}

func WithBackoff(b retry.Backoff) Option {
	return func(f *Fetcher) {
		f.backoff = b
	}
}

// WithPollInterval sets the pause after a fetch beyond the source tip.
func WithPollInterval(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.pollInterval = d
		}
	}
}

func WithSleepFunc(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(f *Fetcher) {
		if fn != nil {
			f.sleepFn = fn
		}
	}
}

func New(
	source chain.CheckpointSource,
	jobCh <-chan event.FetchJob,
	extractedCh chan<- event.ExtractedCheckpoint,
	workerCount int,
	logger *slog.Logger,
	opts ...Option,
) *Fetcher {
	if workerCount <= 0 {
		workerCount = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	f := &Fetcher{
		source:           source,
		jobCh:            jobCh,
		extractedCh:      extractedCh,
		workerCount:      workerCount,
		logger:           logger.With("component", "fetcher"),
		retryMaxAttempts: defaultRetryMaxAttempts,
		backoff:          retry.DefaultBackoff,
		pollInterval:     defaultPollInterval,
		sleepFn:          retry.Sleep,
		extract:          extractor.Extract,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Run starts the workers and blocks until the job channel closes, the
// context ends, or a worker hits a fatal error.
func (f *Fetcher) Run(ctx context.Context) error {
	f.logger.Info("fetcher started", "workers", f.workerCount)

	g, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < f.workerCount; i++ {
		g.Go(func() error {
			return f.worker(gCtx)
		})
	}

	err := g.Wait()
	f.logger.Info("fetcher stopped")
	return err
}

func (f *Fetcher) worker(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job, ok := <-f.jobCh:
			if !ok {
				return nil
			}
			extracted, err := f.processJob(ctx, job)
			if err != nil {
				return err
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case f.extractedCh <- extracted:
			}
		}
	}
}

func (f *Fetcher) processJob(ctx context.Context, job event.FetchJob) (event.ExtractedCheckpoint, error) {
	log := f.logger.With("worker_id", job.WorkerID, "checkpoint", job.Sequence)

	spanCtx, span := tracing.Tracer("fetcher").Start(ctx, "fetcher.processJob",
		otelTrace.WithAttributes(
			attribute.String("worker_id", job.WorkerID),
			attribute.Int64("checkpoint", job.Sequence),
		),
	)
	defer span.End()

	start := time.Now()
	cp, err := f.fetchWithRetry(spanCtx, log, job)
	metrics.FetcherLatency.WithLabelValues(job.WorkerID).Observe(time.Since(start).Seconds())
	if err != nil {
		if ctx.Err() == nil {
			tracing.Fail(span, err)
			metrics.FetcherErrors.WithLabelValues(job.WorkerID).Inc()
			log.Error("checkpoint fetch failed", "stage", model.StageFetching, "error", err)
		}
		return event.ExtractedCheckpoint{}, fmt.Errorf("fetch checkpoint %d: %w", job.Sequence, err)
	}
	metrics.FetcherCheckpointsFetched.WithLabelValues(job.WorkerID).Inc()

	extracted := f.extract(cp)
	span.SetAttributes(
		attribute.Int("events", len(extracted.Events)),
		attribute.Int("rejected", len(extracted.Rejected)),
	)
	for _, rej := range extracted.Rejected {
		log.Warn("event rejected by extractor",
			"stage", model.StageExtracting,
			"event_id", rej.EventID,
			"kind", rej.Kind,
			"reason", rej.Reason,
			"error", rej.Detail,
		)
	}
	log.Debug("checkpoint extracted",
		"events", len(extracted.Events),
		"rejected", len(extracted.Rejected),
		"discarded", extracted.Discarded,
	)
	return extracted, nil
}

// fetchWithRetry polls past the tip without consuming attempts; only
// transient failures count toward the attempt budget.
func (f *Fetcher) fetchWithRetry(ctx context.Context, log *slog.Logger, job event.FetchJob) (*model.Checkpoint, error) {
	const stage = "fetcher.get_checkpoint"

	var lastErr error
	lastDecision := retry.Decision{
		Class:  retry.ClassTerminal,
		Reason: "unset",
	}
	attempt := 1
	for attempt <= f.retryMaxAttempts {
		cp, err := f.source.GetCheckpoint(ctx, job.Sequence)
		if err == nil {
			return cp, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if errors.Is(err, chain.ErrNotYetAvailable) {
			metrics.FetcherNotYetAvailable.WithLabelValues(job.WorkerID).Inc()
			log.Debug("checkpoint not yet available", "poll_interval", f.pollInterval)
			if sleepErr := f.sleepFn(ctx, f.pollInterval); sleepErr != nil {
				return nil, sleepErr
			}
			continue
		}

		lastErr = err
		lastDecision = retry.Classify(err)
		if !lastDecision.IsTransient() {
			return nil, fmt.Errorf("terminal_failure stage=%s attempt=%d reason=%s: %w", stage, attempt, lastDecision.Reason, err)
		}
		if attempt == f.retryMaxAttempts {
			break
		}

		metrics.FetcherRetries.WithLabelValues(job.WorkerID, lastDecision.Reason).Inc()
		log.Warn("checkpoint fetch failed; retrying",
			"stage", stage,
			"classification", lastDecision.Class,
			"classification_reason", lastDecision.Reason,
			"attempt", attempt,
			"error", err,
		)
		if sleepErr := f.sleepFn(ctx, f.backoff.Delay(attempt)); sleepErr != nil {
			return nil, sleepErr
		}
		attempt++
	}

	return nil, fmt.Errorf("transient_recovery_exhausted stage=%s attempts=%d reason=%s: %w", stage, f.retryMaxAttempts, lastDecision.Reason, lastErr)
}
