package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/domain/event"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/domain/model"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/metrics"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/pipeline/ingester"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/pipeline/retry"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/store"
)

const (
	defaultAdvanceMaxAttempts = 5
	defaultAdvanceTimeout     = 30 * time.Second
)

// Applier commits one extracted checkpoint to the projection.
type Applier interface {
	Apply(ctx context.Context, seq int64, ex event.ExtractedCheckpoint) (*ingester.ApplyResult, error)
}

// Publisher announces checkpoints after their cursor advance.
type Publisher interface {
	Publish(ctx context.Context, n event.CheckpointApplied) (string, error)
}

// Sequencer is the single writer goroutine. Fetch workers deliver
// checkpoints in any order; it buffers them by sequence and applies only
// the next one, advancing the cursor after each commit before touching
// the following checkpoint.
type Sequencer struct {
	workerID string
	applier  Applier
	cursor   store.CursorRepository
	window   *Window
	in       <-chan event.ExtractedCheckpoint
	logger   *slog.Logger

	publisher      Publisher
	stage          *StageTracker
	onCommit       func(res *ingester.ApplyResult, took time.Duration)
	advanceMax     int
	advanceBackoff retry.Backoff
	sleepFn        func(context.Context, time.Duration) error

	pending  map[int64]event.ExtractedCheckpoint
	buffered atomic.Int64
	advanced atomic.Int64
}

type SequencerOption func(*Sequencer)

func WithPublisher(p Publisher) SequencerOption {
	return func(s *Sequencer) { s.publisher = p }
}

func WithStageTracker(t *StageTracker) SequencerOption {
	return func(s *Sequencer) {
		if t != nil {
			s.stage = t
		}
	}
}

// WithCommitObserver is called after every durable cursor advance.
func WithCommitObserver(fn func(res *ingester.ApplyResult, took time.Duration)) SequencerOption {
	return func(s *Sequencer) { s.onCommit = fn }
}

func WithAdvanceRetry(maxAttempts int, backoff retry.Backoff, sleepFn func(context.Context, time.Duration) error) SequencerOption {
	return func(s *Sequencer) {
		if maxAttempts > 0 {
			s.advanceMax = maxAttempts
		}
		s.advanceBackoff = backoff
		if sleepFn != nil {
			s.sleepFn = sleepFn
		}
	}
}

func NewSequencer(
	workerID string,
	applier Applier,
	cursor store.CursorRepository,
	window *Window,
	in <-chan event.ExtractedCheckpoint,
	logger *slog.Logger,
	opts ...SequencerOption,
) *Sequencer {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Sequencer{
		workerID:       workerID,
		applier:        applier,
		cursor:         cursor,
		window:         window,
		in:             in,
		logger:         logger.With("component", "sequencer", "worker_id", workerID),
		stage:          NewStageTracker(workerID),
		advanceMax:     defaultAdvanceMaxAttempts,
		advanceBackoff: retry.DefaultBackoff,
		sleepFn:        retry.Sleep,
		pending:        make(map[int64]event.ExtractedCheckpoint),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.advanced.Store(-1)
	return s
}

// Advanced returns the last sequence this sequencer durably advanced, or
// -1 before the first advance.
func (s *Sequencer) Advanced() int64 { return s.advanced.Load() }

// Pending returns the number of checkpoints buffered out of order.
func (s *Sequencer) Pending() int { return int(s.buffered.Load()) }

// Run applies checkpoints starting at from until ctx is cancelled, the
// input closes, or an apply fails. A cancelled context never interrupts a
// transaction that has already begun.
func (s *Sequencer) Run(ctx context.Context, from int64) error {
	next := from
	s.stage.Set(model.StageFetching)
	defer s.stage.Set(model.StageIdle)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ex, ok := <-s.in:
			if !ok {
				return nil
			}
			if ex.Sequence < next {
				// Already committed in this run; its token is still held.
				s.logger.Warn("dropping stale checkpoint", "checkpoint", ex.Sequence, "next", next)
				s.window.Release()
				continue
			}
			s.pending[ex.Sequence] = ex
			s.buffered.Store(int64(len(s.pending)))
		}

		for {
			ex, ok := s.pending[next]
			if !ok {
				break
			}
			delete(s.pending, next)
			s.buffered.Store(int64(len(s.pending)))
			if err := s.commit(ctx, ex); err != nil {
				return err
			}
			next++
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
		s.stage.Set(model.StageFetching)
	}
}

func (s *Sequencer) commit(ctx context.Context, ex event.ExtractedCheckpoint) error {
	start := time.Now()

	s.stage.Set(model.StageApplying)
	res, err := s.applier.Apply(ctx, ex.Sequence, ex)
	if err != nil {
		return fmt.Errorf("apply checkpoint %d: %w", ex.Sequence, err)
	}

	s.stage.Set(model.StageAdvancing)
	if err := s.advance(ctx, ex.Sequence); err != nil {
		return err
	}
	s.advanced.Store(ex.Sequence)
	metrics.PipelineCursorSequence.WithLabelValues(s.workerID).Set(float64(ex.Sequence))
	s.window.Release()

	if s.onCommit != nil {
		s.onCommit(res, time.Since(start))
	}
	s.publish(ctx, ex, res)
	s.stage.Set(model.StageIdle)
	return nil
}

// advance records seq durably. It runs under a detached context: once the
// projection has committed, recording that fact is always attempted.
func (s *Sequencer) advance(ctx context.Context, seq int64) error {
	const stage = "sequencer.advance_cursor"

	var lastErr error
	lastDecision := retry.Decision{Class: retry.ClassTerminal, Reason: "unset"}
	for attempt := 1; attempt <= s.advanceMax; attempt++ {
		advCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultAdvanceTimeout)
		err := s.cursor.Advance(advCtx, s.workerID, seq)
		cancel()
		if err == nil {
			return nil
		}

		lastErr = err
		lastDecision = retry.Classify(err)
		if !lastDecision.IsTransient() {
			return fmt.Errorf("terminal_failure stage=%s attempt=%d reason=%s: %w", stage, attempt, lastDecision.Reason, err)
		}
		if attempt == s.advanceMax {
			break
		}
		s.logger.Warn("cursor advance failed; retrying",
			"stage", stage,
			"checkpoint", seq,
			"classification", lastDecision.Class,
			"classification_reason", lastDecision.Reason,
			"attempt", attempt,
			"error", err,
		)
		if err := s.sleepFn(context.WithoutCancel(ctx), s.advanceBackoff.Delay(attempt)); err != nil {
			return fmt.Errorf("advance cursor %d interrupted: %w", seq, err)
		}
	}
	return fmt.Errorf("transient_recovery_exhausted stage=%s attempts=%d reason=%s: %w", stage, s.advanceMax, lastDecision.Reason, lastErr)
}

func (s *Sequencer) publish(ctx context.Context, ex event.ExtractedCheckpoint, res *ingester.ApplyResult) {
	if s.publisher == nil {
		return
	}
	applied := 0
	if res != nil {
		applied = res.Applied
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if _, err := s.publisher.Publish(pubCtx, event.CheckpointApplied{
		WorkerID:  s.workerID,
		Sequence:  ex.Sequence,
		Events:    applied,
		AppliedAt: time.Now().UTC(),
	}); err != nil {
		s.logger.Warn("change feed publish failed", "checkpoint", ex.Sequence, "error", err)
	}
}
