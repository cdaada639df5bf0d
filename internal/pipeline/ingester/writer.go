package ingester

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/cache"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/domain/event"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/domain/model"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/metrics"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/pipeline/retry"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/store"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
	otelTrace "go.opentelemetry.io/otel/trace"
)

const (
	defaultApplyRetryMaxAttempts = 3
	defaultFinishTimeout         = 2 * time.Minute
	defaultKnownProfiles         = 100_000

	savepointName = "event_apply"
)

var (
	txOptions = &sql.TxOptions{Isolation: sql.LevelReadCommitted}

	defaultApplyBackoff = retry.Backoff{Initial: 100 * time.Millisecond, Max: time.Second}
)

// Repos groups the repositories the writer needs. All of them are called
// with the per-checkpoint transaction.
type Repos struct {
	Profiles    store.ProfileRepository
	SocialGraph store.SocialGraphRepository
	Platforms   store.PlatformRepository
	Usernames   store.UsernameRepository
	Content     store.ContentRepository
	Statistics  store.StatisticsRepository
	EventLog    store.EventLogRepository
}

// ApplyResult summarises one committed checkpoint.
type ApplyResult struct {
	Sequence   int64
	Applied    int
	Skipped    int
	Rejected   int
	Duplicates int
	Attempts   int
}

// Writer applies extracted checkpoints to the relational projection. Each
// checkpoint is one read-committed transaction and each event inside it
// runs under its own savepoint.
type Writer struct {
	db       store.TxBeginner
	repos    Repos
	workerID string
	known    *cache.KeySet[string]
	logger   *slog.Logger

	retryMaxAttempts int
	backoff          retry.Backoff
	finishTimeout    time.Duration
	sleepFn          func(context.Context, time.Duration) error
}

type Option func(*Writer)

func WithRetryConfig(maxAttempts int, backoff retry.Backoff) Option {
	return func(w *Writer) {
		if maxAttempts > 0 {
			w.retryMaxAttempts = maxAttempts
		}
		w.backoff = backoff
	}
}

// WithKnownProfiles replaces the profile existence cache.
func WithKnownProfiles(known *cache.KeySet[string]) Option {
	return func(w *Writer) {
		if known != nil {
			w.known = known
		}
	}
}

// WithFinishTimeout bounds how long an in-flight apply may keep running
// after the caller's context is cancelled.
func WithFinishTimeout(d time.Duration) Option {
	return func(w *Writer) {
		if d > 0 {
			w.finishTimeout = d
		}
	}
}

func WithSleepFunc(fn func(context.Context, time.Duration) error) Option {
	return func(w *Writer) {
		if fn != nil {
			w.sleepFn = fn
		}
	}
}

func New(db store.TxBeginner, repos Repos, workerID string, logger *slog.Logger, opts ...Option) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Writer{
		db:               db,
		repos:            repos,
		workerID:         workerID,
		known:            cache.NewKeySet[string](defaultKnownProfiles),
		logger:           logger.With("component", "ingester", "worker_id", workerID),
		retryMaxAttempts: defaultApplyRetryMaxAttempts,
		backoff:          defaultApplyBackoff,
		finishTimeout:    defaultFinishTimeout,
		sleepFn:          retry.Sleep,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Apply writes checkpoint seq and commits it. Transient storage failures
// retry the whole transaction; anything else returns an error wrapping
// ErrFatal. Once a transaction has begun it runs to commit or rollback even
// if ctx is cancelled, bounded by the finish timeout.
func (w *Writer) Apply(ctx context.Context, seq int64, ex event.ExtractedCheckpoint) (*ApplyResult, error) {
	const stage = "ingester.apply_checkpoint"

	if ex.Sequence != seq {
		return nil, fmt.Errorf("%w: extracted checkpoint %d handed in as %d", ErrFatal, ex.Sequence, seq)
	}

	spanCtx, span := tracing.Tracer("ingester").Start(ctx, "ingester.applyCheckpoint",
		otelTrace.WithAttributes(
			attribute.String("worker_id", w.workerID),
			attribute.Int64("checkpoint", seq),
			attribute.Int("events", len(ex.Events)),
		),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.IngesterLatency.WithLabelValues(w.workerID).Observe(time.Since(start).Seconds())
	}()

	var lastErr error
	lastDecision := retry.Decision{Class: retry.ClassTerminal, Reason: "unset"}
	for attempt := 1; attempt <= w.retryMaxAttempts; attempt++ {
		res, touched, err := w.applyOnce(spanCtx, ex)
		if err == nil {
			res.Attempts = attempt
			w.known.Add(touched...)
			metrics.IngesterCheckpointsApplied.WithLabelValues(w.workerID).Inc()
			w.logger.Info("checkpoint applied",
				"checkpoint", seq,
				"applied", res.Applied,
				"skipped", res.Skipped,
				"rejected", res.Rejected,
				"duplicates", res.Duplicates,
				"attempt", attempt,
			)
			return res, nil
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("apply checkpoint %d interrupted: %w", seq, ctx.Err())
		}

		lastErr = err
		lastDecision = retry.Classify(err)
		if !lastDecision.IsTransient() {
			tracing.Fail(span, err)
			metrics.IngesterErrors.WithLabelValues(w.workerID).Inc()
			return nil, fmt.Errorf("terminal_failure stage=%s attempt=%d reason=%s: %w: %w", stage, attempt, lastDecision.Reason, ErrFatal, err)
		}
		if attempt == w.retryMaxAttempts {
			break
		}

		metrics.IngesterApplyRetries.WithLabelValues(w.workerID).Inc()
		w.logger.Warn("checkpoint apply failed; retrying",
			"stage", stage,
			"checkpoint", seq,
			"classification", lastDecision.Class,
			"classification_reason", lastDecision.Reason,
			"attempt", attempt,
			"max_attempts", w.retryMaxAttempts,
			"error", err,
		)
		if err := w.sleepFn(ctx, w.backoff.Delay(attempt)); err != nil {
			return nil, fmt.Errorf("apply checkpoint %d interrupted: %w", seq, err)
		}
	}

	tracing.Fail(span, lastErr)
	metrics.IngesterErrors.WithLabelValues(w.workerID).Inc()
	return nil, fmt.Errorf("transient_recovery_exhausted stage=%s attempts=%d reason=%s: %w: %w", stage, w.retryMaxAttempts, lastDecision.Reason, ErrFatal, lastErr)
}

// applyOnce runs one transaction attempt and returns the profile addresses
// it wrote, to be remembered only after commit.
func (w *Writer) applyOnce(ctx context.Context, ex event.ExtractedCheckpoint) (*ApplyResult, []string, error) {
	txCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.finishTimeout)
	defer cancel()

	dbTx, err := w.db.BeginTx(txCtx, txOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := dbTx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			w.logger.Warn("rollback failed", "checkpoint", ex.Sequence, "error", rbErr)
		}
	}()

	res := &ApplyResult{Sequence: ex.Sequence}
	for _, rej := range ex.Rejected {
		if err := w.audit(txCtx, dbTx, ex.Sequence, rej.EventID, rej.EventType, rej.Reason, rej.Detail, rej.Raw, ex.Timestamp); err != nil {
			return nil, nil, err
		}
		res.Rejected++
	}

	statsDay := ex.Timestamp
	var touched []string
	for i := range ex.Events {
		ev := &ex.Events[i]
		ac := &applyContext{tx: dbTx, ev: ev, at: eventTime(ev, ex.Timestamp), day: statsDay}
		if ac.day.IsZero() {
			ac.day = ac.at
		}

		if _, err := dbTx.ExecContext(txCtx, "SAVEPOINT "+savepointName); err != nil {
			return nil, nil, fmt.Errorf("savepoint %s: %w", ev.EventID, err)
		}

		logged, err := w.applyEvent(txCtx, ac)
		if skip, ok := asSkip(err); ok {
			if _, rbErr := dbTx.ExecContext(txCtx, "ROLLBACK TO SAVEPOINT "+savepointName); rbErr != nil {
				return nil, nil, fmt.Errorf("rollback to savepoint %s: %w", ev.EventID, rbErr)
			}
			if err := w.audit(txCtx, dbTx, ex.Sequence, ev.EventID, ev.EventType, skip.Reason, skip.Detail, ev.Raw, ac.at); err != nil {
				return nil, nil, err
			}
			metrics.IngesterEventsSkipped.WithLabelValues(ev.Kind.String(), skip.Reason.String()).Inc()
			w.logger.Warn("event skipped",
				"checkpoint", ex.Sequence,
				"event_id", ev.EventID,
				"kind", ev.Kind,
				"reason", skip.Reason,
				"error", skip.Detail,
			)
			res.Skipped++
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		if !logged {
			res.Duplicates++
			w.logger.Debug("event already applied", "checkpoint", ex.Sequence, "event_id", ev.EventID, "kind", ev.Kind)
		}
		if _, err := dbTx.ExecContext(txCtx, "RELEASE SAVEPOINT "+savepointName); err != nil {
			return nil, nil, fmt.Errorf("release savepoint %s: %w", ev.EventID, err)
		}

		touched = append(touched, ac.touched...)
		metrics.IngesterEventsApplied.WithLabelValues(ev.Kind.String()).Inc()
		res.Applied++
	}

	if err := dbTx.Commit(); err != nil {
		return nil, nil, retry.Terminal(fmt.Errorf("commit checkpoint %d: %w", ex.Sequence, err))
	}
	committed = true
	return res, touched, nil
}

// applyEvent runs the event's handler and logs it, both under the event
// savepoint. It reports false when the event log already held the event.
func (w *Writer) applyEvent(ctx context.Context, ac *applyContext) (bool, error) {
	ev := ac.ev
	if err := w.dispatch(ctx, ac); err != nil {
		return false, fmt.Errorf("apply %s %s: %w", ev.Kind, ev.EventID, err)
	}
	logged, err := w.repos.EventLog.AppendTx(ctx, ac.tx, &model.EventLogEntry{
		Table:              ev.Kind.LogTable(),
		EventType:          ev.Kind.String(),
		SubjectID:          subjectOf(ev),
		EventID:            ev.EventID,
		CheckpointSequence: ev.CheckpointSequence,
		Payload:            ev.Raw,
		CreatedAt:          ac.at,
	})
	if err != nil {
		return false, fmt.Errorf("append event log %s: %w", ev.EventID, err)
	}
	return logged, nil
}

func (w *Writer) audit(ctx context.Context, tx *sql.Tx, seq int64, eventID, eventType string, reason model.AuditReason, detail string, raw []byte, at time.Time) error {
	if at.IsZero() {
		at = time.Now().UTC()
	}
	if err := w.repos.EventLog.AuditTx(ctx, tx, &model.AuditEntry{
		CheckpointSequence: seq,
		EventID:            eventID,
		EventType:          eventType,
		Reason:             reason,
		Detail:             detail,
		Payload:            raw,
		CreatedAt:          at,
	}); err != nil {
		return fmt.Errorf("audit %s: %w", eventID, err)
	}
	return nil
}

func eventTime(ev *event.DomainEvent, checkpointTime time.Time) time.Time {
	switch {
	case !ev.Timestamp.IsZero():
		return ev.Timestamp
	case !checkpointTime.IsZero():
		return checkpointTime
	default:
		return time.Now().UTC()
	}
}
