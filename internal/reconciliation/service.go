package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/alert"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/domain/model"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/metrics"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/store"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/tracing"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

const (
	ScopeProfiles  = "profiles"
	ScopePlatforms = "platforms"

	DefaultBatchSize = 500
	DefaultInterval  = time.Hour
)

// ScopeResult summarises one table's sweep.
type ScopeResult struct {
	RunID     uuid.UUID `json:"run_id"`
	Checked   int       `json:"checked"`
	Drifted   int       `json:"drifted"`
	Corrected int       `json:"corrected"`
	Errors    int       `json:"errors"`
}

// RunResult aggregates a full reconciliation run.
type RunResult struct {
	Profiles   ScopeResult `json:"profiles"`
	Platforms  ScopeResult `json:"platforms"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
}

// Corrected returns the number of rows rewritten across all scopes.
func (r *RunResult) Corrected() int { return r.Profiles.Corrected + r.Platforms.Corrected }

// Service recomputes derived counters from the relationship tables and
// rewrites rows that drifted. It never takes more than one row lock at a
// time, so it can run alongside the projection writer.
type Service struct {
	repo      store.ReconciliationRepository
	alerter   alert.Alerter
	logger    *slog.Logger
	batchSize int
	now       func() time.Time
	newID     func() uuid.UUID
}

type Option func(*Service)

func WithBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

func withClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo store.ReconciliationRepository, alerter alert.Alerter, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if alerter == nil {
		alerter = &alert.NoopAlerter{}
	}
	s := &Service{
		repo:      repo,
		alerter:   alerter,
		logger:    logger.With("component", "reconciliation"),
		batchSize: DefaultBatchSize,
		now:       time.Now,
		newID:     uuid.New,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Reconcile sweeps profiles then platforms. Per-row correction failures are
// counted and the sweep continues; a failed scan aborts the run.
func (s *Service) Reconcile(ctx context.Context) (*RunResult, error) {
	ctx, span := tracing.Tracer("reconciliation").Start(ctx, "reconciliation.reconcile")
	defer span.End()

	result := &RunResult{StartedAt: s.now()}
	start := time.Now()
	defer func() {
		metrics.ReconciliationDuration.Observe(time.Since(start).Seconds())
	}()

	profiles, err := s.sweep(ctx, ScopeProfiles, s.repo.ScanProfiles, func(ctx context.Context, key string) (bool, error) {
		_, corrected, err := s.repo.CorrectProfileCounters(ctx, key)
		return corrected, err
	})
	result.Profiles = profiles
	if err != nil {
		tracing.Fail(span, err)
		return result, err
	}

	platforms, err := s.sweep(ctx, ScopePlatforms, s.repo.ScanPlatforms, func(ctx context.Context, key string) (bool, error) {
		_, corrected, err := s.repo.CorrectPlatformCounters(ctx, key)
		return corrected, err
	})
	result.Platforms = platforms
	if err != nil {
		tracing.Fail(span, err)
		return result, err
	}
	result.FinishedAt = s.now()

	span.SetAttributes(
		attribute.Int("profiles_corrected", result.Profiles.Corrected),
		attribute.Int("platforms_corrected", result.Platforms.Corrected),
	)
	s.logger.Info("reconciliation completed",
		"profiles_checked", result.Profiles.Checked,
		"profiles_corrected", result.Profiles.Corrected,
		"platforms_checked", result.Platforms.Checked,
		"platforms_corrected", result.Platforms.Corrected,
		"errors", result.Profiles.Errors+result.Platforms.Errors,
	)

	if result.Corrected() > 0 {
		if err := s.alerter.Send(ctx, alert.Alert{
			Type:    alert.AlertTypeReconcileDrift,
			Title:   "Counter drift corrected",
			Message: fmt.Sprintf("%d profiles and %d platforms had drifted counters", result.Profiles.Corrected, result.Platforms.Corrected),
			Fields: map[string]string{
				"profiles_checked":  fmt.Sprintf("%d", result.Profiles.Checked),
				"platforms_checked": fmt.Sprintf("%d", result.Platforms.Checked),
				"errors":            fmt.Sprintf("%d", result.Profiles.Errors+result.Platforms.Errors),
			},
		}); err != nil {
			s.logger.Warn("drift alert failed", "error", err)
		}
	}
	return result, nil
}

type scanFunc func(ctx context.Context, after string, limit int) ([]store.CounterScan, error)
type correctFunc func(ctx context.Context, key string) (bool, error)

// sweep walks one table in key order. The run row is recorded even when
// the scan fails part way, with the counts reached so far.
func (s *Service) sweep(ctx context.Context, scope string, scan scanFunc, correct correctFunc) (ScopeResult, error) {
	res := ScopeResult{RunID: s.newID()}
	startedAt := s.now()

	var sweepErr error
	after := ""
	for {
		if err := ctx.Err(); err != nil {
			sweepErr = err
			break
		}
		batch, err := scan(ctx, after, s.batchSize)
		if err != nil {
			sweepErr = fmt.Errorf("scan %s after %q: %w", scope, after, err)
			break
		}
		for _, row := range batch {
			res.Checked++
			if !row.Drifted {
				continue
			}
			res.Drifted++
			corrected, err := correct(ctx, row.Key)
			if err != nil {
				res.Errors++
				s.logger.Warn("counter correction failed", "scope", scope, "key", row.Key, "error", err)
				continue
			}
			if corrected {
				res.Corrected++
				s.logger.Info("counters corrected", "scope", scope, "key", row.Key)
			}
		}
		if len(batch) < s.batchSize {
			break
		}
		after = batch[len(batch)-1].Key
	}

	metrics.ReconciliationRunsTotal.WithLabelValues(scope).Inc()
	metrics.ReconciliationCheckedTotal.WithLabelValues(scope).Add(float64(res.Checked))
	metrics.ReconciliationCorrectedTotal.WithLabelValues(scope).Add(float64(res.Corrected))
	if res.Errors > 0 {
		metrics.ReconciliationErrorsTotal.WithLabelValues(scope).Add(float64(res.Errors))
	}

	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := s.repo.RecordRun(recordCtx, &model.ReconciliationRun{
		RunID:      res.RunID,
		Scope:      scope,
		Checked:    res.Checked,
		Corrected:  res.Corrected,
		Errors:     res.Errors,
		StartedAt:  startedAt,
		FinishedAt: s.now(),
	}); err != nil {
		sweepErr = errors.Join(sweepErr, err)
	}
	return res, sweepErr
}

// RunPeriodic sweeps once per interval until ctx is cancelled. A failed
// sweep is logged and retried at the next tick.
func (s *Service) RunPeriodic(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultInterval
	}

	s.logger.Info("periodic reconciliation started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("periodic reconciliation stopping")
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.Reconcile(ctx); err != nil && ctx.Err() == nil {
				s.logger.Warn("periodic reconciliation failed", "error", err)
			}
		}
	}
}
