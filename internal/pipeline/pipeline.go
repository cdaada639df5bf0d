package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/alert"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/cache"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/chain"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/domain/event"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/metrics"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/pipeline/coordinator"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/pipeline/fetcher"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/pipeline/ingester"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/pipeline/retry"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/store"
	"golang.org/x/sync/errgroup"
)

const (
	defaultSampleInterval = 5 * time.Second
	latestLookupTimeout   = 10 * time.Second
	alertSendTimeout      = 10 * time.Second
)

type Config struct {
	WorkerID              string
	StartCheckpoint       int64
	PrefetchDepth         int
	PollInterval          time.Duration
	FetchRetryMaxAttempts int
	ApplyRetryMaxAttempts int
	ProfileCacheSize      int
	SampleInterval        time.Duration
	UnhealthyThreshold    int

	Alerter alert.Alerter
	// ChangeFeed is optional; nil disables post-commit notifications.
	ChangeFeed coordinator.Publisher

	// Test hooks.
	FetchBackoff retry.Backoff
	ApplyBackoff retry.Backoff
	SleepFunc    func(context.Context, time.Duration) error
}

type Repos struct {
	Cursor     store.CursorRepository
	Projection ingester.Repos
}

// Pipeline runs one worker's ordered checkpoint stream: coordinator,
// fetch workers, and the single-writer sequencer.
type Pipeline struct {
	cfg    Config
	source chain.CheckpointSource
	db     store.TxBeginner
	repos  Repos
	logger *slog.Logger
	health *PipelineHealth
	known  *cache.KeySet[string]
}

func New(
	cfg Config,
	source chain.CheckpointSource,
	db store.TxBeginner,
	repos Repos,
	logger *slog.Logger,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PrefetchDepth < 1 {
		cfg.PrefetchDepth = 1
	}
	if cfg.SampleInterval <= 0 {
		cfg.SampleInterval = defaultSampleInterval
	}
	if cfg.Alerter == nil {
		cfg.Alerter = &alert.NoopAlerter{}
	}
	health := NewPipelineHealth(cfg.WorkerID)
	if cfg.UnhealthyThreshold > 0 {
		health.unhealthyThreshold = cfg.UnhealthyThreshold
	}
	return &Pipeline{
		cfg:    cfg,
		source: source,
		db:     db,
		repos:  repos,
		logger: logger.With("component", "pipeline", "worker_id", cfg.WorkerID),
		health: health,
		// Survives between runs so a process-level retry keeps its warm cache.
		known: cache.NewKeySet[string](cfg.ProfileCacheSize),
	}
}

// WorkerID returns the pipeline's worker identity.
func (p *Pipeline) WorkerID() string { return p.cfg.WorkerID }

// Health returns the pipeline's health tracker.
func (p *Pipeline) Health() *PipelineHealth { return p.health }

// Run ingests until ctx is cancelled or a stage fails. A failure is never
// retried in-process: health turns UNHEALTHY, an INGEST_HALTED alert goes
// out and the error is returned so the process can exit. The next start
// resumes from the durable cursor.
func (p *Pipeline) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pipeline panic: %v\n%s", r, debug.Stack())
			p.halt(ctx, err)
		}
	}()

	err = p.runPipeline(ctx)
	if err == nil || errors.Is(err, context.Canceled) {
		p.health.SetStatus(HealthStatusInactive)
		p.logger.Info("pipeline stopped")
		return ctx.Err()
	}
	p.halt(ctx, err)
	return err
}

func (p *Pipeline) halt(ctx context.Context, err error) {
	p.health.Halt(err)
	p.logger.Error("ingestion halted", "error", err)

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), alertSendTimeout)
	defer cancel()
	if sendErr := p.cfg.Alerter.Send(sendCtx, alert.Alert{
		Type:    alert.AlertTypeIngestHalted,
		Worker:  p.cfg.WorkerID,
		Title:   "Ingestion halted",
		Message: err.Error(),
		Fields: map[string]string{
			"last_checkpoint": fmt.Sprintf("%d", p.health.Snapshot().LastCheckpoint),
		},
	}); sendErr != nil {
		p.logger.Warn("halt alert failed", "error", sendErr)
	}
}

// runPipeline builds fresh channels and stages and blocks until they stop.
func (p *Pipeline) runPipeline(ctx context.Context) error {
	k := p.cfg.PrefetchDepth
	jobCh := make(chan event.FetchJob, k)
	extractedCh := make(chan event.ExtractedCheckpoint, k)
	window := coordinator.NewWindow(k, p.cfg.WorkerID)

	coord := coordinator.New(p.cfg.WorkerID, p.repos.Cursor, p.cfg.StartCheckpoint, window, jobCh, p.logger)
	from, err := coord.Resume(ctx)
	if err != nil {
		return err
	}

	fetchOpts := []fetcher.Option{
		fetcher.WithRetryMaxAttempts(p.cfg.FetchRetryMaxAttempts),
		fetcher.WithPollInterval(p.cfg.PollInterval),
		fetcher.WithSleepFunc(p.cfg.SleepFunc),
	}
	if p.cfg.FetchBackoff.Initial > 0 {
		fetchOpts = append(fetchOpts, fetcher.WithBackoff(p.cfg.FetchBackoff))
	}
	fetch := fetcher.New(p.source, jobCh, extractedCh, k, p.logger, fetchOpts...)

	applyBackoff := p.cfg.ApplyBackoff
	if applyBackoff.Initial <= 0 {
		applyBackoff = retry.Backoff{Initial: 100 * time.Millisecond, Max: time.Second}
	}
	writer := ingester.New(p.db, p.repos.Projection, p.cfg.WorkerID, p.logger,
		ingester.WithRetryConfig(p.cfg.ApplyRetryMaxAttempts, applyBackoff),
		ingester.WithKnownProfiles(p.known),
		ingester.WithSleepFunc(p.cfg.SleepFunc),
	)

	seqOpts := []coordinator.SequencerOption{
		coordinator.WithStageTracker(coordinator.NewStageTracker(p.cfg.WorkerID)),
		coordinator.WithCommitObserver(func(res *ingester.ApplyResult, took time.Duration) {
			if p.health.RecordCommit(res.Sequence, took) {
				p.logger.Info("pipeline recovered", "checkpoint", res.Sequence)
				p.notify(ctx, alert.Alert{
					Type:    alert.AlertTypeRecovery,
					Title:   "Ingestion recovered",
					Message: fmt.Sprintf("checkpoint %d committed", res.Sequence),
				})
			}
		}),
	}
	if p.cfg.ChangeFeed != nil {
		seqOpts = append(seqOpts, coordinator.WithPublisher(p.cfg.ChangeFeed))
	}
	seq := coordinator.NewSequencer(p.cfg.WorkerID, writer, p.repos.Cursor, window, extractedCh, p.logger, seqOpts...)

	p.logger.Info("pipeline starting",
		"from", from,
		"prefetch_depth", k,
		"poll_interval", p.cfg.PollInterval,
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ticker := time.NewTicker(p.cfg.SampleInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gCtx.Done():
				return nil
			case <-ticker.C:
				p.sample(gCtx, seq, len(jobCh), len(extractedCh))
			}
		}
	})
	g.Go(func() error {
		return coord.Run(gCtx, from)
	})
	g.Go(func() error {
		defer close(extractedCh)
		return fetch.Run(gCtx)
	})
	g.Go(func() error {
		if err := seq.Run(gCtx, from); err != nil {
			return err
		}
		// The sequencer only returns nil once the fetchers have stopped.
		return gCtx.Err()
	})

	return g.Wait()
}

func (p *Pipeline) sample(ctx context.Context, seq *coordinator.Sequencer, jobs, extracted int) {
	worker := p.cfg.WorkerID
	metrics.PipelineChannelDepth.WithLabelValues(worker, "fetch_job").Set(float64(jobs))
	metrics.PipelineChannelDepth.WithLabelValues(worker, "extracted").Set(float64(extracted))
	metrics.PipelineChannelDepth.WithLabelValues(worker, "reorder_buffer").Set(float64(seq.Pending()))

	advanced := seq.Advanced()
	if advanced < 0 {
		return
	}
	lookupCtx, cancel := context.WithTimeout(ctx, latestLookupTimeout)
	defer cancel()
	latest, err := p.source.GetLatestCheckpointSequence(lookupCtx)
	if err != nil {
		p.logger.Debug("latest checkpoint lookup failed", "error", err)
		if p.health.RecordFailure(fmt.Errorf("latest checkpoint lookup: %w", err)) {
			p.logger.Warn("pipeline unhealthy", "error", err)
			p.notify(ctx, alert.Alert{
				Type:    alert.AlertTypeUnhealthy,
				Title:   "Checkpoint source unreachable",
				Message: err.Error(),
				Fields: map[string]string{
					"last_checkpoint": fmt.Sprintf("%d", advanced),
				},
			})
		}
		return
	}
	metrics.PipelineCheckpointLag.WithLabelValues(worker).Set(float64(max(latest-advanced, 0)))
}

// notify sends a non-fatal alert without blocking the caller.
func (p *Pipeline) notify(ctx context.Context, a alert.Alert) {
	a.Worker = p.cfg.WorkerID
	go func() {
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), alertSendTimeout)
		defer cancel()
		if err := p.cfg.Alerter.Send(sendCtx, a); err != nil {
			p.logger.Warn("alert failed", "type", a.Type, "error", err)
		}
	}()
}
