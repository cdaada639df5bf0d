package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/alert"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/chain/mys"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/circuitbreaker"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/config"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/metrics"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/pipeline"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/pipeline/ingester"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/reconciliation"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/store"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/store/postgres"
	redisstore "github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/store/redis"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/tracing"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const serviceName = "mys-social-indexer"

type dbStatsProvider interface {
	Stats() sql.DBStats
}

type dbPoolStatsGauges struct {
	open         prometheus.Gauge
	inUse        prometheus.Gauge
	idle         prometheus.Gauge
	waitCount    prometheus.Gauge
	waitDuration prometheus.Gauge
}

func collectDBPoolStats(db dbStatsProvider, gauges dbPoolStatsGauges) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("db pool stats collection panicked: %v", r)
		}
	}()
	if db == nil {
		return fmt.Errorf("db stats provider is nil")
	}

	stats := db.Stats()
	gauges.open.Set(float64(stats.OpenConnections))
	gauges.inUse.Set(float64(stats.InUse))
	gauges.idle.Set(float64(stats.Idle))
	gauges.waitCount.Set(float64(stats.WaitCount))
	gauges.waitDuration.Set(stats.WaitDuration.Seconds())
	return nil
}

func startDBPoolStatsPump(ctx context.Context, db dbStatsProvider, interval time.Duration, logger *slog.Logger) {
	if db == nil || interval <= 0 {
		return
	}

	gauges := dbPoolStatsGauges{
		open:         metrics.DBPoolOpen,
		inUse:        metrics.DBPoolInUse,
		idle:         metrics.DBPoolIdle,
		waitCount:    metrics.DBPoolWaitCount,
		waitDuration: metrics.DBPoolWaitDurationSeconds,
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		if err := collectDBPoolStats(db, gauges); err != nil {
			logger.Warn("failed to collect initial db pool stats", "error", err)
		}

		for {
			select {
			case <-ctx.Done():
				logger.Info("db pool stats sampler stopped", "cause", "context_done")
				return
			case <-ticker.C:
				if err := collectDBPoolStats(db, gauges); err != nil {
					logger.Warn("failed to collect db pool stats", "error", err)
				}
			}
		}
	}()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mys-social-indexer",
		Short:         "Project MySocial checkpoints into the social graph database",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, runIndexer)
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply pending schema migrations and exit",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withRuntime(cmd, runMigrate)
			},
		},
		&cobra.Command{
			Use:   "reconcile",
			Short: "Run one counter reconciliation sweep and exit",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withRuntime(cmd, func(ctx context.Context, rt *app) error {
					return runReconcileOnce(ctx, cmd.OutOrStdout(), rt)
				})
			},
		},
		newCursorCmd(),
	)
	return root
}

func newCursorCmd() *cobra.Command {
	cursor := &cobra.Command{
		Use:   "cursor",
		Short: "Inspect or move this worker's progress cursor",
	}
	cursor.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the last checkpoint processed",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withRuntime(cmd, func(ctx context.Context, rt *app) error {
					return showCursor(ctx, cmd.OutOrStdout(), postgres.NewCursorRepo(rt.db), rt.cfg.Indexer.WorkerID)
				})
			},
		},
		&cobra.Command{
			Use:   "set <sequence>",
			Short: "Overwrite the cursor so ingestion resumes after sequence",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				seq, err := parseSequence(args[0])
				if err != nil {
					return err
				}
				return withRuntime(cmd, func(ctx context.Context, rt *app) error {
					return setCursor(ctx, cmd.OutOrStdout(), postgres.NewCursorRepo(rt.db), rt.cfg.Indexer.WorkerID, seq)
				})
			},
		},
	)
	return cursor
}

// app holds what every subcommand shares once bootstrapped.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *postgres.DB
}

// withRuntime loads config, builds the logger, opens the database and
// installs signal handling before handing over to fn.
func withRuntime(cmd *cobra.Command, fn func(context.Context, *app) error) error {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.Log.Level)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.New(ctx, postgres.Config{
		URL:                cfg.DB.URL,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetime:    cfg.DB.ConnMaxLifetime(),
		StatementTimeoutMS: cfg.DB.StatementTimeoutMS,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return err
	}
	defer db.Close()

	if err := fn(ctx, &app{cfg: cfg, logger: logger, db: db}); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		logger.Error("command failed", "error", err)
		return err
	}
	return nil
}

// newLogger writes JSON to w at the configured level. Unknown levels fall
// back to info; config validation rejects them earlier.
func newLogger(w io.Writer, level string) *slog.Logger {
	logLevel := slog.LevelInfo
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

func newProjectionRepos(db *postgres.DB) ingester.Repos {
	return ingester.Repos{
		Profiles:    postgres.NewProfileRepo(db),
		SocialGraph: postgres.NewSocialGraphRepo(db),
		Platforms:   postgres.NewPlatformRepo(db),
		Usernames:   postgres.NewUsernameRepo(db),
		Content:     postgres.NewContentRepo(db),
		Statistics:  postgres.NewStatisticsRepo(db),
		EventLog:    postgres.NewEventLogRepo(db),
	}
}

func newSource(cfg *config.Config, logger *slog.Logger) *mys.Adapter {
	return mys.NewAdapter(cfg.Source.URL, cfg.Source.Timeout(), logger,
		mys.WithRateLimit(cfg.Source.RateLimit, cfg.Source.Burst),
		mys.WithCircuitBreaker(circuitbreaker.Config{}),
	)
}

func runMigrate(ctx context.Context, rt *app) error {
	if err := rt.db.RunMigrations(ctx, rt.cfg.DB.MigrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	rt.logger.Info("migrations applied", "dir", rt.cfg.DB.MigrationsDir)
	return nil
}

func runReconcileOnce(ctx context.Context, out io.Writer, rt *app) error {
	alerter := alert.FromConfig(rt.cfg.Alert.SlackWebhookURL, rt.cfg.Alert.WebhookURL, rt.cfg.Alert.Cooldown(), rt.logger)
	svc := reconciliation.NewService(postgres.NewReconciliationRepo(rt.db), alerter, rt.logger,
		reconciliation.WithBatchSize(rt.cfg.Reconcile.BatchSize))
	return reconcileAndPrint(ctx, out, svc)
}

type reconciler interface {
	Reconcile(ctx context.Context) (*reconciliation.RunResult, error)
}

// reconcileAndPrint writes the run summary as JSON. A failed sweep still
// prints the counts reached before the error.
func reconcileAndPrint(ctx context.Context, out io.Writer, svc reconciler) error {
	res, err := svc.Reconcile(ctx)
	if res != nil {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(res); encErr != nil {
			return errors.Join(err, fmt.Errorf("print reconciliation result: %w", encErr))
		}
	}
	return err
}

func showCursor(ctx context.Context, out io.Writer, repo store.CursorRepository, workerID string) error {
	cursor, err := repo.Get(ctx, workerID)
	if err != nil {
		return fmt.Errorf("load cursor %s: %w", workerID, err)
	}
	if cursor == nil {
		_, err = fmt.Fprintf(out, "worker %s has no cursor\n", workerID)
		return err
	}
	_, err = fmt.Fprintf(out, "worker %s last_checkpoint_processed=%d last_processed_at=%s\n",
		cursor.WorkerID, cursor.LastCheckpointProcessed, cursor.LastProcessedAt.UTC().Format(time.RFC3339))
	return err
}

func setCursor(ctx context.Context, out io.Writer, repo store.CursorRepository, workerID string, seq int64) error {
	if err := repo.Set(ctx, workerID, seq); err != nil {
		return fmt.Errorf("set cursor %s: %w", workerID, err)
	}
	_, err := fmt.Fprintf(out, "worker %s cursor set to %d; ingestion resumes at %d\n", workerID, seq, seq+1)
	return err
}

func parseSequence(raw string) (int64, error) {
	seq, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || seq < 0 {
		return 0, fmt.Errorf("invalid checkpoint sequence %q: must be a non-negative integer", raw)
	}
	return seq, nil
}

func runIndexer(ctx context.Context, rt *app) error {
	cfg, logger := rt.cfg, rt.logger

	logger.Info("starting mys-social-indexer",
		"worker_id", cfg.Indexer.WorkerID,
		"source_url", cfg.Source.URL,
		"start_checkpoint", cfg.Indexer.StartCheckpoint,
		"prefetch_depth", cfg.Indexer.PrefetchDepth,
		"reconcile_enabled", cfg.Reconcile.Enabled,
		"change_feed", cfg.Redis.URL != "",
	)

	shutdownTracing, err := tracing.Init(ctx, serviceName, cfg.Tracing.Endpoint, cfg.Tracing.Insecure, cfg.Tracing.SampleRatio)
	if err != nil {
		return fmt.Errorf("initialize tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracing shutdown error", "error", err)
		}
	}()
	if cfg.Tracing.Endpoint != "" {
		logger.Info("tracing enabled", "endpoint", cfg.Tracing.Endpoint)
	}

	if cfg.DB.RunMigrations {
		if err := runMigrate(ctx, rt); err != nil {
			return err
		}
	}

	alerter := alert.FromConfig(cfg.Alert.SlackWebhookURL, cfg.Alert.WebhookURL, cfg.Alert.Cooldown(), logger)

	pipelineCfg := pipeline.Config{
		WorkerID:              cfg.Indexer.WorkerID,
		StartCheckpoint:       cfg.Indexer.StartCheckpoint,
		PrefetchDepth:         cfg.Indexer.PrefetchDepth,
		PollInterval:          cfg.Indexer.PollInterval(),
		FetchRetryMaxAttempts: cfg.Indexer.FetchRetryMaxAttempts,
		ApplyRetryMaxAttempts: cfg.Indexer.ApplyRetryMaxAttempts,
		ProfileCacheSize:      cfg.Indexer.ProfileCacheSize,
		Alerter:               alerter,
	}

	if cfg.Redis.URL != "" {
		client, err := redisstore.Dial(ctx, cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("initialize change feed: %w", err)
		}
		defer client.Close()
		pipelineCfg.ChangeFeed = redisstore.NewChangeFeed(client, cfg.Redis.Stream)
		logger.Info("change feed enabled", "stream", cfg.Redis.Stream)
	}

	p := pipeline.New(pipelineCfg, newSource(cfg, logger), rt.db,
		pipeline.Repos{Cursor: postgres.NewCursorRepo(rt.db), Projection: newProjectionRepos(rt.db)},
		logger)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return runHealthServer(gCtx, cfg.Server.HealthPort, p.Health(), logger)
	})

	g.Go(func() error {
		return p.Run(gCtx)
	})

	if cfg.Reconcile.Enabled {
		svc := reconciliation.NewService(postgres.NewReconciliationRepo(rt.db), alerter, logger,
			reconciliation.WithBatchSize(cfg.Reconcile.BatchSize))
		g.Go(func() error {
			return svc.RunPeriodic(gCtx, cfg.Reconcile.Interval())
		})
	}

	startDBPoolStatsPump(gCtx, rt.db.DB, cfg.DB.PoolStatsInterval(), logger)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("indexer exited with error", "error", err)
		return err
	}

	logger.Info("indexer shut down gracefully")
	return nil
}

type readiness interface {
	Ready() bool
	Snapshot() pipeline.HealthSnapshot
}

func newHealthMux(health readiness, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			logger.Warn("failed to write health response", "error", err)
		}
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		if !health.Ready() {
			status = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(health.Snapshot()); err != nil {
			logger.Warn("failed to write readiness response", "error", err)
		}
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func runHealthServer(ctx context.Context, port int, health readiness, logger *slog.Logger) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           newHealthMux(health, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && err != http.ErrServerClosed {
			logger.Warn("health server shutdown error", "error", err)
		}
	}()

	logger.Info("health server started", "port", port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("health server: %w", err)
	}
	return nil
}
