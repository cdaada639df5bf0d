package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Checkpoint pipeline metrics are partitioned by worker identity.

var (
	// Coordinator
	CoordinatorJobsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "coordinator",
		Name:      "jobs_emitted_total",
		Help:      "Total checkpoint fetch jobs emitted",
	}, []string{"worker"})

	CoordinatorWindowInFlight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "indexer",
		Subsystem: "coordinator",
		Name:      "window_in_flight",
		Help:      "Checkpoints fetched or being fetched beyond the durable cursor",
	}, []string{"worker"})

	// Fetcher
	FetcherCheckpointsFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "fetcher",
		Name:      "checkpoints_fetched_total",
		Help:      "Total checkpoints fetched from the checkpoint source",
	}, []string{"worker"})

	FetcherNotYetAvailable = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "fetcher",
		Name:      "not_yet_available_total",
		Help:      "Total fetches that found the checkpoint beyond the source tip",
	}, []string{"worker"})

	FetcherRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "fetcher",
		Name:      "retries_total",
		Help:      "Total transient fetch failures that were retried",
	}, []string{"worker", "reason"})

	FetcherErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "fetcher",
		Name:      "errors_total",
		Help:      "Total fetcher errors (after retry exhaustion)",
	}, []string{"worker"})

	FetcherLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "indexer",
		Subsystem: "fetcher",
		Name:      "fetch_duration_seconds",
		Help:      "Checkpoint fetch duration including retries",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"worker"})

	// Extractor
	ExtractorEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "extractor",
		Name:      "events_total",
		Help:      "Total domain events extracted by kind",
	}, []string{"kind"})

	ExtractorDiscardedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "extractor",
		Name:      "discarded_total",
		Help:      "Total chain events discarded as outside the social domain",
	})

	ExtractorRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "extractor",
		Name:      "rejected_total",
		Help:      "Total social events that failed to decode or validate",
	}, []string{"kind", "reason"})

	// Ingester
	IngesterCheckpointsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "ingester",
		Name:      "checkpoints_applied_total",
		Help:      "Total checkpoints committed to the projection",
	}, []string{"worker"})

	IngesterEventsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "ingester",
		Name:      "events_applied_total",
		Help:      "Total domain events applied by kind",
	}, []string{"kind"})

	IngesterEventsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "ingester",
		Name:      "events_skipped_total",
		Help:      "Total domain events skipped and audited",
	}, []string{"kind", "reason"})

	IngesterApplyRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "ingester",
		Name:      "apply_retries_total",
		Help:      "Total checkpoint transactions retried after a transient database error",
	}, []string{"worker"})

	IngesterErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "ingester",
		Name:      "errors_total",
		Help:      "Total fatal ingester errors",
	}, []string{"worker"})

	IngesterLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "indexer",
		Subsystem: "ingester",
		Name:      "apply_duration_seconds",
		Help:      "Checkpoint transaction duration from begin to commit",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"worker"})

	// Pipeline
	PipelineCursorSequence = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "indexer",
		Subsystem: "pipeline",
		Name:      "cursor_sequence",
		Help:      "Last durably advanced checkpoint sequence",
	}, []string{"worker"})

	PipelineCheckpointLag = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "indexer",
		Subsystem: "pipeline",
		Name:      "checkpoint_lag",
		Help:      "Latest source checkpoint minus the durable cursor",
	}, []string{"worker"})

	PipelineChannelDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "indexer",
		Subsystem: "pipeline",
		Name:      "channel_depth",
		Help:      "Current depth of pipeline channel buffers",
	}, []string{"worker", "stage"})

	PipelineStage = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "indexer",
		Subsystem: "pipeline",
		Name:      "stage",
		Help:      "Current writer stage (0=idle, 1=fetching, 2=extracting, 3=applying, 4=advancing)",
	}, []string{"worker"})

	PipelineHealthStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "indexer",
		Subsystem: "pipeline",
		Name:      "health_status",
		Help:      "Pipeline health status (0=UNKNOWN, 1=HEALTHY, 2=DEGRADED, 3=UNHEALTHY, 4=INACTIVE)",
	}, []string{"worker"})

	PipelineConsecutiveFailures = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "indexer",
		Subsystem: "pipeline",
		Name:      "consecutive_failures",
		Help:      "Number of consecutive pipeline failures",
	}, []string{"worker"})

	// DB pool
	DBPoolOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "indexer",
		Subsystem: "postgres",
		Name:      "db_pool_open",
		Help:      "Current number of open PostgreSQL connections in the pool",
	})

	DBPoolInUse = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "indexer",
		Subsystem: "postgres",
		Name:      "db_pool_in_use",
		Help:      "Current number of in-use PostgreSQL connections in the pool",
	})

	DBPoolIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "indexer",
		Subsystem: "postgres",
		Name:      "db_pool_idle",
		Help:      "Current number of idle PostgreSQL connections in the pool",
	})

	DBPoolWaitCount = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "indexer",
		Subsystem: "postgres",
		Name:      "db_pool_wait_count",
		Help:      "Cumulative count of waits for PostgreSQL connections from pool",
	})

	DBPoolWaitDurationSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "indexer",
		Subsystem: "postgres",
		Name:      "db_pool_wait_duration_seconds",
		Help:      "Cumulative PostgreSQL pool wait duration in seconds",
	})

	// RPC
	RPCCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "rpc",
		Name:      "calls_total",
		Help:      "Total checkpoint source calls by method and status",
	}, []string{"method", "status"})

	RPCRateLimitWaits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "rpc",
		Name:      "rate_limit_waits_total",
		Help:      "Total times RPC calls waited for rate limiter",
	}, []string{"source"})

	RPCCircuitState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "indexer",
		Subsystem: "rpc",
		Name:      "circuit_state",
		Help:      "Checkpoint source circuit breaker state (0=closed, 1=open, 2=half-open)",
	}, []string{"source"})

	// Profile cache
	ProfileCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "cache",
		Name:      "profile_hits_total",
		Help:      "Profile existence cache hits",
	})

	ProfileCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "cache",
		Name:      "profile_misses_total",
		Help:      "Profile existence cache misses",
	})

	// Change feed
	ChangeFeedPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "changefeed",
		Name:      "published_total",
		Help:      "Checkpoint notifications published to the change feed",
	})

	ChangeFeedErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "changefeed",
		Name:      "errors_total",
		Help:      "Change feed publish failures",
	})

	// Alerts
	AlertsSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "alert",
		Name:      "sent_total",
		Help:      "Total alerts sent",
	}, []string{"channel", "alert_type"})

	AlertsCooldownSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "alert",
		Name:      "cooldown_skipped_total",
		Help:      "Total alerts skipped due to cooldown",
	}, []string{"channel", "alert_type"})

	// Reconciliation
	ReconciliationRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "reconciliation",
		Name:      "runs_total",
		Help:      "Total reconciliation sweeps executed",
	}, []string{"scope"})

	ReconciliationCheckedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "reconciliation",
		Name:      "rows_checked_total",
		Help:      "Total rows whose counters were compared with their source tables",
	}, []string{"scope"})

	ReconciliationCorrectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "reconciliation",
		Name:      "rows_corrected_total",
		Help:      "Total rows whose drifted counters were rewritten",
	}, []string{"scope"})

	ReconciliationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "reconciliation",
		Name:      "errors_total",
		Help:      "Total per-row correction failures",
	}, []string{"scope"})

	ReconciliationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "indexer",
		Subsystem: "reconciliation",
		Name:      "duration_seconds",
		Help:      "Full sweep duration",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 900},
	})
)
