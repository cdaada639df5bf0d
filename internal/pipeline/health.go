package pipeline

import (
	"slices"
	"sync"
	"time"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/metrics"
)

// HealthStatus represents the health state of a pipeline.
type HealthStatus string

const (
	HealthStatusUnknown   HealthStatus = "UNKNOWN"
	HealthStatusHealthy   HealthStatus = "HEALTHY"
	HealthStatusDegraded  HealthStatus = "DEGRADED"
	HealthStatusUnhealthy HealthStatus = "UNHEALTHY"
	HealthStatusInactive  HealthStatus = "INACTIVE"

	// DefaultUnhealthyThreshold is the number of consecutive failures
	// before a pipeline is considered unhealthy.
	DefaultUnhealthyThreshold = 5

	// DefaultDegradedLatencyThreshold is the P95 checkpoint commit latency
	// above which a pipeline is considered degraded.
	DefaultDegradedLatencyThreshold = 5 * time.Second

	latencyWindowSize = 10
)

func (s HealthStatus) gaugeValue() float64 {
	switch s {
	case HealthStatusHealthy:
		return 1
	case HealthStatusDegraded:
		return 2
	case HealthStatusUnhealthy:
		return 3
	case HealthStatusInactive:
		return 4
	default:
		return 0
	}
}

// PipelineHealth tracks the health of one worker's ingestion stream.
type PipelineHealth struct {
	mu                       sync.RWMutex
	workerID                 string
	status                   HealthStatus
	consecutiveFailures      int
	lastCheckpoint           int64
	lastSuccessAt            *time.Time
	lastFailureAt            *time.Time
	lastError                string
	unhealthyThreshold       int
	recentLatencies          []time.Duration
	degradedLatencyThreshold time.Duration
	now                      func() time.Time
}

func NewPipelineHealth(workerID string) *PipelineHealth {
	h := &PipelineHealth{
		workerID:                 workerID,
		status:                   HealthStatusUnknown,
		lastCheckpoint:           -1,
		unhealthyThreshold:       DefaultUnhealthyThreshold,
		recentLatencies:          make([]time.Duration, 0, latencyWindowSize),
		degradedLatencyThreshold: DefaultDegradedLatencyThreshold,
		now:                      time.Now,
	}
	h.publish()
	return h
}

// SetStatus sets the health status directly.
func (h *PipelineHealth) SetStatus(status HealthStatus) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = status
	h.publish()
}

// RecordCommit records a durably advanced checkpoint and how long it took
// from apply to cursor advance. It returns true when the call recovers the
// pipeline from UNHEALTHY.
func (h *PipelineHealth) RecordCommit(seq int64, took time.Duration) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	wasUnhealthy := h.status == HealthStatusUnhealthy
	h.consecutiveFailures = 0
	h.lastCheckpoint = seq
	h.lastSuccessAt = &now
	h.lastError = ""

	if len(h.recentLatencies) >= latencyWindowSize {
		h.recentLatencies = h.recentLatencies[1:]
	}
	h.recentLatencies = append(h.recentLatencies, took)

	if h.isLatencyDegraded() {
		h.status = HealthStatusDegraded
	} else {
		h.status = HealthStatusHealthy
	}
	h.publish()
	return wasUnhealthy
}

// RecordFailure records a failed run. Returns true if the pipeline
// transitioned to unhealthy on this call.
func (h *PipelineHealth) RecordFailure(err error) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	h.consecutiveFailures++
	h.lastFailureAt = &now
	if err != nil {
		h.lastError = err.Error()
	}
	transitioned := false
	if h.consecutiveFailures >= h.unhealthyThreshold && h.status != HealthStatusUnhealthy {
		h.status = HealthStatusUnhealthy
		transitioned = true
	}
	h.publish()
	return transitioned
}

// Halt marks the pipeline unhealthy regardless of the failure count. A
// fatal error stops ingestion, so there is no later success to wait for.
func (h *PipelineHealth) Halt(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	h.consecutiveFailures++
	h.lastFailureAt = &now
	if err != nil {
		h.lastError = err.Error()
	}
	h.status = HealthStatusUnhealthy
	h.publish()
}

// Ready reports whether the pipeline should receive traffic from
// readiness probes.
func (h *PipelineHealth) Ready() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.status != HealthStatusUnhealthy
}

// isLatencyDegraded must be called with mu held.
func (h *PipelineHealth) isLatencyDegraded() bool {
	if len(h.recentLatencies) < 2 {
		return false
	}
	return h.percentileLatency(95) > h.degradedLatencyThreshold
}

// percentileLatency must be called with mu held.
func (h *PipelineHealth) percentileLatency(pct int) time.Duration {
	n := len(h.recentLatencies)
	if n == 0 {
		return 0
	}
	sorted := slices.Clone(h.recentLatencies)
	slices.Sort(sorted)
	idx := (pct*n - 1) / 100
	return sorted[max(0, min(idx, n-1))]
}

// publish must be called with mu held.
func (h *PipelineHealth) publish() {
	metrics.PipelineHealthStatus.WithLabelValues(h.workerID).Set(h.status.gaugeValue())
	metrics.PipelineConsecutiveFailures.WithLabelValues(h.workerID).Set(float64(h.consecutiveFailures))
}

// Snapshot returns the current health state.
func (h *PipelineHealth) Snapshot() HealthSnapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return HealthSnapshot{
		WorkerID:            h.workerID,
		Status:              string(h.status),
		LastCheckpoint:      h.lastCheckpoint,
		ConsecutiveFailures: h.consecutiveFailures,
		LastSuccessAt:       h.lastSuccessAt,
		LastFailureAt:       h.lastFailureAt,
		LastError:           h.lastError,
	}
}

// HealthSnapshot is a point-in-time view of pipeline health (JSON-safe).
type HealthSnapshot struct {
	WorkerID            string     `json:"worker_id"`
	Status              string     `json:"status"`
	LastCheckpoint      int64      `json:"last_checkpoint"`
	ConsecutiveFailures int        `json:"consecutive_failures"`
	LastSuccessAt       *time.Time `json:"last_success_at,omitempty"`
	LastFailureAt       *time.Time `json:"last_failure_at,omitempty"`
	LastError           string     `json:"last_error,omitempty"`
}
