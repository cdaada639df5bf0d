package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPipelineHealth_RecordCommit(t *testing.T) {
	h := NewPipelineHealth("health-commit")
	h.RecordCommit(101, 20*time.Millisecond)

	snap := h.Snapshot()
	assert.Equal(t, string(HealthStatusHealthy), snap.Status)
	assert.Equal(t, int64(101), snap.LastCheckpoint)
	assert.Equal(t, 0, snap.ConsecutiveFailures)
	assert.NotNil(t, snap.LastSuccessAt)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.PipelineHealthStatus.WithLabelValues("health-commit")))
}

func TestPipelineHealth_RecordFailure_Threshold(t *testing.T) {
	h := NewPipelineHealth("health-threshold")
	for i := 0; i < DefaultUnhealthyThreshold-1; i++ {
		assert.False(t, h.RecordFailure(errors.New("boom")), "should not transition before threshold")
	}

	assert.True(t, h.RecordFailure(errors.New("boom")), "should transition at threshold")
	snap := h.Snapshot()
	assert.Equal(t, string(HealthStatusUnhealthy), snap.Status)
	assert.Equal(t, "boom", snap.LastError)
	assert.False(t, h.Ready())
	assert.Equal(t, float64(DefaultUnhealthyThreshold), testutil.ToFloat64(metrics.PipelineConsecutiveFailures.WithLabelValues("health-threshold")))
}

func TestPipelineHealth_HaltIsImmediate(t *testing.T) {
	h := NewPipelineHealth("health-halt")
	h.RecordCommit(5, time.Millisecond)
	assert.True(t, h.Ready())

	h.Halt(errors.New("projection apply fatal"))
	assert.False(t, h.Ready())
	assert.Equal(t, string(HealthStatusUnhealthy), h.Snapshot().Status)
	assert.Equal(t, float64(3), testutil.ToFloat64(metrics.PipelineHealthStatus.WithLabelValues("health-halt")))
}

func TestPipelineHealth_CommitRecoversFromUnhealthy(t *testing.T) {
	h := NewPipelineHealth("health-recover")
	h.Halt(errors.New("down"))

	assert.True(t, h.RecordCommit(7, time.Millisecond))
	snap := h.Snapshot()
	assert.Equal(t, string(HealthStatusHealthy), snap.Status)
	assert.Empty(t, snap.LastError)
	assert.False(t, h.RecordCommit(8, time.Millisecond), "already healthy")
}

func TestPipelineHealth_SlowCommitsDegrade(t *testing.T) {
	h := NewPipelineHealth("health-slow")
	for i := 0; i < latencyWindowSize; i++ {
		h.RecordCommit(int64(i), 10*time.Second)
	}
	assert.Equal(t, string(HealthStatusDegraded), h.Snapshot().Status)
	assert.True(t, h.Ready(), "degraded still serves")

	for i := 0; i < latencyWindowSize; i++ {
		h.RecordCommit(int64(100+i), 100*time.Millisecond)
	}
	assert.Equal(t, string(HealthStatusHealthy), h.Snapshot().Status)
}

func TestPipelineHealth_SetStatus(t *testing.T) {
	h := NewPipelineHealth("health-inactive")
	h.SetStatus(HealthStatusInactive)
	assert.Equal(t, string(HealthStatusInactive), h.Snapshot().Status)
	assert.Equal(t, float64(4), testutil.ToFloat64(metrics.PipelineHealthStatus.WithLabelValues("health-inactive")))
}

func TestPipelineHealth_Snapshot_Fields(t *testing.T) {
	h := NewPipelineHealth("health-fields")
	snap := h.Snapshot()

	assert.Equal(t, "health-fields", snap.WorkerID)
	assert.Equal(t, string(HealthStatusUnknown), snap.Status)
	assert.Equal(t, int64(-1), snap.LastCheckpoint)
	assert.Nil(t, snap.LastSuccessAt)
	assert.Nil(t, snap.LastFailureAt)
}
