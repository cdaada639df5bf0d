package coordinator

import (
	"sync/atomic"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/domain/model"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/metrics"
)

// StageTracker records where the sequencer is in the per-checkpoint state
// machine and mirrors it to the stage gauge.
type StageTracker struct {
	workerID string
	current  atomic.Value
}

func NewStageTracker(workerID string) *StageTracker {
	t := &StageTracker{workerID: workerID}
	t.Set(model.StageIdle)
	return t
}

func (t *StageTracker) Set(s model.Stage) {
	t.current.Store(s)
	metrics.PipelineStage.WithLabelValues(t.workerID).Set(float64(s.Ordinal()))
}

func (t *StageTracker) Current() model.Stage {
	s, _ := t.current.Load().(model.Stage)
	return s
}
