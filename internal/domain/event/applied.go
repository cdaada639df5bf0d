package event

import "time"

// CheckpointApplied is published to the change feed once a checkpoint is
// committed and the cursor has advanced past it.
type CheckpointApplied struct {
	WorkerID  string
	Sequence  int64
	Events    int
	AppliedAt time.Time
}
