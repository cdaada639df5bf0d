package model

import "time"

// ProgressCursor is the durable restart contract of one worker identity.
type ProgressCursor struct {
	WorkerID                string    `db:"worker_id"`
	LastCheckpointProcessed int64     `db:"last_checkpoint_processed"`
	LastProcessedAt         time.Time `db:"last_processed_at"`
}

// NextSequence returns the first checkpoint the worker should fetch.
func (c *ProgressCursor) NextSequence(start int64) int64 {
	if c == nil {
		return start
	}
	next := c.LastCheckpointProcessed + 1
	if next < start {
		return start
	}
	return next
}
