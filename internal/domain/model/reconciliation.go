package model

import (
	"time"

	"github.com/google/uuid"
)

type ReconciliationRun struct {
	RunID      uuid.UUID `db:"run_id"`
	Scope      string    `db:"scope"`
	Checked    int       `db:"checked"`
	Corrected  int       `db:"corrected"`
	Errors     int       `db:"errors"`
	StartedAt  time.Time `db:"started_at"`
	FinishedAt time.Time `db:"finished_at"`
}
