package model

import (
	"encoding/json"
	"time"
)

// AuditReason classifies why an event was skipped instead of applied.
type AuditReason string

const (
	AuditReasonParseError       AuditReason = "parse_error"
	AuditReasonValidationError  AuditReason = "validation_error"
	AuditReasonUsernameConflict AuditReason = "username_conflict"
	// AuditReasonDataError marks a value Postgres refused to store.
	AuditReasonDataError AuditReason = "data_error"
	// AuditReasonIgnored marks a well-formed event the projection
	// deliberately does not apply.
	AuditReasonIgnored AuditReason = "ignored"
)

func (r AuditReason) String() string {
	return string(r)
}

type AuditEntry struct {
	CheckpointSequence int64           `db:"checkpoint_sequence"`
	EventID            string          `db:"event_id"`
	EventType          string          `db:"event_type"`
	Reason             AuditReason     `db:"reason"`
	Detail             string          `db:"detail"`
	Payload            json.RawMessage `db:"payload"`
	CreatedAt          time.Time       `db:"created_at"`
}

// EventLogTable names the append-only table an applied event is logged to.
type EventLogTable string

const (
	EventLogProfile  EventLogTable = "profile_events"
	EventLogPlatform EventLogTable = "platform_events"
)

type EventLogEntry struct {
	Table              EventLogTable   `db:"-"`
	EventType          string          `db:"event_type"`
	SubjectID          string          `db:"subject_id"`
	EventID            string          `db:"event_id"`
	CheckpointSequence int64           `db:"checkpoint_sequence"`
	Payload            json.RawMessage `db:"payload"`
	CreatedAt          time.Time       `db:"created_at"`
}
