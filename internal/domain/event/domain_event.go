package event

import (
	"encoding/json"
	"time"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/domain/model"
)

// DomainEvent is one recognised, decoded chain event. Payload holds a value
// of the struct type matching Kind (see payloads.go).
type DomainEvent struct {
	Kind               Kind
	EventID            string
	EventType          string
	CheckpointSequence int64
	TxDigest           string
	Timestamp          time.Time
	Payload            any
	Raw                json.RawMessage
}

// Rejected is a recognised event whose payload could not be decoded or
// validated. It is audited and skipped.
type Rejected struct {
	Kind      Kind
	EventID   string
	EventType string
	Reason    model.AuditReason
	Detail    string
	Raw       json.RawMessage
}

// ExtractedCheckpoint is the extractor output for one checkpoint, ready for
// the projection writer.
type ExtractedCheckpoint struct {
	Sequence  int64
	Timestamp time.Time
	Events    []DomainEvent
	Rejected  []Rejected
	Discarded int
}
