package rpc

import (
	"encoding/json"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/domain/event"
)

// CheckpointResponse is the checkpoint document served by the source.
// Numeric fields may arrive as JSON numbers or decimal strings.
type CheckpointResponse struct {
	SequenceNumber event.Uint64          `json:"sequence_number"`
	TimestampMs    event.Uint64          `json:"timestamp_ms"`
	Transactions   []TransactionResponse `json:"transactions"`
}

type TransactionResponse struct {
	Digest string          `json:"digest"`
	Events []EventResponse `json:"events"`
}

type EventResponse struct {
	Type       string          `json:"type"`
	Sender     string          `json:"sender"`
	ParsedJSON json.RawMessage `json:"parsed_json"`
	EventSeq   event.Uint64    `json:"event_seq"`
}

type LatestResponse struct {
	SequenceNumber event.Uint64 `json:"sequence_number"`
}
