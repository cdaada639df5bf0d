package model

import (
	"encoding/json"
	"time"
)

// Checkpoint is one sequentially numbered batch of transactions as returned
// by the checkpoint source.
type Checkpoint struct {
	SequenceNumber int64
	TimestampMs    int64
	Transactions   []Transaction
}

// Time returns the checkpoint timestamp in UTC.
func (c *Checkpoint) Time() time.Time {
	if c == nil || c.TimestampMs <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(c.TimestampMs).UTC()
}

// EventCount returns the number of chain events across all transactions.
func (c *Checkpoint) EventCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, tx := range c.Transactions {
		n += len(tx.Events)
	}
	return n
}

type Transaction struct {
	Digest string
	Events []ChainEvent
}

// ChainEvent is an event emitted by a Move call, carried through untouched.
type ChainEvent struct {
	Type       string
	Sender     string
	EventSeq   int64
	ParsedJSON json.RawMessage
}
