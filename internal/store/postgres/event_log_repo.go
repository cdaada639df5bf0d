package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/domain/model"
)

type EventLogRepo struct {
	db *DB
}

func NewEventLogRepo(db *DB) *EventLogRepo {
	return &EventLogRepo{db: db}
}

// auditEventIDLength is the width of ingest_audit_log.event_id.
const auditEventIDLength = 160

var escapedNUL = []byte(`\u0000`)

func jsonOrEmpty(raw json.RawMessage) []byte {
	if doc := storableJSON(raw); doc != nil {
		return doc
	}
	return []byte("{}")
}

// storableJSON returns raw in a form jsonb accepts, or nil when raw is not
// a JSON document. jsonb rejects the \u0000 escape, so NUL characters are
// dropped from every string and key.
func storableJSON(raw json.RawMessage) []byte {
	if len(raw) == 0 || !json.Valid(raw) {
		return nil
	}
	if !bytes.Contains(raw, escapedNUL) {
		return raw
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil
	}
	out, err := json.Marshal(dropNUL(doc))
	if err != nil {
		return nil
	}
	return out
}

func dropNUL(v any) any {
	switch t := v.(type) {
	case string:
		return storableText(t)
	case []any:
		for i := range t {
			t[i] = dropNUL(t[i])
		}
		return t
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[storableText(k)] = dropNUL(e)
		}
		return out
	default:
		return v
	}
}

// storableText strips what text columns refuse: NUL and invalid UTF-8.
func storableText(s string) string {
	return strings.ReplaceAll(strings.ToValidUTF8(s, "\uFFFD"), "\x00", "")
}

func clampRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func (r *EventLogRepo) AppendTx(ctx context.Context, tx *sql.Tx, e *model.EventLogEntry) (bool, error) {
	// The table name comes from a closed enum, never from event data.
	var table string
	switch e.Table {
	case model.EventLogProfile, model.EventLogPlatform:
		table = string(e.Table)
	default:
		return false, fmt.Errorf("append event log: unknown table %q", e.Table)
	}
	return execChanged(ctx, tx, "append "+table, `
		INSERT INTO `+table+` (event_id, event_type, subject_id, checkpoint_sequence, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (event_id) DO NOTHING
	`, e.EventID, e.EventType, e.SubjectID, e.CheckpointSequence, jsonOrEmpty(e.Payload), e.CreatedAt)
}

func (r *EventLogRepo) AuditTx(ctx context.Context, tx *sql.Tx, e *model.AuditEntry) error {
	var payload any
	if doc := storableJSON(e.Payload); doc != nil {
		payload = doc
	}
	return execTx(ctx, tx, "audit rejected event", `
		INSERT INTO ingest_audit_log (checkpoint_sequence, event_id, event_type, reason, detail, payload)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (checkpoint_sequence, event_id, reason) DO NOTHING
	`, e.CheckpointSequence, clampRunes(storableText(e.EventID), auditEventIDLength), storableText(e.EventType),
		string(e.Reason), storableText(e.Detail), payload)
}
