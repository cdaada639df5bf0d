package event

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Uint64 decodes Move u64 values, which JSON-RPC renders either as a
// number or as a decimal string.
type Uint64 uint64

func (u *Uint64) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*u = 0
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		var raw string
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		s = strings.TrimSpace(raw)
		if s == "" {
			*u = 0
			return nil
		}
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid u64 %q: %w", s, err)
	}
	*u = Uint64(v)
	return nil
}

func (u Uint64) Int64() int64 {
	if uint64(u) > uint64(1<<63-1) {
		return 1<<63 - 1
	}
	return int64(u)
}

// millisThreshold separates second and millisecond epoch values. Move
// modules in the wild emit both.
const millisThreshold = 1_000_000_000_000

// Time converts an epoch timestamp (seconds or milliseconds) to UTC.
func (u Uint64) Time() time.Time {
	if u == 0 {
		return time.Time{}
	}
	if u >= millisThreshold {
		return time.UnixMilli(u.Int64()).UTC()
	}
	return time.Unix(u.Int64(), 0).UTC()
}

// PlatformStatus accepts either a bare number or the Move struct
// encoding {"status": n}.
type PlatformStatus int16

func (p *PlatformStatus) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*p = 0
		return nil
	}
	if b[0] == '{' {
		var wrapped struct {
			Status Uint64 `json:"status"`
		}
		if err := json.Unmarshal(b, &wrapped); err != nil {
			return err
		}
		return p.set(wrapped.Status)
	}
	var v Uint64
	if err := v.UnmarshalJSON(b); err != nil {
		return err
	}
	return p.set(v)
}

func (p *PlatformStatus) set(v Uint64) error {
	if v > math.MaxInt16 {
		return fmt.Errorf("platform status %d out of range", uint64(v))
	}
	*p = PlatformStatus(v)
	return nil
}
