package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/circuitbreaker"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_ExplicitMarkers(t *testing.T) {
	transient := Classify(Transient(errors.New("invalid argument")))
	assert.Equal(t, ClassTransient, transient.Class)
	assert.Equal(t, "explicit_transient", transient.Reason)

	terminal := Classify(Terminal(errors.New("rpc timed out")))
	assert.Equal(t, ClassTerminal, terminal.Class)
	assert.Equal(t, "explicit_terminal", terminal.Reason)

	assert.Nil(t, Transient(nil))
	assert.Nil(t, Terminal(nil))
}

type statusErr int

func (s statusErr) Error() string   { return fmt.Sprintf("http status %d", int(s)) }
func (s statusErr) HTTPStatus() int { return int(s) }

func TestClassify_RepresentativeRuntimeErrors(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		class  Class
		reason string
	}{
		{"context canceled terminal", fmt.Errorf("apply: %w", context.Canceled), ClassTerminal, "context_canceled"},
		{"context deadline transient", context.DeadlineExceeded, ClassTransient, "context_deadline_exceeded"},
		{"circuit open transient", fmt.Errorf("get checkpoint: %w", circuitbreaker.ErrCircuitOpen), ClassTransient, "circuit_open"},
		{"http 503 transient", fmt.Errorf("get checkpoint 5: %w", statusErr(503)), ClassTransient, "http_server_error"},
		{"http 429 transient", statusErr(429), ClassTransient, "http_rate_limited"},
		{"http 400 terminal", statusErr(400), ClassTerminal, "http_client_error"},
		{"bad connection transient", errors.New("driver: bad connection"), ClassTransient, "message_transient"},
		{"sequence mismatch terminal", errors.New("checkpoint source returned sequence 7 for request 8"), ClassTerminal, "message_terminal"},
		{"unknown defaults terminal", errors.New("unexpected failure"), ClassTerminal, "unknown_terminal_default"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			decision := Classify(tc.err)
			assert.Equal(t, tc.class, decision.Class)
			assert.Equal(t, tc.reason, decision.Reason)
		})
	}
}

func TestClassify_PostgresSQLState(t *testing.T) {
	testCases := []struct {
		code  pq.ErrorCode
		class Class
	}{
		{"40001", ClassTransient},
		{"40P01", ClassTransient},
		{"08006", ClassTransient},
		{"08003", ClassTransient},
		{"57P01", ClassTransient},
		{"53300", ClassTransient},
		{"23505", ClassTerminal},
		{"23503", ClassTerminal},
		{"42P01", ClassTerminal},
	}

	for _, tc := range testCases {
		t.Run(string(tc.code), func(t *testing.T) {
			err := fmt.Errorf("insert follow: %w", &pq.Error{Code: tc.code, Message: "x"})
			assert.Equal(t, tc.class, Classify(err).Class)
		})
	}
}

func TestIsDataException(t *testing.T) {
	testCases := []struct {
		code pq.ErrorCode
		want bool
	}{
		{"22001", true}, // string_data_right_truncation
		{"22021", true}, // character_not_in_repertoire
		{"22P05", true}, // untranslatable_character
		{"22003", true}, // numeric_value_out_of_range
		{"23505", false},
		{"40001", false},
	}
	for _, tc := range testCases {
		t.Run(string(tc.code), func(t *testing.T) {
			err := Terminal(fmt.Errorf("insert interaction: %w", &pq.Error{Code: tc.code}))
			assert.Equal(t, tc.want, IsDataException(err))
		})
	}
	assert.False(t, IsDataException(errors.New("value too long")))
	assert.False(t, IsDataException(nil))
}

func TestBackoff_DelayGrowsAndCaps(t *testing.T) {
	b := Backoff{Initial: 100 * time.Millisecond, Max: 400 * time.Millisecond}

	for attempt, base := range map[int]time.Duration{
		1: 100 * time.Millisecond,
		2: 200 * time.Millisecond,
		3: 400 * time.Millisecond,
		9: 400 * time.Millisecond,
	} {
		d := b.Delay(attempt)
		assert.GreaterOrEqual(t, d, base, "attempt %d", attempt)
		assert.LessOrEqual(t, d, base+base/2, "attempt %d", attempt)
	}
}

func TestSleep_ReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := Sleep(ctx, time.Hour)
	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
