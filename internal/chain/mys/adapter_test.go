package mys

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/chain"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/chain/mys/rpc"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/circuitbreaker"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/domain/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRPC struct {
	calls      atomic.Int32
	checkpoint func(ctx context.Context, seq int64) (*rpc.CheckpointResponse, error)
	latest     int64
}

func (f *fakeRPC) GetCheckpoint(ctx context.Context, seq int64) (*rpc.CheckpointResponse, error) {
	f.calls.Add(1)
	return f.checkpoint(ctx, seq)
}

func (f *fakeRPC) GetLatestCheckpointSequence(context.Context) (int64, error) {
	return f.latest, nil
}

func newTestAdapter(client rpc.RPCClient, opts ...Option) *Adapter {
	return NewAdapter("http://unused", time.Second, slog.Default(), append([]Option{WithClient(client)}, opts...)...)
}

func TestAdapter_GetCheckpointConvertsResponse(t *testing.T) {
	client := &fakeRPC{checkpoint: func(_ context.Context, seq int64) (*rpc.CheckpointResponse, error) {
		return &rpc.CheckpointResponse{
			SequenceNumber: event.Uint64(seq),
			TimestampMs:    1_700_000_000_000,
			Transactions: []rpc.TransactionResponse{{
				Digest: "D1",
				Events: []rpc.EventResponse{
					{Type: "0x2::social_graph::FollowEvent", Sender: "0xa", EventSeq: 0, ParsedJSON: []byte(`{}`)},
					{Type: "0x2::social_graph::UnfollowEvent", Sender: "0xa", EventSeq: 1, ParsedJSON: []byte(`{}`)},
				},
			}},
		}, nil
	}}

	cp, err := newTestAdapter(client).GetCheckpoint(context.Background(), 101)
	require.NoError(t, err)
	assert.Equal(t, int64(101), cp.SequenceNumber)
	assert.Equal(t, time.UnixMilli(1_700_000_000_000).UTC(), cp.Time())
	require.Len(t, cp.Transactions, 1)
	assert.Equal(t, 2, cp.EventCount())
	assert.Equal(t, int64(1), cp.Transactions[0].Events[1].EventSeq)
}

func TestAdapter_NotFoundMapsToNotYetAvailable(t *testing.T) {
	client := &fakeRPC{checkpoint: func(context.Context, int64) (*rpc.CheckpointResponse, error) {
		return nil, rpc.ErrNotFound
	}}
	a := newTestAdapter(client, WithCircuitBreaker(circuitbreaker.Config{FailureThreshold: 1}))

	for i := 0; i < 3; i++ {
		_, err := a.GetCheckpoint(context.Background(), 500)
		require.ErrorIs(t, err, chain.ErrNotYetAvailable)
	}
	assert.Equal(t, circuitbreaker.StateClosed, a.breaker.GetState(), "tip polling must not trip the breaker")
}

func TestAdapter_SequenceMismatchIsError(t *testing.T) {
	client := &fakeRPC{checkpoint: func(context.Context, int64) (*rpc.CheckpointResponse, error) {
		return &rpc.CheckpointResponse{SequenceNumber: 7}, nil
	}}

	_, err := newTestAdapter(client).GetCheckpoint(context.Background(), 8)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "returned sequence 7 for request 8")
}

func TestAdapter_ServerErrorsOpenCircuit(t *testing.T) {
	client := &fakeRPC{checkpoint: func(context.Context, int64) (*rpc.CheckpointResponse, error) {
		return nil, &rpc.HTTPError{StatusCode: 502, Body: "bad gateway"}
	}}
	a := newTestAdapter(client, WithCircuitBreaker(circuitbreaker.Config{FailureThreshold: 2, OpenTimeout: time.Hour}))

	for i := 0; i < 2; i++ {
		_, err := a.GetCheckpoint(context.Background(), 1)
		var httpErr *rpc.HTTPError
		require.True(t, errors.As(err, &httpErr))
	}

	_, err := a.GetCheckpoint(context.Background(), 1)
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	assert.Equal(t, int32(2), client.calls.Load())
}

func TestAdapter_ClientErrorsDoNotOpenCircuit(t *testing.T) {
	client := &fakeRPC{checkpoint: func(context.Context, int64) (*rpc.CheckpointResponse, error) {
		return nil, &rpc.HTTPError{StatusCode: 400, Body: "bad request"}
	}}
	a := newTestAdapter(client, WithCircuitBreaker(circuitbreaker.Config{FailureThreshold: 1}))

	_, _ = a.GetCheckpoint(context.Background(), 1)
	_, _ = a.GetCheckpoint(context.Background(), 1)
	assert.Equal(t, circuitbreaker.StateClosed, a.breaker.GetState())
}

func TestAdapter_ConcurrentRequestsForSameSequenceShareOneCall(t *testing.T) {
	release := make(chan struct{})
	client := &fakeRPC{checkpoint: func(_ context.Context, seq int64) (*rpc.CheckpointResponse, error) {
		<-release
		return &rpc.CheckpointResponse{SequenceNumber: event.Uint64(seq)}, nil
	}}
	a := newTestAdapter(client)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cp, err := a.GetCheckpoint(context.Background(), 42)
			assert.NoError(t, err)
			assert.Equal(t, int64(42), cp.SequenceNumber)
		}()
	}
	// Give the goroutines time to join the in-flight call.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), client.calls.Load())
}

func TestAdapter_GetLatestCheckpointSequence(t *testing.T) {
	latest, err := newTestAdapter(&fakeRPC{latest: 900}).GetLatestCheckpointSequence(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(900), latest)
}
