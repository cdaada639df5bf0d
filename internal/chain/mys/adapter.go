package mys

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/chain"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/chain/mys/rpc"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/chain/ratelimit"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/circuitbreaker"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/domain/model"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/metrics"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

const sourceName = "mys"

// Adapter serves checkpoints from a MySocial full node. Calls go through
// a rate limiter and a circuit breaker, and concurrent requests for the
// same sequence share one round trip.
type Adapter struct {
	client  rpc.RPCClient
	limiter *ratelimit.Limiter
	breaker *circuitbreaker.Breaker
	group   singleflight.Group
	tracer  trace.Tracer
	logger  *slog.Logger
}

var _ chain.CheckpointSource = (*Adapter)(nil)

type Option func(*Adapter)

func WithRateLimit(rps float64, burst int) Option {
	return func(a *Adapter) {
		a.limiter = ratelimit.NewLimiter(rps, burst, sourceName)
	}
}

func WithCircuitBreaker(cfg circuitbreaker.Config) Option {
	return func(a *Adapter) {
		onChange := cfg.OnStateChange
		cfg.OnStateChange = func(from, to circuitbreaker.State) {
			metrics.RPCCircuitState.WithLabelValues(sourceName).Set(float64(to))
			a.logger.Warn("checkpoint source circuit state changed", "from", from.String(), "to", to.String())
			if onChange != nil {
				onChange(from, to)
			}
		}
		a.breaker = circuitbreaker.New(cfg)
	}
}

// WithClient swaps the transport, mainly for tests.
func WithClient(client rpc.RPCClient) Option {
	return func(a *Adapter) {
		a.client = client
	}
}

func NewAdapter(baseURL string, timeout time.Duration, logger *slog.Logger, opts ...Option) *Adapter {
	a := &Adapter{
		client: rpc.NewClient(baseURL, timeout, logger),
		tracer: tracing.Tracer("chain/mys"),
		logger: logger.With("component", "checkpoint_source", "source", sourceName),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.limiter == nil {
		a.limiter = ratelimit.NewLimiter(0, 1, sourceName)
	}
	if a.breaker == nil {
		WithCircuitBreaker(circuitbreaker.Config{})(a)
	}
	return a
}

func (a *Adapter) GetCheckpoint(ctx context.Context, seq int64) (*model.Checkpoint, error) {
	v, err, _ := a.group.Do(strconv.FormatInt(seq, 10), func() (any, error) {
		return a.fetchCheckpoint(ctx, seq)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Checkpoint), nil
}

func (a *Adapter) fetchCheckpoint(ctx context.Context, seq int64) (*model.Checkpoint, error) {
	ctx, span := a.tracer.Start(ctx, "mys.GetCheckpoint", trace.WithAttributes(attribute.Int64("checkpoint", seq)))
	defer span.End()

	var resp *rpc.CheckpointResponse
	err := a.call(ctx, "get_checkpoint", func(ctx context.Context) error {
		var callErr error
		resp, callErr = a.client.GetCheckpoint(ctx, seq)
		return callErr
	})
	if errors.Is(err, rpc.ErrNotFound) {
		return nil, chain.ErrNotYetAvailable
	}
	if err != nil {
		tracing.Fail(span, err)
		return nil, err
	}

	if got := resp.SequenceNumber.Int64(); got != seq {
		err := fmt.Errorf("checkpoint source returned sequence %d for request %d", got, seq)
		tracing.Fail(span, err)
		return nil, err
	}

	cp := toModel(resp)
	span.SetAttributes(attribute.Int("events", cp.EventCount()))
	return cp, nil
}

func (a *Adapter) GetLatestCheckpointSequence(ctx context.Context) (int64, error) {
	var latest int64
	err := a.call(ctx, "get_latest_checkpoint", func(ctx context.Context) error {
		var callErr error
		latest, callErr = a.client.GetLatestCheckpointSequence(ctx)
		return callErr
	})
	return latest, err
}

func (a *Adapter) call(ctx context.Context, method string, fn func(context.Context) error) error {
	if err := a.limiter.Wait(ctx); err != nil {
		return err
	}
	err := a.breaker.Execute(ctx, fn, countsAgainstSource)
	ratelimit.RecordRPCCall(method, err)
	return err
}

// countsAgainstSource reports whether err says something about upstream
// health. A missing checkpoint or a 4xx other than 429 does not.
func countsAgainstSource(err error) bool {
	if errors.Is(err, rpc.ErrNotFound) {
		return false
	}
	var httpErr *rpc.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= http.StatusInternalServerError || httpErr.StatusCode == http.StatusTooManyRequests
	}
	return true
}

func toModel(resp *rpc.CheckpointResponse) *model.Checkpoint {
	cp := &model.Checkpoint{
		SequenceNumber: resp.SequenceNumber.Int64(),
		TimestampMs:    resp.TimestampMs.Int64(),
		Transactions:   make([]model.Transaction, 0, len(resp.Transactions)),
	}
	for _, tx := range resp.Transactions {
		mtx := model.Transaction{
			Digest: tx.Digest,
			Events: make([]model.ChainEvent, 0, len(tx.Events)),
		}
		for _, ev := range tx.Events {
			mtx.Events = append(mtx.Events, model.ChainEvent{
				Type:       ev.Type,
				Sender:     ev.Sender,
				EventSeq:   ev.EventSeq.Int64(),
				ParsedJSON: ev.ParsedJSON,
			})
		}
		cp.Transactions = append(cp.Transactions, mtx)
	}
	return cp
}
