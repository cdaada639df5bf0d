package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/domain/event"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/metrics"
	"github.com/redis/go-redis/v9"
)

const DefaultMaxLen = 100_000

// streamAdder is the subset of the redis client the change feed uses.
type streamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// ChangeFeed appends one entry per applied checkpoint to a capped Redis
// stream. Downstream consumers use it as a wake-up signal and re-read the
// projection; the stream is never a source of truth.
type ChangeFeed struct {
	client streamAdder
	stream string
	maxLen int64
}

type Option func(*ChangeFeed)

// WithMaxLen caps the stream at approximately n entries.
func WithMaxLen(n int64) Option {
	return func(f *ChangeFeed) {
		if n > 0 {
			f.maxLen = n
		}
	}
}

func NewChangeFeed(client streamAdder, stream string, opts ...Option) *ChangeFeed {
	f := &ChangeFeed{client: client, stream: stream, maxLen: DefaultMaxLen}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Publish appends n and returns the stream entry id.
func (f *ChangeFeed) Publish(ctx context.Context, n event.CheckpointApplied) (string, error) {
	id, err := f.client.XAdd(ctx, &redis.XAddArgs{
		Stream: f.stream,
		MaxLen: f.maxLen,
		Approx: true,
		Values: map[string]any{
			"worker_id":  n.WorkerID,
			"checkpoint": strconv.FormatInt(n.Sequence, 10),
			"events":     strconv.Itoa(n.Events),
			"applied_at": n.AppliedAt.UTC().Format(time.RFC3339Nano),
		},
	}).Result()
	if err != nil {
		metrics.ChangeFeedErrors.Inc()
		return "", fmt.Errorf("xadd %s checkpoint %d: %w", f.stream, n.Sequence, err)
	}
	metrics.ChangeFeedPublished.Inc()
	return id, nil
}

// Dial connects to url and verifies the connection.
func Dial(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
