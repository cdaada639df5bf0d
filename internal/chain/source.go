package chain

import (
	"context"
	"errors"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/domain/model"
)

//go:generate mockgen -source=source.go -destination=mocks/mock_source.go -package=mocks

// ErrNotYetAvailable means the requested checkpoint is beyond the source
// tip. It is a wait signal, never a failure.
var ErrNotYetAvailable = errors.New("checkpoint not yet available")

// CheckpointSource serves the ordered, append-only checkpoint stream.
type CheckpointSource interface {
	// GetCheckpoint returns checkpoint seq, or ErrNotYetAvailable when the
	// source has not produced it yet.
	GetCheckpoint(ctx context.Context, seq int64) (*model.Checkpoint, error)

	// GetLatestCheckpointSequence returns the newest sequence the source can
	// serve.
	GetLatestCheckpointSequence(ctx context.Context) (int64, error)
}
