package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/domain/model"
)

type CursorRepo struct {
	db *DB
}

func NewCursorRepo(db *DB) *CursorRepo {
	return &CursorRepo{db: db}
}

func (r *CursorRepo) Get(ctx context.Context, workerID string) (*model.ProgressCursor, error) {
	ctx, cancel := withTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	var c model.ProgressCursor
	err := r.db.QueryRowContext(ctx, `
		SELECT worker_id, last_checkpoint_processed, last_processed_at
		FROM indexer_progress
		WHERE worker_id = $1
	`, workerID).Scan(&c.WorkerID, &c.LastCheckpointProcessed, &c.LastProcessedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cursor: %w", err)
	}
	return &c, nil
}

// Advance runs outside any projection transaction so the write is durable
// on return. GREATEST keeps a replayed or late advance from moving the
// cursor backwards.
func (r *CursorRepo) Advance(ctx context.Context, workerID string, sequence int64) error {
	ctx, cancel := withTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO indexer_progress (worker_id, last_checkpoint_processed, last_processed_at)
		VALUES ($1, $2, now())
		ON CONFLICT (worker_id) DO UPDATE SET
			last_checkpoint_processed = GREATEST(indexer_progress.last_checkpoint_processed, EXCLUDED.last_checkpoint_processed),
			last_processed_at = now()
	`, workerID, sequence)
	if err != nil {
		return fmt.Errorf("advance cursor: %w", err)
	}
	return nil
}

func (r *CursorRepo) Set(ctx context.Context, workerID string, sequence int64) error {
	ctx, cancel := withTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO indexer_progress (worker_id, last_checkpoint_processed, last_processed_at)
		VALUES ($1, $2, now())
		ON CONFLICT (worker_id) DO UPDATE SET
			last_checkpoint_processed = EXCLUDED.last_checkpoint_processed,
			last_processed_at = now()
	`, workerID, sequence)
	if err != nil {
		return fmt.Errorf("set cursor: %w", err)
	}
	return nil
}
