package postgres

import (
	"context"
	"database/sql"
	"time"
)

type SocialGraphRepo struct {
	db *DB
}

func NewSocialGraphRepo(db *DB) *SocialGraphRepo {
	return &SocialGraphRepo{db: db}
}

func (r *SocialGraphRepo) InsertFollowTx(ctx context.Context, tx *sql.Tx, follower, following string, at time.Time) (bool, error) {
	return execChanged(ctx, tx, "insert follow", `
		INSERT INTO follows (follower_address, following_address, followed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (follower_address, following_address) DO NOTHING
	`, follower, following, at)
}

func (r *SocialGraphRepo) DeleteFollowTx(ctx context.Context, tx *sql.Tx, follower, following string) (bool, error) {
	return execChanged(ctx, tx, "delete follow", `
		DELETE FROM follows WHERE follower_address = $1 AND following_address = $2
	`, follower, following)
}

func (r *SocialGraphRepo) InsertBlockTx(ctx context.Context, tx *sql.Tx, blocker, blocked string, reason *string, at time.Time) (bool, error) {
	return execChanged(ctx, tx, "insert profile block", `
		INSERT INTO profile_blocks (blocker_address, blocked_address, reason, blocked_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (blocker_address, blocked_address) DO NOTHING
	`, blocker, blocked, reason, at)
}

func (r *SocialGraphRepo) DeleteBlockTx(ctx context.Context, tx *sql.Tx, blocker, blocked string) (bool, error) {
	return execChanged(ctx, tx, "delete profile block", `
		DELETE FROM profile_blocks WHERE blocker_address = $1 AND blocked_address = $2
	`, blocker, blocked)
}
