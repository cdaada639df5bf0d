package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/domain/model"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/store"
)

type ProfileRepo struct {
	db *DB
}

func NewProfileRepo(db *DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// EnsureTx inserts a zero-counter stub so relationship rows can reference
// an address whose ProfileCreated has not been applied yet.
func (r *ProfileRepo) EnsureTx(ctx context.Context, tx *sql.Tx, address string, seenAt time.Time) (bool, error) {
	return execChanged(ctx, tx, "ensure profile", `
		INSERT INTO profiles (owner_address, created_at, updated_at)
		VALUES ($1, $2, $2)
		ON CONFLICT (owner_address) DO NOTHING
	`, address, seenAt)
}

// UpsertTx reports true only when this call attached a profile_id to the
// address for the first time, which is what a new registration means for
// daily statistics. A stub created earlier by a follow still counts.
func (r *ProfileRepo) UpsertTx(ctx context.Context, tx *sql.Tx, p *model.Profile) (bool, error) {
	var prior sql.NullString
	err := tx.QueryRowContext(ctx, `
		SELECT profile_id FROM profiles WHERE owner_address = $1 FOR UPDATE
	`, p.OwnerAddress).Scan(&prior)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("lock profile: %w", err)
	}

	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = p.UpdatedAt
	}
	updatedAt := p.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO profiles (
			owner_address, profile_id, display_name, bio, profile_photo, cover_photo, website,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (owner_address) DO UPDATE SET
			profile_id    = COALESCE(profiles.profile_id, EXCLUDED.profile_id),
			display_name  = COALESCE(EXCLUDED.display_name, profiles.display_name),
			bio           = COALESCE(EXCLUDED.bio, profiles.bio),
			profile_photo = COALESCE(EXCLUDED.profile_photo, profiles.profile_photo),
			cover_photo   = COALESCE(EXCLUDED.cover_photo, profiles.cover_photo),
			website       = COALESCE(EXCLUDED.website, profiles.website),
			updated_at    = GREATEST(profiles.updated_at, EXCLUDED.updated_at)
	`, p.OwnerAddress, p.ProfileID, p.DisplayName, p.Bio, p.ProfilePhoto, p.CoverPhoto, p.Website,
		createdAt, updatedAt,
	); err != nil {
		return false, fmt.Errorf("upsert profile: %w", err)
	}

	return !prior.Valid && p.ProfileID != nil, nil
}

func (r *ProfileRepo) FindAddressByProfileIDTx(ctx context.Context, tx *sql.Tx, profileID string) (string, bool, error) {
	var address string
	err := tx.QueryRowContext(ctx, `
		SELECT owner_address FROM profiles WHERE profile_id = $1
	`, profileID).Scan(&address)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find profile by id: %w", err)
	}
	return address, true, nil
}

func (r *ProfileRepo) SetUsernameTx(ctx context.Context, tx *sql.Tx, address, username string, at time.Time) error {
	return execTx(ctx, tx, "set profile username", `
		UPDATE profiles SET
			username = $2,
			updated_at = GREATEST(updated_at, $3)
		WHERE owner_address = $1
	`, address, username, at)
}

// AdjustCountersTx applies signed deltas, flooring every counter at zero.
func (r *ProfileRepo) AdjustCountersTx(ctx context.Context, tx *sql.Tx, address string, delta store.ProfileCounterDelta, at time.Time) error {
	return execTx(ctx, tx, "adjust profile counters", `
		UPDATE profiles SET
			followers_count  = GREATEST(followers_count + $2, 0),
			following_count  = GREATEST(following_count + $3, 0),
			content_count    = GREATEST(content_count + $4, 0),
			platforms_joined = GREATEST(platforms_joined + $5, 0),
			last_activity_at = GREATEST(COALESCE(last_activity_at, $6), $6)
		WHERE owner_address = $1
	`, address, delta.Followers, delta.Following, delta.Content, delta.PlatformsJoined, at)
}
