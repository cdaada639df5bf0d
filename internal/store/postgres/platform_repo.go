package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/domain/model"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/store"
)

type PlatformRepo struct {
	db *DB
}

func NewPlatformRepo(db *DB) *PlatformRepo {
	return &PlatformRepo{db: db}
}

// UpsertTx writes a created platform. developer_address and created_at are
// only taken on insert; descriptive fields overwrite a stub left by an
// earlier join or content event. Approval columns are never touched here.
func (r *PlatformRepo) UpsertTx(ctx context.Context, tx *sql.Tx, p *model.Platform) (bool, error) {
	var inserted bool
	err := tx.QueryRowContext(ctx, `
		INSERT INTO platforms (
			platform_id, name, tagline, description, logo, developer_address, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (platform_id) DO UPDATE SET
			name              = EXCLUDED.name,
			tagline           = COALESCE(EXCLUDED.tagline, platforms.tagline),
			description       = COALESCE(EXCLUDED.description, platforms.description),
			logo              = COALESCE(EXCLUDED.logo, platforms.logo),
			developer_address = CASE WHEN platforms.developer_address = '' THEN EXCLUDED.developer_address ELSE platforms.developer_address END,
			status            = EXCLUDED.status,
			updated_at        = GREATEST(platforms.updated_at, EXCLUDED.updated_at)
		RETURNING (xmax = 0)
	`, p.PlatformID, p.Name, p.Tagline, p.Description, p.Logo, p.DeveloperAddress, p.Status, p.CreatedAt,
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("upsert platform: %w", err)
	}
	return inserted, nil
}

func (r *PlatformRepo) EnsureTx(ctx context.Context, tx *sql.Tx, platformID string, seenAt time.Time) (bool, error) {
	return execChanged(ctx, tx, "ensure platform", `
		INSERT INTO platforms (platform_id, created_at, updated_at)
		VALUES ($1, $2, $2)
		ON CONFLICT (platform_id) DO NOTHING
	`, platformID, seenAt)
}

// UpdateTx reports false when the platform does not exist.
func (r *PlatformRepo) UpdateTx(ctx context.Context, tx *sql.Tx, u store.PlatformUpdate) (bool, error) {
	return execChanged(ctx, tx, "update platform", `
		UPDATE platforms SET
			name        = COALESCE($2, name),
			tagline     = COALESCE($3, tagline),
			description = COALESCE($4, description),
			logo        = COALESCE($5, logo),
			status      = COALESCE($6, status),
			updated_at  = GREATEST(updated_at, $7)
		WHERE platform_id = $1
	`, u.PlatformID, u.Name, u.Tagline, u.Description, u.Logo, u.Status, u.UpdatedAt)
}

func (r *PlatformRepo) SetApprovalTx(ctx context.Context, tx *sql.Tx, a store.PlatformApproval) (bool, error) {
	return execChanged(ctx, tx, "set platform approval", `
		UPDATE platforms SET
			is_approved         = $2,
			approved_by         = $3,
			approval_changed_at = $4,
			updated_at          = GREATEST(updated_at, $4)
		WHERE platform_id = $1
	`, a.PlatformID, a.IsApproved, a.ApprovedBy, a.ChangedAt)
}

func (r *PlatformRepo) AdjustCountersTx(ctx context.Context, tx *sql.Tx, platformID string, delta store.PlatformCounterDelta, at time.Time) error {
	return execTx(ctx, tx, "adjust platform counters", `
		UPDATE platforms SET
			total_users_count = GREATEST(total_users_count + $2, 0),
			content_count     = GREATEST(content_count + $3, 0),
			last_activity_at  = GREATEST(COALESCE(last_activity_at, $4), $4)
		WHERE platform_id = $1
	`, platformID, delta.Users, delta.Content, at)
}

func (r *PlatformRepo) InsertModeratorTx(ctx context.Context, tx *sql.Tx, platformID, moderator, addedBy string, at time.Time) (bool, error) {
	return execChanged(ctx, tx, "insert moderator", `
		INSERT INTO platform_moderators (platform_id, moderator_address, added_by, added_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (platform_id, moderator_address) DO NOTHING
	`, platformID, moderator, addedBy, at)
}

func (r *PlatformRepo) DeleteModeratorTx(ctx context.Context, tx *sql.Tx, platformID, moderator string) (bool, error) {
	return execChanged(ctx, tx, "delete moderator", `
		DELETE FROM platform_moderators WHERE platform_id = $1 AND moderator_address = $2
	`, platformID, moderator)
}

func (r *PlatformRepo) InsertBlockTx(ctx context.Context, tx *sql.Tx, platformID, profile, blockedBy string, at time.Time) (bool, error) {
	return execChanged(ctx, tx, "insert platform block", `
		INSERT INTO platform_blocks (platform_id, profile_address, blocked_by, blocked_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (platform_id, profile_address) DO NOTHING
	`, platformID, profile, blockedBy, at)
}

func (r *PlatformRepo) DeleteBlockTx(ctx context.Context, tx *sql.Tx, platformID, profile string) (bool, error) {
	return execChanged(ctx, tx, "delete platform block", `
		DELETE FROM platform_blocks WHERE platform_id = $1 AND profile_address = $2
	`, platformID, profile)
}

func (r *PlatformRepo) IsBlockedTx(ctx context.Context, tx *sql.Tx, platformID, profile string) (bool, error) {
	var blocked bool
	err := tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM platform_blocks WHERE platform_id = $1 AND profile_address = $2)
	`, platformID, profile).Scan(&blocked)
	if err != nil {
		return false, fmt.Errorf("check platform block: %w", err)
	}
	return blocked, nil
}

func (r *PlatformRepo) InsertMembershipTx(ctx context.Context, tx *sql.Tx, platformID, profile string, at time.Time) (bool, error) {
	return execChanged(ctx, tx, "insert membership", `
		INSERT INTO platform_memberships (platform_id, profile_address, joined_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (platform_id, profile_address) DO NOTHING
	`, platformID, profile, at)
}

func (r *PlatformRepo) DeleteMembershipTx(ctx context.Context, tx *sql.Tx, platformID, profile string) (bool, error) {
	return execChanged(ctx, tx, "delete membership", `
		DELETE FROM platform_memberships WHERE platform_id = $1 AND profile_address = $2
	`, platformID, profile)
}
