package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/store"
)

type ContentRepo struct {
	db *DB
}

func NewContentRepo(db *DB) *ContentRepo {
	return &ContentRepo{db: db}
}

func (r *ContentRepo) UpsertContentTx(ctx context.Context, tx *sql.Tx, c *store.Content) (bool, error) {
	var inserted bool
	err := tx.QueryRowContext(ctx, `
		INSERT INTO content (content_id, creator_address, platform_id, content_type, parent_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (content_id) DO UPDATE SET
			content_type = EXCLUDED.content_type
		RETURNING (xmax = 0)
	`, c.ContentID, c.CreatorAddress, c.PlatformID, c.ContentType, c.ParentID, c.CreatedAt,
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("upsert content: %w", err)
	}
	return inserted, nil
}

func (r *ContentRepo) IncrementCommentCountTx(ctx context.Context, tx *sql.Tx, parentID string) error {
	return execTx(ctx, tx, "increment comment count", `
		UPDATE content SET comment_count = comment_count + 1 WHERE content_id = $1
	`, parentID)
}

func (r *ContentRepo) InsertInteractionTx(ctx context.Context, tx *sql.Tx, profile, contentID, interactionType string, at time.Time) (bool, error) {
	return execChanged(ctx, tx, "insert interaction", `
		INSERT INTO content_interactions (profile_address, content_id, interaction_type, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (profile_address, content_id, interaction_type) DO NOTHING
	`, profile, contentID, interactionType, at)
}

// interactionColumn maps an interaction type onto its counter column.
// Types without a counter return "".
func interactionColumn(interactionType string) string {
	switch strings.ToLower(interactionType) {
	case "like":
		return "like_count"
	case "view":
		return "view_count"
	case "share", "repost":
		return "share_count"
	default:
		return ""
	}
}

func (r *ContentRepo) IncrementInteractionCountTx(ctx context.Context, tx *sql.Tx, contentID, interactionType string) error {
	col := interactionColumn(interactionType)
	if col == "" {
		return nil
	}
	return execTx(ctx, tx, "increment "+col,
		"UPDATE content SET "+col+" = "+col+" + 1 WHERE content_id = $1", contentID)
}

// UpsertIPTx never lets a stub overwrite registered fields. The result is
// true only when registered_at goes from unset to set.
func (r *ContentRepo) UpsertIPTx(ctx context.Context, tx *sql.Tx, ip *store.IntellectualProperty) (bool, error) {
	var registered bool
	err := tx.QueryRowContext(ctx, `
		WITH prev AS (
			SELECT registered_at FROM intellectual_property WHERE ip_id = $1
		), up AS (
			INSERT INTO intellectual_property (ip_id, creator_address, title, ip_type, created_at, registered_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (ip_id) DO UPDATE SET
				creator_address = CASE WHEN intellectual_property.creator_address = '' THEN EXCLUDED.creator_address ELSE intellectual_property.creator_address END,
				title           = CASE WHEN intellectual_property.title = '' THEN EXCLUDED.title ELSE intellectual_property.title END,
				ip_type         = CASE WHEN EXCLUDED.registered_at IS NULL THEN intellectual_property.ip_type ELSE EXCLUDED.ip_type END,
				registered_at   = COALESCE(intellectual_property.registered_at, EXCLUDED.registered_at)
			RETURNING registered_at
		)
		SELECT (SELECT registered_at FROM up) IS NOT NULL
			AND NOT EXISTS (SELECT 1 FROM prev WHERE registered_at IS NOT NULL)
	`, ip.IPID, ip.CreatorAddress, ip.Title, ip.IPType, ip.CreatedAt, ip.RegisteredAt,
	).Scan(&registered)
	if err != nil {
		return false, fmt.Errorf("upsert intellectual property: %w", err)
	}
	return registered, nil
}

func (r *ContentRepo) MarkIPRegisteredTx(ctx context.Context, tx *sql.Tx, contentID string) error {
	return execTx(ctx, tx, "mark ip registered", `
		UPDATE content SET has_ip_registered = true WHERE content_id = $1 AND NOT has_ip_registered
	`, contentID)
}

func (r *ContentRepo) InsertLicenseTx(ctx context.Context, tx *sql.Tx, l *store.License) (bool, error) {
	return execChanged(ctx, tx, "insert license", `
		INSERT INTO ip_licenses (license_id, ip_id, licensee_address, license_type, granted_at, expires_at, payment_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (license_id) DO NOTHING
	`, l.LicenseID, l.IPID, l.LicenseeAddress, l.LicenseType, l.GrantedAt, l.ExpiresAt, l.PaymentAmount)
}

// ApplyLicenseTx bumps the IP's license counters and revenue. It reports
// false when the IP row is missing.
func (r *ContentRepo) ApplyLicenseTx(ctx context.Context, tx *sql.Tx, ipID string, paymentAmount int64) (bool, error) {
	return execChanged(ctx, tx, "apply license", `
		UPDATE intellectual_property SET
			total_licenses_count  = total_licenses_count + 1,
			active_licenses_count = active_licenses_count + 1,
			total_revenue         = total_revenue + $2
		WHERE ip_id = $1
	`, ipID, paymentAmount)
}

func (r *ContentRepo) InsertFeeDistributionTx(ctx context.Context, tx *sql.Tx, f *store.FeeDistribution) (bool, error) {
	return execChanged(ctx, tx, "insert fee distribution", `
		INSERT INTO fee_distributions (event_id, fee_model_id, model_name, transaction_amount, total_fee_amount, token_type, distributed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (event_id) DO NOTHING
	`, f.EventID, f.FeeModelID, f.ModelName, f.TransactionAmount, f.TotalFeeAmount, f.TokenType, f.DistributedAt)
}
