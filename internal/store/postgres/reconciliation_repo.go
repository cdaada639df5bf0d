package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/domain/model"
	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/store"
)

// ReconciliationRepo implements store.ReconciliationRepository.
type ReconciliationRepo struct {
	db *DB
}

func NewReconciliationRepo(db *DB) *ReconciliationRepo {
	return &ReconciliationRepo{db: db}
}

const (
	profileFollowersExpr = `(SELECT COUNT(*) FROM follows f WHERE f.following_address = p.owner_address)`
	profileFollowingExpr = `(SELECT COUNT(*) FROM follows f WHERE f.follower_address = p.owner_address)`
	profileJoinedExpr    = `(SELECT COUNT(*) FROM platform_memberships m WHERE m.profile_address = p.owner_address)`
	profileContentExpr   = `(SELECT COUNT(*) FROM content c WHERE c.creator_address = p.owner_address)`
	platformUsersExpr    = `(SELECT COUNT(*) FROM platform_memberships m WHERE m.platform_id = pl.platform_id)`
	platformContentExpr  = `(SELECT COUNT(*) FROM content c WHERE c.platform_id = pl.platform_id)`
)

func (r *ReconciliationRepo) ScanProfiles(ctx context.Context, after string, limit int) ([]store.CounterScan, error) {
	return r.scan(ctx, "scan profiles", `
		SELECT p.owner_address,
			p.followers_count  <> `+profileFollowersExpr+`
			OR p.following_count  <> `+profileFollowingExpr+`
			OR p.platforms_joined <> `+profileJoinedExpr+`
			OR p.content_count    <> `+profileContentExpr+`
		FROM profiles p
		WHERE p.owner_address > $1
		ORDER BY p.owner_address
		LIMIT $2
	`, after, limit)
}

func (r *ReconciliationRepo) ScanPlatforms(ctx context.Context, after string, limit int) ([]store.CounterScan, error) {
	return r.scan(ctx, "scan platforms", `
		SELECT pl.platform_id,
			pl.total_users_count <> `+platformUsersExpr+`
			OR pl.content_count  <> `+platformContentExpr+`
		FROM platforms pl
		WHERE pl.platform_id > $1
		ORDER BY pl.platform_id
		LIMIT $2
	`, after, limit)
}

func (r *ReconciliationRepo) scan(ctx context.Context, op, query string, after string, limit int) ([]store.CounterScan, error) {
	ctx, cancel := withTimeout(ctx, LongQueryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, after, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]store.CounterScan, 0, limit)
	for rows.Next() {
		var s store.CounterScan
		if err := rows.Scan(&s.Key, &s.Drifted); err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s rows: %w", op, err)
	}
	return out, nil
}

// CorrectProfileCounters recomputes the counts while holding the profile row
// lock, so a checkpoint committed between the scan and the correction is
// reflected in the written values.
func (r *ReconciliationRepo) CorrectProfileCounters(ctx context.Context, address string) (model.ProfileCounters, bool, error) {
	ctx, cancel := withTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, ReadCommitted)
	if err != nil {
		return model.ProfileCounters{}, false, fmt.Errorf("begin profile correction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stored := model.ProfileCounters{OwnerAddress: address}
	err = tx.QueryRowContext(ctx, `
		SELECT followers_count, following_count, platforms_joined, content_count
		FROM profiles WHERE owner_address = $1
		FOR UPDATE
	`, address).Scan(&stored.FollowersCount, &stored.FollowingCount, &stored.PlatformsJoined, &stored.ContentCount)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ProfileCounters{}, false, nil
	}
	if err != nil {
		return model.ProfileCounters{}, false, fmt.Errorf("lock profile counters: %w", err)
	}

	actual := model.ProfileCounters{OwnerAddress: address}
	if err := tx.QueryRowContext(ctx, `
		SELECT `+profileFollowersExpr+`, `+profileFollowingExpr+`, `+profileJoinedExpr+`, `+profileContentExpr+`
		FROM (SELECT $1::varchar AS owner_address) p
	`, address).Scan(&actual.FollowersCount, &actual.FollowingCount, &actual.PlatformsJoined, &actual.ContentCount); err != nil {
		return model.ProfileCounters{}, false, fmt.Errorf("recompute profile counters: %w", err)
	}

	if stored.Equal(actual) {
		return actual, false, nil
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE profiles SET
			followers_count  = $2,
			following_count  = $3,
			platforms_joined = $4,
			content_count    = $5
		WHERE owner_address = $1
	`, address, actual.FollowersCount, actual.FollowingCount, actual.PlatformsJoined, actual.ContentCount); err != nil {
		return model.ProfileCounters{}, false, fmt.Errorf("write profile counters: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return model.ProfileCounters{}, false, fmt.Errorf("commit profile correction: %w", err)
	}
	return actual, true, nil
}

func (r *ReconciliationRepo) CorrectPlatformCounters(ctx context.Context, platformID string) (model.PlatformCounters, bool, error) {
	ctx, cancel := withTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, ReadCommitted)
	if err != nil {
		return model.PlatformCounters{}, false, fmt.Errorf("begin platform correction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stored := model.PlatformCounters{PlatformID: platformID}
	err = tx.QueryRowContext(ctx, `
		SELECT total_users_count, content_count
		FROM platforms WHERE platform_id = $1
		FOR UPDATE
	`, platformID).Scan(&stored.TotalUsersCount, &stored.ContentCount)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PlatformCounters{}, false, nil
	}
	if err != nil {
		return model.PlatformCounters{}, false, fmt.Errorf("lock platform counters: %w", err)
	}

	actual := model.PlatformCounters{PlatformID: platformID}
	if err := tx.QueryRowContext(ctx, `
		SELECT `+platformUsersExpr+`, `+platformContentExpr+`
		FROM (SELECT $1::varchar AS platform_id) pl
	`, platformID).Scan(&actual.TotalUsersCount, &actual.ContentCount); err != nil {
		return model.PlatformCounters{}, false, fmt.Errorf("recompute platform counters: %w", err)
	}

	if stored.Equal(actual) {
		return actual, false, nil
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE platforms SET total_users_count = $2, content_count = $3
		WHERE platform_id = $1
	`, platformID, actual.TotalUsersCount, actual.ContentCount); err != nil {
		return model.PlatformCounters{}, false, fmt.Errorf("write platform counters: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return model.PlatformCounters{}, false, fmt.Errorf("commit platform correction: %w", err)
	}
	return actual, true, nil
}

func (r *ReconciliationRepo) RecordRun(ctx context.Context, run *model.ReconciliationRun) error {
	ctx, cancel := withTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reconciliation_runs (run_id, scope, checked, corrected, errors, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, run.RunID, run.Scope, run.Checked, run.Corrected, run.Errors, run.StartedAt, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("record reconciliation run: %w", err)
	}
	return nil
}
