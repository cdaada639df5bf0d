package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/store"
)

type StatisticsRepo struct {
	db *DB
}

func NewStatisticsRepo(db *DB) *StatisticsRepo {
	return &StatisticsRepo{db: db}
}

// day truncates to the UTC calendar date the rollup row is keyed on.
func day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func (r *StatisticsRepo) AddDailyTx(ctx context.Context, tx *sql.Tx, at time.Time, d store.DailyDelta) error {
	return execTx(ctx, tx, "add daily statistics", `
		INSERT INTO daily_statistics (
			date, new_profiles_count, new_content_count, total_interactions_count,
			new_ip_registrations_count, new_licenses_count, total_fees_distributed
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (date) DO UPDATE SET
			new_profiles_count         = daily_statistics.new_profiles_count + EXCLUDED.new_profiles_count,
			new_content_count          = daily_statistics.new_content_count + EXCLUDED.new_content_count,
			total_interactions_count   = daily_statistics.total_interactions_count + EXCLUDED.total_interactions_count,
			new_ip_registrations_count = daily_statistics.new_ip_registrations_count + EXCLUDED.new_ip_registrations_count,
			new_licenses_count         = daily_statistics.new_licenses_count + EXCLUDED.new_licenses_count,
			total_fees_distributed     = daily_statistics.total_fees_distributed + EXCLUDED.total_fees_distributed
	`, day(at), d.NewProfiles, d.NewContent, d.Interactions, d.NewIPRegistrations, d.NewLicenses, d.TotalFeesDistributed)
}

func (r *StatisticsRepo) AddPlatformDailyTx(ctx context.Context, tx *sql.Tx, platformID string, at time.Time, d store.PlatformDailyDelta) error {
	return execTx(ctx, tx, "add platform daily statistics", `
		INSERT INTO platform_daily_statistics (platform_id, date, new_users_count, content_created_count)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (platform_id, date) DO UPDATE SET
			new_users_count       = platform_daily_statistics.new_users_count + EXCLUDED.new_users_count,
			content_created_count = platform_daily_statistics.content_created_count + EXCLUDED.content_created_count
	`, platformID, day(at), d.NewUsers, d.ContentCreated)
}
