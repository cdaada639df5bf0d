package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/The-Social-Proof-Foundation/mys-social-indexer/internal/domain/model"
)

type UsernameRepo struct {
	db *DB
}

func NewUsernameRepo(db *DB) *UsernameRepo {
	return &UsernameRepo{db: db}
}

// OwnerTx locks the registry row so a concurrent rename cannot claim the
// same name between the check and the assignment.
func (r *UsernameRepo) OwnerTx(ctx context.Context, tx *sql.Tx, username string) (string, bool, error) {
	var profileID string
	err := tx.QueryRowContext(ctx, `
		SELECT profile_id FROM usernames WHERE username = $1 FOR UPDATE
	`, username).Scan(&profileID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("username owner: %w", err)
	}
	return profileID, true, nil
}

func (r *UsernameRepo) CurrentTx(ctx context.Context, tx *sql.Tx, profileID string) (string, bool, error) {
	var username string
	err := tx.QueryRowContext(ctx, `
		SELECT username FROM usernames WHERE profile_id = $1 FOR UPDATE
	`, profileID).Scan(&username)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("current username: %w", err)
	}
	return username, true, nil
}

// AssignTx moves profileID onto username. The profile_id unique key makes
// this a rename when the profile already holds a name.
func (r *UsernameRepo) AssignTx(ctx context.Context, tx *sql.Tx, profileID, username string, at time.Time) error {
	return execTx(ctx, tx, "assign username", `
		INSERT INTO usernames (username, profile_id, registered_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (profile_id) DO UPDATE SET
			username   = EXCLUDED.username,
			updated_at = EXCLUDED.updated_at
	`, username, profileID, at)
}

func (r *UsernameRepo) AppendHistoryTx(ctx context.Context, tx *sql.Tx, change model.UsernameChange) (bool, error) {
	return execChanged(ctx, tx, "append username history", `
		INSERT INTO username_history (event_id, profile_id, old_username, new_username, changed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id) DO NOTHING
	`, change.EventID, change.ProfileID, change.OldUsername, change.NewUsername, change.ChangedAt)
}
