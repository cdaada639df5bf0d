package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// execChanged runs an insert-or-ignore or delete-if-exists statement and
// reports whether a row was actually written. Counter maintenance keys off
// this result, so a replayed statement that touches nothing reports false.
func execChanged(ctx context.Context, tx *sql.Tx, op, query string, args ...any) (bool, error) {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s rows affected: %w", op, err)
	}
	return n > 0, nil
}

func execTx(ctx context.Context, tx *sql.Tx, op, query string, args ...any) error {
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
