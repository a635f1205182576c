package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/admin-panel-api/internal/model"
)

// TokenRepo is the session ledger: one row per issued refresh token.
// Rows are inserted on login/refresh and only ever mutated by flipping
// is_used to 1.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Insert records a freshly issued refresh token as live (is_used=0).
func (r *TokenRepo) Insert(ctx context.Context, userID uint64, token string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO sys_user_tokens (user_id, token, expires_at, is_used) VALUES (?,?,?,0)",
		userID, token, exp)
	return err
}

// FindByToken loads the ledger row for an exact token string.
// Returns ErrNotFound when no row matches.
func (r *TokenRepo) FindByToken(ctx context.Context, token string) (model.UserToken, error) {
	var t model.UserToken
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,token,expires_at,is_used,created_at FROM sys_user_tokens WHERE token=? LIMIT 1",
		token).Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.IsUsed, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return model.UserToken{}, ErrNotFound
	}
	return t, err
}

// MarkUsed flips is_used on a live row.  The WHERE clause doubles as a
// compare-and-set: when two refresh calls race on the same row, the UPDATE
// serializes them and exactly one observes an affected row.  The loser must
// treat the miss as a reuse event.
func (r *TokenRepo) MarkUsed(ctx context.Context, id uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE sys_user_tokens SET is_used=1 WHERE id=? AND is_used=0", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// RevokeAllForUser marks every live token of a user as used.  Called when
// token reuse is detected so the whole session family dies at once.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sys_user_tokens SET is_used=1 WHERE user_id=? AND is_used=0", userID)
	return err
}

// DeleteExpired removes rows whose expiry is older than cutoff.  Nothing in
// the server schedules this; it exists for an external cleanup job.
func (r *TokenRepo) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM sys_user_tokens WHERE expires_at < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
