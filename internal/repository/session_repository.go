package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/fleetease-rental/internal/model"
)

// SessionRepo persists session token digests (single 'token_hash' key).
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Create inserts a session row.
func (r *SessionRepo) Create(ctx context.Context, s model.Session) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO user_sessions (token_hash, user_id, expires_at, created_at) VALUES (?,?,?,?)",
		s.TokenHash, s.UserID, s.ExpiresAt.UTC(), s.CreatedAt.UTC())
	return err
}

// Get returns the session for a digest. Expiry is left to the caller so
// that lookups never delete rows.
func (r *SessionRepo) Get(ctx context.Context, tokenHash string) (*model.Session, error) {
	s := model.Session{TokenHash: tokenHash}
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, expires_at, created_at FROM user_sessions WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&s.UserID, &s.ExpiresAt, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.ExpiresAt = s.ExpiresAt.UTC()
	s.CreatedAt = s.CreatedAt.UTC()
	return &s, nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (r *SessionRepo) Delete(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM user_sessions WHERE token_hash=?", tokenHash)
	return err
}

// DeleteExpired removes sessions that expired before the given instant.
func (r *SessionRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM user_sessions WHERE expires_at <= ?", before.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
