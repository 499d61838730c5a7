package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const sqliteDateFormat = "2006-01-02 15:04:05"

// SessionRepository tracks issued login sessions so that logout can revoke
// a token before it expires.
type SessionRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db, now: time.Now}
}

// Create records session id for the user until expiresAt.
func (r *SessionRepository) Create(ctx context.Context, id string, userID int64, expiresAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)`,
		id, userID, expiresAt.UTC().Format(sqliteDateFormat))
	if err != nil && isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

// IsActive reports whether the session exists, is not revoked and has not expired.
func (r *SessionRepository) IsActive(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var revoked int
	var expires string
	err := r.db.QueryRowContext(ctx, `SELECT revoked, expires_at FROM sessions WHERE id = ?`, id).Scan(&revoked, &expires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	if revoked != 0 {
		return false, nil
	}
	exp, err := time.ParseInLocation(sqliteDateFormat, expires, time.UTC)
	if err != nil {
		return false, err
	}
	return r.now().UTC().Before(exp), nil
}

// Revoke marks the session as logged out. Revoking twice is not an error.
func (r *SessionRepository) Revoke(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `UPDATE sessions SET revoked = 1 WHERE id = ?`, id)
	return err
}

// DeleteExpired removes sessions past their expiry and returns how many went.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, r.now().UTC().Format(sqliteDateFormat))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
