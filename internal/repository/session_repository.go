package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tradejournal/internal/domain"
)

const sessionColumns = `id, user_id, token_hash, device_info, browser, os,
		       user_agent, ip_address, expires_at, revoked_at, created_at`

// SessionRepositoryImpl implements the SessionRepository interface
type SessionRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *pgxpool.Pool) domain.SessionRepository {
	return &SessionRepositoryImpl{db: db}
}

// Create persists a new session and fills in its generated ID
func (r *SessionRepositoryImpl) Create(ctx context.Context, session *domain.Session) error {
	query := `
		INSERT INTO auth_sessions (
			user_id, token_hash, device_info, browser, os,
			user_agent, ip_address, expires_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := querier(ctx, r.db).QueryRow(ctx, query,
		session.UserID,
		session.TokenHash,
		session.DeviceInfo,
		session.Browser,
		session.OS,
		session.UserAgent,
		session.IPAddress,
		session.ExpiresAt,
		session.CreatedAt,
	).Scan(&session.ID)

	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepositoryImpl) scanSession(row pgx.Row) (*domain.Session, error) {
	session := &domain.Session{}
	err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.TokenHash,
		&session.DeviceInfo,
		&session.Browser,
		&session.OS,
		&session.UserAgent,
		&session.IPAddress,
		&session.ExpiresAt,
		&session.RevokedAt,
		&session.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}
	return session, nil
}

// GetByID retrieves a session regardless of state
func (r *SessionRepositoryImpl) GetByID(ctx context.Context, id int64) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM auth_sessions WHERE id = $1`
	return r.scanSession(querier(ctx, r.db).QueryRow(ctx, query, id))
}

// GetForUser retrieves the user's session while it is unexpired
func (r *SessionRepositoryImpl) GetForUser(ctx context.Context, id int64, userID uuid.UUID) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM auth_sessions WHERE id = $1 AND user_id = $2 AND expires_at > NOW()`
	return r.scanSession(querier(ctx, r.db).QueryRow(ctx, query, id, userID))
}

// Revoke marks one session revoked
func (r *SessionRepositoryImpl) Revoke(ctx context.Context, id int64) error {
	query := `UPDATE auth_sessions SET revoked_at = NOW() WHERE id = $1 AND revoked_at IS NULL`

	_, err := querier(ctx, r.db).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// RevokeAllForUser revokes every active session of the user
func (r *SessionRepositoryImpl) RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `UPDATE auth_sessions SET revoked_at = NOW() WHERE user_id = $1 AND revoked_at IS NULL`

	tag, err := querier(ctx, r.db).Exec(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke user sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// RevokeOthersForUser revokes every active session of the user except
// keepID (password change keeps the calling session alive)
func (r *SessionRepositoryImpl) RevokeOthersForUser(ctx context.Context, userID uuid.UUID, keepID int64) (int64, error) {
	query := `UPDATE auth_sessions SET revoked_at = NOW() WHERE user_id = $1 AND id <> $2 AND revoked_at IS NULL`

	tag, err := querier(ctx, r.db).Exec(ctx, query, userID, keepID)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke other sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteDefunct removes sessions that expired or were revoked before
// the cutoff. Housekeeping only.
func (r *SessionRepositoryImpl) DeleteDefunct(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM auth_sessions WHERE expires_at < $1 OR revoked_at < $1`

	tag, err := querier(ctx, r.db).Exec(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete defunct sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
