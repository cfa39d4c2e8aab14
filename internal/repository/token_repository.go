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

const tokenColumns = `id, user_id, purpose, token, new_email, expires_at, used, created_at`

// TokenRepositoryImpl implements the TokenRepository interface
type TokenRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *pgxpool.Pool) domain.TokenRepository {
	return &TokenRepositoryImpl{db: db}
}

// Create persists a new single-use token
func (r *TokenRepositoryImpl) Create(ctx context.Context, token *domain.AuthToken) error {
	query := `
		INSERT INTO auth_tokens (user_id, purpose, token, new_email, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := querier(ctx, r.db).QueryRow(ctx, query,
		token.UserID,
		token.Purpose,
		token.Token,
		token.NewEmail,
		token.ExpiresAt,
		token.CreatedAt,
	).Scan(&token.ID)

	if err != nil {
		return fmt.Errorf("failed to create auth token: %w", err)
	}
	return nil
}

func (r *TokenRepositoryImpl) scanToken(row pgx.Row) (*domain.AuthToken, error) {
	token := &domain.AuthToken{}
	err := row.Scan(
		&token.ID,
		&token.UserID,
		&token.Purpose,
		&token.Token,
		&token.NewEmail,
		&token.ExpiresAt,
		&token.Used,
		&token.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan auth token: %w", err)
	}
	return token, nil
}

// GetValid retrieves an unused, unexpired token by its opaque value
func (r *TokenRepositoryImpl) GetValid(ctx context.Context, token string, purpose domain.TokenPurpose) (*domain.AuthToken, error) {
	query := `
		SELECT ` + tokenColumns + `
		FROM auth_tokens
		WHERE token = $1 AND purpose = $2 AND used = FALSE AND expires_at > NOW()
	`
	return r.scanToken(querier(ctx, r.db).QueryRow(ctx, query, token, purpose))
}

// GetValidOTP retrieves an unused, unexpired user-scoped OTP
func (r *TokenRepositoryImpl) GetValidOTP(ctx context.Context, userID uuid.UUID, otp string, purpose domain.TokenPurpose) (*domain.AuthToken, error) {
	query := `
		SELECT ` + tokenColumns + `
		FROM auth_tokens
		WHERE user_id = $1 AND token = $2 AND purpose = $3 AND used = FALSE AND expires_at > NOW()
	`
	return r.scanToken(querier(ctx, r.db).QueryRow(ctx, query, userID, otp, purpose))
}

// Redeem marks the token used only if it is currently unused. Two
// concurrent redemptions race on the conditional update; the loser sees
// zero rows affected and gets false.
func (r *TokenRepositoryImpl) Redeem(ctx context.Context, id int64) (bool, error) {
	query := `UPDATE auth_tokens SET used = TRUE WHERE id = $1 AND used = FALSE`

	tag, err := querier(ctx, r.db).Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to redeem auth token: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteExpired removes tokens whose expiry passed before the cutoff
func (r *TokenRepositoryImpl) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM auth_tokens WHERE expires_at < $1`

	tag, err := querier(ctx, r.db).Exec(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
