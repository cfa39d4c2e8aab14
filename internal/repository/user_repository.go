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

const userColumns = `id, username, email, password_hash, is_verified,
		       deleted_at, deleted_expires_at, created_at, updated_at`

// UserRepositoryImpl implements the UserRepository interface
type UserRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create creates a new user. A duplicate username or email surfaces as
// a Conflict error even when the pre-checks raced.
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, is_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := querier(ctx, r.db).Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.IsVerified,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if isUniqueViolation(err) {
		return domain.NewConflict("Username or email already exists")
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *UserRepositoryImpl) scanUser(row pgx.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.IsVerified,
		&user.DeletedAt,
		&user.DeletedExpiresAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a non-deleted user by ID
func (r *UserRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL`
	return r.scanUser(querier(ctx, r.db).QueryRow(ctx, query, id))
}

// GetByUsername retrieves a non-deleted user by username
func (r *UserRepositoryImpl) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 AND deleted_at IS NULL`
	return r.scanUser(querier(ctx, r.db).QueryRow(ctx, query, username))
}

// GetByEmail retrieves a non-deleted user by email
func (r *UserRepositoryImpl) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND deleted_at IS NULL`
	return r.scanUser(querier(ctx, r.db).QueryRow(ctx, query, email))
}

// GetByIdentifier matches username or email. includeDeleted bypasses
// the soft-delete predicate so login can route a pending-deletion user
// into the recovery flow.
func (r *UserRepositoryImpl) GetByIdentifier(ctx context.Context, identifier string, includeDeleted bool) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE (username = $1 OR email = $1)`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}
	return r.scanUser(querier(ctx, r.db).QueryRow(ctx, query, identifier))
}

// UpdatePassword replaces the stored password hash
func (r *UserRepositoryImpl) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`

	_, err := querier(ctx, r.db).Exec(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// UpdateUsername replaces the username
func (r *UserRepositoryImpl) UpdateUsername(ctx context.Context, id uuid.UUID, username string) error {
	query := `UPDATE users SET username = $1, updated_at = NOW() WHERE id = $2`

	_, err := querier(ctx, r.db).Exec(ctx, query, username, id)
	if isUniqueViolation(err) {
		return domain.NewConflict("Username already exists")
	}
	if err != nil {
		return fmt.Errorf("failed to update username: %w", err)
	}
	return nil
}

// UpdateEmail replaces the email address
func (r *UserRepositoryImpl) UpdateEmail(ctx context.Context, id uuid.UUID, email string) error {
	query := `UPDATE users SET email = $1, updated_at = NOW() WHERE id = $2`

	_, err := querier(ctx, r.db).Exec(ctx, query, email, id)
	if isUniqueViolation(err) {
		return domain.NewConflict("Email already exists")
	}
	if err != nil {
		return fmt.Errorf("failed to update email: %w", err)
	}
	return nil
}

// SetVerified marks the user's email as verified
func (r *UserRepositoryImpl) SetVerified(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET is_verified = TRUE, updated_at = NOW() WHERE id = $1`

	_, err := querier(ctx, r.db).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to set user verified: %w", err)
	}
	return nil
}

// MarkDeleted opens the soft-delete grace window
func (r *UserRepositoryImpl) MarkDeleted(ctx context.Context, id uuid.UUID, deletedAt, expiresAt time.Time) error {
	query := `UPDATE users SET deleted_at = $1, deleted_expires_at = $2, updated_at = NOW() WHERE id = $3`

	_, err := querier(ctx, r.db).Exec(ctx, query, deletedAt, expiresAt, id)
	if err != nil {
		return fmt.Errorf("failed to mark user deleted: %w", err)
	}
	return nil
}

// ClearDeleted restores a soft-deleted user
func (r *UserRepositoryImpl) ClearDeleted(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET deleted_at = NULL, deleted_expires_at = NULL, updated_at = NOW() WHERE id = $1`

	_, err := querier(ctx, r.db).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to clear user deletion: %w", err)
	}
	return nil
}
