package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TxManager runs fn inside one storage transaction. The transaction is
// carried in the returned context; repository calls made with that
// context join it. fn returning an error rolls everything back and the
// original error is surfaced.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines user storage operations. Finders exclude
// soft-deleted rows unless the includeDeleted escape hatch is passed.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByIdentifier matches username OR email. Login passes
	// includeDeleted=true so pending-deletion users can still reach
	// the recovery flow.
	GetByIdentifier(ctx context.Context, identifier string, includeDeleted bool) (*User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateUsername(ctx context.Context, id uuid.UUID, username string) error
	UpdateEmail(ctx context.Context, id uuid.UUID, email string) error
	SetVerified(ctx context.Context, id uuid.UUID) error
	MarkDeleted(ctx context.Context, id uuid.UUID, deletedAt, expiresAt time.Time) error
	ClearDeleted(ctx context.Context, id uuid.UUID) error
}

// SessionRepository defines auth-session storage operations
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	// GetByID returns the session regardless of state; callers check
	// expiry/revocation explicitly.
	GetByID(ctx context.Context, id int64) (*Session, error)
	// GetForUser returns the user's session only while unexpired.
	GetForUser(ctx context.Context, id int64, userID uuid.UUID) (*Session, error)
	Revoke(ctx context.Context, id int64) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error)
	RevokeOthersForUser(ctx context.Context, userID uuid.UUID, keepID int64) (int64, error)
	DeleteDefunct(ctx context.Context, before time.Time) (int64, error)
}

// TokenRepository defines single-use token storage operations
type TokenRepository interface {
	Create(ctx context.Context, token *AuthToken) error
	// GetValid returns the token only while unused and unexpired.
	GetValid(ctx context.Context, token string, purpose TokenPurpose) (*AuthToken, error)
	// GetValidOTP looks up a user-scoped OTP (email change).
	GetValidOTP(ctx context.Context, userID uuid.UUID, otp string, purpose TokenPurpose) (*AuthToken, error)
	// Redeem marks the token used only if currently unused and reports
	// whether this call won the redemption.
	Redeem(ctx context.Context, id int64) (bool, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// AccountRepository defines capital-pool storage operations. Finders
// exclude archived accounts unless includeArchived is passed.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id, userID uuid.UUID, includeArchived bool) (*Account, error)
	Update(ctx context.Context, account *Account) error
	SetArchived(ctx context.Context, id, userID uuid.UUID, archived bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	// ListDetailed joins trades to compute per-account aggregates.
	ListDetailed(ctx context.Context, userID uuid.UUID, limit, offset int) ([]AccountDetail, error)
}

// PlaybookRepository defines strategy-tag storage operations
type PlaybookRepository interface {
	Create(ctx context.Context, playbook *Playbook) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*Playbook, error)
	Update(ctx context.Context, playbook *Playbook) error
	Delete(ctx context.Context, id uuid.UUID) error
	// CountOwned reports how many of ids belong to userID; a shortfall
	// means at least one foreign or missing playbook.
	CountOwned(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Playbook, error)
	List(ctx context.Context, userID uuid.UUID, search string, limit, offset int) ([]Playbook, error)
	Count(ctx context.Context, userID uuid.UUID, search string) (int64, error)
	// ClosedTradeOutcomes returns closed-trade results grouped by playbook.
	ClosedTradeOutcomes(ctx context.Context, playbookIDs []uuid.UUID) (map[uuid.UUID][]TradeOutcome, error)
}

// TradeRepository defines trade storage operations. Ownership is always
// enforced transitively through the trade's account.
type TradeRepository interface {
	Create(ctx context.Context, trade *Trade) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*Trade, error)
	Update(ctx context.Context, trade *Trade) error
	Delete(ctx context.Context, id uuid.UUID) error
	ReplacePlaybooks(ctx context.Context, tradeID uuid.UUID, playbookIDs []uuid.UUID) error
	List(ctx context.Context, accountID uuid.UUID, filter TradeFilter) ([]Trade, int64, error)
}
