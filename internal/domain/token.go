package domain

import (
	"time"

	"github.com/google/uuid"
)

// TokenPurpose discriminates the single-use token families.
type TokenPurpose string

const (
	TokenEmailVerify     TokenPurpose = "email_verify"
	TokenPasswordReset   TokenPurpose = "password_reset"
	TokenAccountRecovery TokenPurpose = "account_recovery"
	TokenEmailChangeOTP  TokenPurpose = "email_change_otp"
)

// Token lifetimes per purpose.
const (
	EmailVerifyTTL     = 30 * time.Minute
	PasswordResetTTL   = 5 * time.Minute
	AccountRecoveryTTL = 5 * time.Minute
	EmailChangeOTPTTL  = 6 * time.Minute
)

// AuthToken is a time-boxed single-use token. Redemption must be atomic
// with its side effect: marking used and applying the change happen in
// the same transaction, with a conditional update guarding replays.
type AuthToken struct {
	ID        int64        `json:"id"`
	UserID    uuid.UUID    `json:"user_id"`
	Purpose   TokenPurpose `json:"purpose"`
	Token     string       `json:"-"`
	NewEmail  *string      `json:"-"` // only for email-change OTPs
	ExpiresAt time.Time    `json:"expires_at"`
	Used      bool         `json:"used"`
	CreatedAt time.Time    `json:"created_at"`
}
