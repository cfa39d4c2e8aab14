package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered identity
type User struct {
	ID               uuid.UUID  `json:"id"`
	Username         string     `json:"username"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"` // Never expose password hash in JSON
	IsVerified       bool       `json:"is_verified"`
	DeletedAt        *time.Time `json:"deleted_at,omitempty"`
	DeletedExpiresAt *time.Time `json:"deleted_expires_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// DeletionGracePeriod is how long a soft-deleted user can still recover
// the account before the external reaper removes it for good.
const DeletionGracePeriod = 30 * 24 * time.Hour

// PendingDeletion reports whether the user is soft-deleted but still
// inside the recovery window. Login must offer recovery instead of a
// normal session while this holds.
func (u *User) PendingDeletion(now time.Time) bool {
	return u.DeletedAt != nil && u.DeletedExpiresAt != nil && !u.DeletedExpiresAt.Before(now)
}

// DeletionExpired reports whether the recovery window has lapsed.
func (u *User) DeletionExpired(now time.Time) bool {
	return u.DeletedAt != nil && u.DeletedExpiresAt != nil && u.DeletedExpiresAt.Before(now)
}
