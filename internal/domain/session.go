package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Session is one login's refresh credential plus device metadata. The
// refresh secret is stored only as a hash; the raw value lives in the
// client's session cookie.
type Session struct {
	ID         int64      `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	TokenHash  string     `json:"-"`
	DeviceInfo string     `json:"device_info"`
	Browser    string     `json:"browser"`
	OS         string     `json:"os"`
	UserAgent  string     `json:"user_agent"`
	IPAddress  string     `json:"ip_address"`
	ExpiresAt  time.Time  `json:"expires_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Usable reports whether the session may still mint access tokens.
func (s *Session) Usable(now time.Time) bool {
	return s.RevokedAt == nil && s.ExpiresAt.After(now)
}

// SessionDescriptor is the opaque client-held value encoding session id
// plus raw refresh secret, serialized as JSON into the session cookie.
type SessionDescriptor struct {
	SID int64  `json:"sid"`
	RT  string `json:"rt"`
}

// ParseSessionDescriptor decodes a session cookie value. Any malformed
// or missing descriptor is an Unauthorized error.
func ParseSessionDescriptor(raw string) (SessionDescriptor, error) {
	if raw == "" {
		return SessionDescriptor{}, NewUnauthorized("Unauthorized, no session provided")
	}

	var desc SessionDescriptor
	if err := json.Unmarshal([]byte(raw), &desc); err != nil {
		return SessionDescriptor{}, NewUnauthorized("Unauthorized, invalid session")
	}
	if desc.SID == 0 || desc.RT == "" {
		return SessionDescriptor{}, NewUnauthorized("Unauthorized, invalid session")
	}

	return desc, nil
}

// Encode serializes the descriptor for the session cookie.
func (d SessionDescriptor) Encode() string {
	b, _ := json.Marshal(d)
	return string(b)
}
