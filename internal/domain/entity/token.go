// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is a long-lived opaque bearer credential owned by a User.
// It authorizes exactly one renewal: rotation revokes it and issues a fresh
// entity, so the stored history doubles as an audit trail.
type RefreshToken struct {
	ID        uuid.UUID  // The unique ID for this specific refresh token record.
	UserID    uuid.UUID  // Links the session to the User it belongs to.
	Token     string     // Opaque value: 32 CSPRNG bytes, base64-encoded.
	ExpiresAt time.Time  // Fixed window from creation (configured, default 10 days).
	CreatedAt time.Time  // When the session was created.
	RevokedAt *time.Time // Set on rotation; a revoked token is never reactivated.
}

// IsActive reports whether the token is usable at the given instant.
// Active ⇔ not revoked and not yet expired. Expiry wins regardless of the
// revocation state.
func (t *RefreshToken) IsActive(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}

// IsExpired reports whether the token's lifetime has elapsed.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// Revoke marks the token as terminally revoked at the given instant.
func (t *RefreshToken) Revoke(now time.Time) {
	t.RevokedAt = &now
}
