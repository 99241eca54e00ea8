// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the account aggregate. It owns the credential hash, the set of
// assigned roles and the history of refresh tokens issued to the account.
type User struct {
	ID              uuid.UUID // The unique identifier for the user account.
	Username        string    // Unique login identifier.
	Email           string    // Unique contact email, compared case-insensitively.
	Name            string    // Given name.
	PaternalSurname string
	MaternalSurname string
	PasswordHash    string          // bcrypt hash of the account password.
	Roles           []*Role         // Roles assigned to the account (many-to-many).
	RefreshTokens   []*RefreshToken // Issued sessions, revoked ones kept for audit.
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasRole reports whether the user already holds a role with the given ID.
func (u *User) HasRole(roleID uuid.UUID) bool {
	for _, r := range u.Roles {
		if r.ID == roleID {
			return true
		}
	}

	return false
}

// RoleNames returns the names of the user's roles for token claims.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}

	return names
}

// ActiveRefreshToken returns the user's currently active refresh token, or nil.
// At most one token is active in the intended steady state.
func (u *User) ActiveRefreshToken(now time.Time) *RefreshToken {
	for _, t := range u.RefreshTokens {
		if t.IsActive(now) {
			return t
		}
	}

	return nil
}

// FindRefreshToken locates the token entity matching the presented value.
func (u *User) FindRefreshToken(token string) *RefreshToken {
	for _, t := range u.RefreshTokens {
		if t.Token == token {
			return t
		}
	}

	return nil
}

// Role is immutable reference data assigned to users.
type Role struct {
	ID        uuid.UUID
	Name      string // e.g. "Administrador", the configured default role.
	CreatedAt time.Time
}

// EqualsName compares role names case-insensitively, matching how roles are
// looked up when granted.
func (r *Role) EqualsName(name string) bool {
	return strings.EqualFold(r.Name, name)
}
