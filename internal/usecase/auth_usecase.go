// Package usecase defines the application's business interfaces and the
// input/output models exchanged with the delivery layer.
package usecase

import (
	"context"
	"time"
)

// RegisterInput carries the profile fields submitted on registration.
type RegisterInput struct {
	Username        string `json:"username" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	Name            string `json:"name" validate:"required"`
	PaternalSurname string `json:"paternalSurname"`
	MaternalSurname string `json:"maternalSurname"`
}

// RegisterOutput is the outcome of a successful registration.
type RegisterOutput struct {
	Message string `json:"message"`
}

// LoginInput carries the credentials presented for authentication.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SessionOutput is the result of a successful login or session refresh.
// The refresh token value travels only in an HttpOnly cookie, never in the
// response body, so it is excluded from serialization.
type SessionOutput struct {
	Authenticated         bool      `json:"authenticated"`
	Message               string    `json:"message"`
	Token                 string    `json:"token"`
	Username              string    `json:"username"`
	Email                 string    `json:"email"`
	Roles                 []string  `json:"roles"`
	RefreshToken          string    `json:"-"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiration"`
}

// GrantRoleInput carries a role grant request. The password re-authenticates
// the user before the privilege change.
type GrantRoleInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

// GrantRoleOutput is the outcome of a role grant.
type GrantRoleOutput struct {
	Message string `json:"message"`
}

// AuthUsecase orchestrates registration, login, refresh-token rotation and
// role grants. Domain failures surface as typed AppError values; no
// persistence fault escapes unwrapped.
type AuthUsecase interface {
	// Register creates a new user with the configured default role. A user
	// with the same email (compared case-insensitively) must not exist.
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)

	// Login verifies the credentials and returns an access token plus the
	// user's active refresh token, minting one when none is active.
	Login(ctx context.Context, input *LoginInput) (*SessionOutput, error)

	// RefreshSession rotates the presented refresh token: the old token is
	// revoked and a replacement is issued atomically. Each token authorizes
	// exactly one renewal.
	RefreshSession(ctx context.Context, refreshToken string) (*SessionOutput, error)

	// GrantRole appends a role to the user's role set after re-authentication.
	// Granting an already-held role succeeds without a write.
	GrantRole(ctx context.Context, input *GrantRoleInput) (*GrantRoleOutput, error)
}
