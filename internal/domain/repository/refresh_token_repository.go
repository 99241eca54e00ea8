// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"time"

	"github.com/AnthonyArce/Tienda/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for refresh token persistence.
var (
	// ErrRefreshTokenNotFound is returned when a refresh token is not found.
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	// ErrRefreshTokenAlreadyRevoked is returned when a conditional revocation
	// observes the token as no longer active.
	ErrRefreshTokenAlreadyRevoked = errors.New("refresh token already revoked")
)

// RefreshTokenRepository manages refresh token records. Tokens are revoked,
// never deleted, so the table keeps a rotation history per user.
type RefreshTokenRepository interface {
	// Create persists a freshly minted refresh token.
	Create(ctx context.Context, token *entity.RefreshToken) error

	// Revoke marks the token as revoked at the given instant. The write is
	// conditional on the token still being unrevoked; when a concurrent
	// rotation won the race it returns ErrRefreshTokenAlreadyRevoked.
	Revoke(ctx context.Context, id uuid.UUID, revokedAt time.Time) error
}
