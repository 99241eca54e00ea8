package service

import (
	"time"

	"github.com/AnthonyArce/Tienda/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims are the custom claims carried by signed access tokens.
// Subject holds the username; UID the numeric-free user identifier.
type AccessClaims struct {
	Email string   `json:"email"`
	UID   string   `json:"uid"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer builds signed access tokens and mints opaque refresh tokens.
// Access tokens are stateless; refresh tokens are persisted by the caller.
type TokenIssuer interface {
	// CreateAccessToken builds a signed JWT for the user with claims
	// sub (username), jti (fresh UUID), email, uid and one role entry per
	// assigned role. Expiry is the configured access token lifetime.
	CreateAccessToken(user *entity.User) (string, error)

	// CreateRefreshToken mints a fresh opaque token from a CSPRNG with the
	// configured lifetime. The returned entity is not yet persisted.
	CreateRefreshToken() (*entity.RefreshToken, error)

	// ParseAccessToken validates signature and expiry of a token string and
	// returns its claims.
	ParseAccessToken(tokenString string) (*AccessClaims, error)

	// RefreshTokenDuration returns the configured refresh token lifetime.
	RefreshTokenDuration() time.Duration
}
