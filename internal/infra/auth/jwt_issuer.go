package auth

import (
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/AnthonyArce/Tienda/config"
	"github.com/AnthonyArce/Tienda/internal/domain/entity"
	domainerrors "github.com/AnthonyArce/Tienda/internal/domain/errors"
	"github.com/AnthonyArce/Tienda/internal/domain/service"
)

// refreshTokenBytes is the entropy of a minted refresh token before encoding.
const refreshTokenBytes = 32

// jwtIssuer is a concrete implementation of the TokenIssuer interface using
// HMAC-signed JWTs for access tokens and opaque random values for refresh
// tokens. Clock and randomness are injected so expiry and minting stay
// deterministic under test.
type jwtIssuer struct {
	key        []byte        // Secret key for signing access tokens.
	issuer     string        // iss claim.
	audience   string        // aud claim.
	accessTTL  time.Duration // Time-to-live for access tokens.
	refreshTTL time.Duration // Time-to-live for refresh tokens.
	clock      service.Clock
	random     service.RandomSource
}

// NewJWTIssuer is the constructor for jwtIssuer. A missing signing key is a
// fatal configuration error, surfaced here rather than on first use.
func NewJWTIssuer(cfg *config.Config, clock service.Clock, random service.RandomSource) (service.TokenIssuer, error) {
	if cfg.JWT == nil || cfg.JWT.Key == "" {
		return nil, errors.New("jwt signing key must be provided")
	}

	return &jwtIssuer{
		key:        []byte(cfg.JWT.Key),
		issuer:     cfg.JWT.Issuer,
		audience:   cfg.JWT.Audience,
		accessTTL:  time.Duration(cfg.JWT.DurationInMinutes) * time.Minute,
		refreshTTL: time.Duration(cfg.JWT.RefreshDays) * 24 * time.Hour,
		clock:      clock,
		random:     random,
	}, nil
}

// CreateAccessToken builds a signed HS256 JWT carrying the user's identity
// and one role entry per assigned role.
func (s *jwtIssuer) CreateAccessToken(user *entity.User) (string, error) {
	now := s.clock.Now()

	claims := &service.AccessClaims{
		Email: user.Email,
		UID:   user.ID.String(),
		Roles: user.RoleNames(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign access token")
	}

	return signed, nil
}

// CreateRefreshToken mints an opaque token from the CSPRNG. The caller is
// responsible for persisting it.
func (s *jwtIssuer) CreateRefreshToken() (*entity.RefreshToken, error) {
	raw, err := s.random.SecureBytes(refreshTokenBytes)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read random bytes for refresh token")
	}

	now := s.clock.Now()

	return &entity.RefreshToken{
		ID:        uuid.New(),
		Token:     base64.StdEncoding.EncodeToString(raw),
		ExpiresAt: now.Add(s.refreshTTL),
		CreatedAt: now,
	}, nil
}

// ParseAccessToken validates signature, issuer, audience and expiry of a
// token string and returns its claims.
func (s *jwtIssuer) ParseAccessToken(tokenString string) (*service.AccessClaims, error) {
	claims := &service.AccessClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.key, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		return nil, domainerrors.ErrInvalidCredentials.WrapMessage(err.Error())
	}
	if !token.Valid {
		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("access token is not valid")
	}

	return claims, nil
}

// RefreshTokenDuration returns the configured refresh token lifetime.
func (s *jwtIssuer) RefreshTokenDuration() time.Duration {
	return s.refreshTTL
}
