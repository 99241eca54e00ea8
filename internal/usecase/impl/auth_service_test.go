package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/AnthonyArce/Tienda/config"
	domainerrors "github.com/AnthonyArce/Tienda/internal/domain/errors"
	"github.com/AnthonyArce/Tienda/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	service usecase.AuthUsecase
	store   *fakeStore
	clock   *fakeClock
	issuer  *fakeTokenIssuer
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	store := newFakeStore()
	store.addRole("Administrador")

	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	issuer := &fakeTokenIssuer{clock: clock, refreshTTL: 10 * 24 * time.Hour}

	userRepo := &fakeUserRepo{store: store}
	refreshRepo := &fakeRefreshRepo{store: store}
	factory := &fakeFactory{userRepo: userRepo, refreshRepo: refreshRepo}

	service := NewAuthService(AuthServiceParams{
		TxManager:   &fakeTxManager{factory: factory},
		UserRepo:    userRepo,
		RefreshRepo: refreshRepo,
		Hasher:      fakeHasher{},
		TokenIssuer: issuer,
		Clock:       clock,
		Config:      &config.Config{Auth: &config.AuthConfig{DefaultRole: "Administrador"}},
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return &authFixture{service: service, store: store, clock: clock, issuer: issuer}
}

func (f *authFixture) register(t *testing.T, username, email, password string) {
	t.Helper()

	_, err := f.service.Register(context.Background(), &usecase.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
		Name:     "Alicia",
	})
	require.NoError(t, err)
}

func TestAuthService_Register_Success(t *testing.T) {
	f := newAuthFixture(t)

	output, err := f.service.Register(context.Background(), &usecase.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cret-pass",
		Name:     "Alicia",
	})

	require.NoError(t, err)
	assert.Equal(t, "El usuario alice ha sido registrado exitosamente", output.Message)

	require.Len(t, f.store.users, 1)
	for _, user := range f.store.users {
		assert.Equal(t, "alice", user.Username)
		// The stored credential must be the hash, never the plaintext.
		assert.Equal(t, "hashed:s3cret-pass", user.PasswordHash)
		require.Len(t, user.Roles, 1)
		assert.Equal(t, "Administrador", user.Roles[0].Name)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice", "alice@example.com", "s3cret-pass")

	// Same email in a different case must still collide.
	_, err := f.service.Register(context.Background(), &usecase.RegisterInput{
		Username: "alice2",
		Email:    "Alice@Example.COM",
		Password: "another-pass",
		Name:     "Alicia",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyRegistered)
	assert.Len(t, f.store.users, 1)
}

func TestAuthService_Register_MissingDefaultRole(t *testing.T) {
	f := newAuthFixture(t)
	clear(f.store.roles)

	// A missing default role row is a data setup defect; the user is still
	// created, just without roles.
	output, err := f.service.Register(context.Background(), &usecase.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cret-pass",
		Name:     "Alicia",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, output.Message)
	for _, user := range f.store.users {
		assert.Empty(t, user.Roles)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice", "alice@example.com", "s3cret-pass")

	output, err := f.service.Login(context.Background(), &usecase.LoginInput{
		Username: "alice",
		Password: "s3cret-pass",
	})

	require.NoError(t, err)
	assert.True(t, output.Authenticated)
	assert.Equal(t, "El usuario alice ha sido autenticado exitosamente", output.Message)
	assert.Equal(t, "access-token-for-alice", output.Token)
	assert.Equal(t, []string{"Administrador"}, output.Roles)
	assert.Equal(t, "refresh-token-1", output.RefreshToken)
	assert.Equal(t, f.clock.Now().Add(10*24*time.Hour), output.RefreshTokenExpiresAt)
}

func TestAuthService_Login_ReusesActiveRefreshToken(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice", "alice@example.com", "s3cret-pass")

	first, err := f.service.Login(context.Background(), &usecase.LoginInput{Username: "alice", Password: "s3cret-pass"})
	require.NoError(t, err)

	second, err := f.service.Login(context.Background(), &usecase.LoginInput{Username: "alice", Password: "s3cret-pass"})
	require.NoError(t, err)

	assert.Equal(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, 1, f.issuer.minted)
}

func TestAuthService_Login_MintsWhenActiveTokenExpired(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice", "alice@example.com", "s3cret-pass")

	first, err := f.service.Login(context.Background(), &usecase.LoginInput{Username: "alice", Password: "s3cret-pass"})
	require.NoError(t, err)

	f.clock.Advance(10*24*time.Hour + time.Minute)

	second, err := f.service.Login(context.Background(), &usecase.LoginInput{Username: "alice", Password: "s3cret-pass"})
	require.NoError(t, err)

	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, 2, f.issuer.minted)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.Login(context.Background(), &usecase.LoginInput{Username: "ghost", Password: "whatever"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice", "alice@example.com", "s3cret-pass")

	_, err := f.service.Login(context.Background(), &usecase.LoginInput{Username: "alice", Password: "wrong"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_RefreshSession_RotatesToken(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice", "alice@example.com", "s3cret-pass")

	login, err := f.service.Login(context.Background(), &usecase.LoginInput{Username: "alice", Password: "s3cret-pass"})
	require.NoError(t, err)

	refreshed, err := f.service.RefreshSession(context.Background(), login.RefreshToken)
	require.NoError(t, err)

	assert.True(t, refreshed.Authenticated)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.Equal(t, "access-token-for-alice", refreshed.Token)

	// The old token is revoked, the replacement active.
	var active, revoked int
	for _, token := range f.store.tokens {
		if token.RevokedAt == nil {
			active++
		} else {
			revoked++
			assert.Equal(t, login.RefreshToken, token.Token)
		}
	}
	assert.Equal(t, 1, active)
	assert.Equal(t, 1, revoked)
}

func TestAuthService_RefreshSession_TokenIsSingleUse(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice", "alice@example.com", "s3cret-pass")

	login, err := f.service.Login(context.Background(), &usecase.LoginInput{Username: "alice", Password: "s3cret-pass"})
	require.NoError(t, err)

	refreshed, err := f.service.RefreshSession(context.Background(), login.RefreshToken)
	require.NoError(t, err)

	// Replaying the consumed token must fail while the replacement still works.
	_, err = f.service.RefreshSession(context.Background(), login.RefreshToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidOrExpiredToken)

	_, err = f.service.RefreshSession(context.Background(), refreshed.RefreshToken)
	require.NoError(t, err)
}

func TestAuthService_RefreshSession_ExpiredToken(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice", "alice@example.com", "s3cret-pass")

	login, err := f.service.Login(context.Background(), &usecase.LoginInput{Username: "alice", Password: "s3cret-pass"})
	require.NoError(t, err)

	f.clock.Advance(10*24*time.Hour + time.Minute)

	_, err = f.service.RefreshSession(context.Background(), login.RefreshToken)

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidOrExpiredToken)
}

func TestAuthService_RefreshSession_UnknownToken(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.RefreshSession(context.Background(), "never-issued")

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidOrExpiredToken)
}

func TestAuthService_GrantRole_Success(t *testing.T) {
	f := newAuthFixture(t)
	f.store.addRole("Empleado")
	f.register(t, "alice", "alice@example.com", "s3cret-pass")

	output, err := f.service.GrantRole(context.Background(), &usecase.GrantRoleInput{
		Username: "alice",
		Password: "s3cret-pass",
		Role:     "empleado",
	})

	require.NoError(t, err)
	// The message carries the canonical role name, not the submitted casing.
	assert.Equal(t, "Rol Empleado agregado a la cuenta alice de forma exitosa", output.Message)
}

func TestAuthService_GrantRole_Idempotent(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice", "alice@example.com", "s3cret-pass")

	first, err := f.service.GrantRole(context.Background(), &usecase.GrantRoleInput{
		Username: "alice",
		Password: "s3cret-pass",
		Role:     "Administrador",
	})
	require.NoError(t, err)

	second, err := f.service.GrantRole(context.Background(), &usecase.GrantRoleInput{
		Username: "alice",
		Password: "s3cret-pass",
		Role:     "Administrador",
	})
	require.NoError(t, err)

	assert.Equal(t, first.Message, second.Message)

	for _, user := range f.store.users {
		assert.Len(t, user.Roles, 1)
	}
}

func TestAuthService_GrantRole_WrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice", "alice@example.com", "s3cret-pass")

	_, err := f.service.GrantRole(context.Background(), &usecase.GrantRoleInput{
		Username: "alice",
		Password: "wrong",
		Role:     "Administrador",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_GrantRole_UnknownRole(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice", "alice@example.com", "s3cret-pass")

	_, err := f.service.GrantRole(context.Background(), &usecase.GrantRoleInput{
		Username: "alice",
		Password: "s3cret-pass",
		Role:     "SuperUsuario",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrRoleNotFound)
}

func TestAuthService_GrantRole_UnknownUser(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.GrantRole(context.Background(), &usecase.GrantRoleInput{
		Username: "ghost",
		Password: "whatever",
		Role:     "Administrador",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}
