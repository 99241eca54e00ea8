// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AnthonyArce/Tienda/config"
	deliverycontext "github.com/AnthonyArce/Tienda/internal/delivery/context"
	"github.com/AnthonyArce/Tienda/internal/domain/entity"
	domainerrors "github.com/AnthonyArce/Tienda/internal/domain/errors"
	"github.com/AnthonyArce/Tienda/internal/domain/repository"
	"github.com/AnthonyArce/Tienda/internal/domain/service"
	"github.com/AnthonyArce/Tienda/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager   repository.TransactionManager
	userRepo    repository.UserRepository
	refreshRepo repository.RefreshTokenRepository
	hasher      service.PasswordHasher
	tokenIssuer service.TokenIssuer
	clock       service.Clock
	defaultRole string
	logger      *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	UserRepo    repository.UserRepository
	RefreshRepo repository.RefreshTokenRepository
	Hasher      service.PasswordHasher
	TokenIssuer service.TokenIssuer
	Clock       service.Clock
	Config      *config.Config
	Logger      *slog.Logger
}

// NewAuthService is the constructor for authService. The default role name is
// resolved from configuration once, here, and passed in explicitly.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	defaultRole := ""
	if params.Config != nil && params.Config.Auth != nil {
		defaultRole = params.Config.Auth.DefaultRole
	}

	return &authService{
		txManager:   params.TxManager,
		userRepo:    params.UserRepo,
		refreshRepo: params.RefreshRepo,
		hasher:      params.Hasher,
		tokenIssuer: params.TokenIssuer,
		clock:       params.Clock,
		defaultRole: defaultRole,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new user with the configured default role attached.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("username", input.Username), slog.String("email", input.Email))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		// 1. Reject duplicate emails. The repository compares case-insensitively.
		_, err := userRepo.FindByEmail(ctx, input.Email)
		if err == nil {
			return domainerrors.ErrAlreadyRegistered.WrapMessage(
				fmt.Sprintf("email %s is already registered", input.Email))
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to find user by email")
		}

		// 2. Hash the submitted password.
		hashedPassword, err := srv.hasher.Hash(input.Password)
		if err != nil {
			return errors.Wrap(err, "failed to hash password during registration")
		}

		newUser := &entity.User{
			Username:        input.Username,
			Email:           input.Email,
			Name:            input.Name,
			PaternalSurname: input.PaternalSurname,
			MaternalSurname: input.MaternalSurname,
			PasswordHash:    hashedPassword,
		}

		// 3. Attach the configured default role. A missing role row is a data
		// setup defect: the user is still created, just without roles.
		role, err := userRepo.FindRoleByName(ctx, srv.defaultRole)
		switch {
		case err == nil:
			newUser.Roles = append(newUser.Roles, role)
		case errors.Is(err, repository.ErrRoleNotFound):
			srv.log(ctx).Warn("Default role not found, registering user without roles",
				slog.String("role", srv.defaultRole))
		default:
			return errors.Wrap(err, "failed to find default role")
		}

		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create user during registration")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("username", input.Username), slog.Any("error", err))

		return nil, srv.asAppError(err, "registration failed")
	}

	srv.log(ctx).Debug("Registration completed", slog.String("username", input.Username))

	return &usecase.RegisterOutput{
		Message: fmt.Sprintf("El usuario %s ha sido registrado exitosamente", input.Username),
	}, nil
}

// Login verifies the credentials and returns a fresh access token together
// with the user's active refresh token, minting one when none is active.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.SessionOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("username", input.Username))

	user, err := srv.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login failed, unknown user", slog.String("username", input.Username))

			return nil, domainerrors.ErrUserNotFound.WrapMessage(
				fmt.Sprintf("user %s does not exist", input.Username))
		}

		return nil, srv.asAppError(err, "failed to find user by username")
	}

	// bcrypt comparison is CPU-bound; it runs outside any transaction.
	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed, password mismatch", slog.String("username", input.Username))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("password mismatch during login")
	}

	accessToken, err := srv.tokenIssuer.CreateAccessToken(user)
	if err != nil {
		return nil, domainerrors.ErrInternalError.WrapMessage("failed to sign access token")
	}

	// Reuse the active refresh token when one exists; only the mint branch
	// writes to the store.
	refreshToken := user.ActiveRefreshToken(srv.clock.Now())
	if refreshToken == nil {
		refreshToken, err = srv.mintRefreshToken(ctx, user)
		if err != nil {
			return nil, srv.asAppError(err, "failed to mint refresh token during login")
		}
	}

	srv.log(ctx).Debug("User logged in successfully", slog.String("username", user.Username))

	return &usecase.SessionOutput{
		Authenticated:         true,
		Message:               fmt.Sprintf("El usuario %s ha sido autenticado exitosamente", user.Username),
		Token:                 accessToken,
		Username:              user.Username,
		Email:                 user.Email,
		Roles:                 user.RoleNames(),
		RefreshToken:          refreshToken.Token,
		RefreshTokenExpiresAt: refreshToken.ExpiresAt,
	}, nil
}

// RefreshSession rotates the presented refresh token. The revoke-old plus
// insert-new pair runs in one transaction, and the revocation write is
// conditional on the token still being unrevoked, so concurrent refresh
// attempts with the same token let at most one caller win.
func (srv *authService) RefreshSession(ctx context.Context, refreshToken string) (*usecase.SessionOutput, error) {
	srv.log(ctx).Debug("Attempting to rotate refresh token")

	var out *usecase.SessionOutput

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		refreshRepo := repoFactory.RefreshTokenRepo()

		// 1. Locate the owner by exact token value; only active tokens match.
		user, err := userRepo.FindByActiveRefreshToken(ctx, refreshToken)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrInvalidOrExpiredToken.WrapMessage("refresh token not found")
			}

			return errors.Wrap(err, "failed to find user by refresh token")
		}

		now := srv.clock.Now()

		current := user.FindRefreshToken(refreshToken)
		if current == nil || !current.IsActive(now) {
			return domainerrors.ErrInvalidOrExpiredToken.WrapMessage("refresh token is not active")
		}

		// 2. Conditional revocation: a racing rotation that already revoked
		// the token makes this attempt fail instead of double-issuing.
		if err := refreshRepo.Revoke(ctx, current.ID, now); err != nil {
			if errors.Is(err, repository.ErrRefreshTokenAlreadyRevoked) ||
				errors.Is(err, repository.ErrRefreshTokenNotFound) {
				return domainerrors.ErrInvalidOrExpiredToken.WrapMessage("refresh token was already rotated")
			}

			return errors.Wrap(err, "failed to revoke refresh token")
		}

		// 3. Mint and persist the replacement.
		replacement, err := srv.tokenIssuer.CreateRefreshToken()
		if err != nil {
			return errors.Wrap(err, "failed to mint replacement refresh token")
		}
		replacement.UserID = user.ID

		if err := refreshRepo.Create(ctx, replacement); err != nil {
			return errors.Wrap(err, "failed to store replacement refresh token")
		}

		accessToken, err := srv.tokenIssuer.CreateAccessToken(user)
		if err != nil {
			return domainerrors.ErrInternalError.WrapMessage("failed to sign access token")
		}

		out = &usecase.SessionOutput{
			Authenticated:         true,
			Message:               fmt.Sprintf("El token del usuario %s ha sido actualizado exitosamente", user.Username),
			Token:                 accessToken,
			Username:              user.Username,
			Email:                 user.Email,
			Roles:                 user.RoleNames(),
			RefreshToken:          replacement.Token,
			RefreshTokenExpiresAt: replacement.ExpiresAt,
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Refresh token rotation failed", slog.Any("error", err))

		return nil, srv.asAppError(err, "refresh token rotation failed")
	}

	srv.log(ctx).Debug("Refresh token rotated", slog.String("username", out.Username))

	return out, nil
}

// GrantRole appends a role to the user's role set after re-authenticating the
// user. Granting an already-held role is an idempotent success with no write.
func (srv *authService) GrantRole(ctx context.Context, input *usecase.GrantRoleInput) (*usecase.GrantRoleOutput, error) {
	srv.log(ctx).Info("Granting role", slog.String("username", input.Username), slog.String("role", input.Role))

	var message string

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByUsername(ctx, input.Username)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound.WrapMessage(
					fmt.Sprintf("user %s does not exist", input.Username))
			}

			return errors.Wrap(err, "failed to find user by username")
		}

		// Privilege changes require re-authentication.
		if !srv.hasher.Check(input.Password, user.PasswordHash) {
			return domainerrors.ErrInvalidCredentials.WrapMessage("password mismatch during role grant")
		}

		role, err := userRepo.FindRoleByName(ctx, input.Role)
		if err != nil {
			if errors.Is(err, repository.ErrRoleNotFound) {
				return domainerrors.ErrRoleNotFound.WrapMessage(
					fmt.Sprintf("role %s does not exist", input.Role))
			}

			return errors.Wrap(err, "failed to find role by name")
		}

		message = fmt.Sprintf("Rol %s agregado a la cuenta %s de forma exitosa", role.Name, user.Username)

		// Already held: success without a persistence write.
		if user.HasRole(role.ID) {
			srv.log(ctx).Debug("User already holds role, skipping write",
				slog.String("username", user.Username), slog.String("role", role.Name))

			return nil
		}

		if err := userRepo.AddRole(ctx, user, role); err != nil {
			return errors.Wrap(err, "failed to add role to user")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Role grant failed", slog.String("username", input.Username), slog.Any("error", err))

		return nil, srv.asAppError(err, "role grant failed")
	}

	return &usecase.GrantRoleOutput{Message: message}, nil
}

// mintRefreshToken creates and persists a fresh refresh token for the user.
func (srv *authService) mintRefreshToken(ctx context.Context, user *entity.User) (*entity.RefreshToken, error) {
	token, err := srv.tokenIssuer.CreateRefreshToken()
	if err != nil {
		return nil, errors.Wrap(err, "failed to mint refresh token")
	}
	token.UserID = user.ID

	if err := srv.refreshRepo.Create(ctx, token); err != nil {
		return nil, errors.Wrap(err, "failed to store refresh token")
	}

	return token, nil
}

// asAppError guarantees the service boundary only ever surfaces AppError
// values: domain errors pass through, anything else (an unexpected
// persistence fault) is wrapped with a generic user-safe message while the
// original diagnostic stays in the details for logging.
func (srv *authService) asAppError(err error, details string) error {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return err
	}

	return domainerrors.NewDatabaseExecuteError(err, details)
}
