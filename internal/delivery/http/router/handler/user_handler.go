// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/AnthonyArce/Tienda/internal/delivery/http/response"
	domainerrors "github.com/AnthonyArce/Tienda/internal/domain/errors"
	"github.com/AnthonyArce/Tienda/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// refreshTokenCookie is the cookie carrying the refresh token. It is HttpOnly
// so browser scripts never see the value.
const refreshTokenCookie = "refreshToken"

// UserHandler holds dependencies for user-related handlers.
type UserHandler struct {
	uc     usecase.AuthUsecase
	logger *slog.Logger
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(uc usecase.AuthUsecase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		uc:     uc,
		logger: logger,
	}
}

// Register handles the user registration request.
func (h *UserHandler) Register(c echo.Context) error {
	var input usecase.RegisterInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Register(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output, output.Message)
}

// Token handles the login request. On success the refresh token travels back
// in an HttpOnly cookie while the body carries the access token.
func (h *UserHandler) Token(c echo.Context) error {
	var input usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Login(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	h.setRefreshTokenCookie(c, output.RefreshToken, output.RefreshTokenExpiresAt)

	return response.Success(c, http.StatusOK, output, output.Message)
}

// RefreshToken rotates the refresh token presented in the cookie and returns
// a fresh session.
func (h *UserHandler) RefreshToken(c echo.Context) error {
	cookie, err := c.Cookie(refreshTokenCookie)
	if err != nil || cookie.Value == "" {
		return domainerrors.ErrInvalidOrExpiredToken.WrapMessage("refresh token cookie is missing")
	}

	output, err := h.uc.RefreshSession(c.Request().Context(), cookie.Value)
	if err != nil {
		return errors.WithStack(err)
	}

	h.setRefreshTokenCookie(c, output.RefreshToken, output.RefreshTokenExpiresAt)

	return response.Success(c, http.StatusOK, output, output.Message)
}

// AddRole handles the role grant request.
func (h *UserHandler) AddRole(c echo.Context) error {
	var input usecase.GrantRoleInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid role input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.GrantRole(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, output.Message)
}

func (h *UserHandler) setRefreshTokenCookie(c echo.Context, token string, expires time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     refreshTokenCookie,
		Value:    token,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
