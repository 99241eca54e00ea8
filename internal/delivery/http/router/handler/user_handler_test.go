package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AnthonyArce/Tienda/internal/delivery/http/middleware"
	"github.com/AnthonyArce/Tienda/internal/delivery/http/validator"
	domainerrors "github.com/AnthonyArce/Tienda/internal/domain/errors"
	"github.com/AnthonyArce/Tienda/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAuthUsecase records inputs and returns canned results.
type stubAuthUsecase struct {
	session       *usecase.SessionOutput
	refreshedWith string
	err           error
}

func (s *stubAuthUsecase) Register(context.Context, *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	if s.err != nil {
		return nil, s.err
	}

	return &usecase.RegisterOutput{Message: "El usuario alice ha sido registrado exitosamente"}, nil
}

func (s *stubAuthUsecase) Login(context.Context, *usecase.LoginInput) (*usecase.SessionOutput, error) {
	if s.err != nil {
		return nil, s.err
	}

	return s.session, nil
}

func (s *stubAuthUsecase) RefreshSession(_ context.Context, refreshToken string) (*usecase.SessionOutput, error) {
	s.refreshedWith = refreshToken
	if s.err != nil {
		return nil, s.err
	}

	return s.session, nil
}

func (s *stubAuthUsecase) GrantRole(context.Context, *usecase.GrantRoleInput) (*usecase.GrantRoleOutput, error) {
	if s.err != nil {
		return nil, s.err
	}

	return &usecase.GrantRoleOutput{Message: "Rol Empleado agregado a la cuenta alice de forma exitosa"}, nil
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger).HandleHTTPError

	return e
}

func testSession() *usecase.SessionOutput {
	return &usecase.SessionOutput{
		Authenticated:         true,
		Message:               "El usuario alice ha sido autenticado exitosamente",
		Token:                 "signed-access-token",
		Username:              "alice",
		Email:                 "alice@example.com",
		Roles:                 []string{"Administrador"},
		RefreshToken:          "opaque-refresh-value",
		RefreshTokenExpiresAt: time.Now().Add(10 * 24 * time.Hour),
	}
}

func TestUserHandler_Token_SetsRefreshCookie(t *testing.T) {
	e := newTestEcho()
	uc := &stubAuthUsecase{session: testSession()}
	h := NewUserHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	e.POST("/usuario/token", h.Token)

	req := httptest.NewRequest(http.MethodPost, "/usuario/token",
		strings.NewReader(`{"username":"alice","password":"s3cret-pass"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	// The access token is in the body, the refresh token only in the cookie.
	body := rec.Body.String()
	assert.Contains(t, body, "signed-access-token")
	assert.NotContains(t, body, "opaque-refresh-value")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "refreshToken", cookies[0].Name)
	assert.Equal(t, "opaque-refresh-value", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestUserHandler_Token_MissingFields(t *testing.T) {
	e := newTestEcho()
	uc := &stubAuthUsecase{session: testSession()}
	h := NewUserHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	e.POST("/usuario/token", h.Token)

	req := httptest.NewRequest(http.MethodPost, "/usuario/token", strings.NewReader(`{"username":"alice"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
}

func TestUserHandler_RefreshToken_ReadsCookie(t *testing.T) {
	e := newTestEcho()
	uc := &stubAuthUsecase{session: testSession()}
	h := NewUserHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	e.POST("/usuario/refreshtoken", h.RefreshToken)

	req := httptest.NewRequest(http.MethodPost, "/usuario/refreshtoken", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "previous-refresh-value"})
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "previous-refresh-value", uc.refreshedWith)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "opaque-refresh-value", cookies[0].Value)
}

func TestUserHandler_RefreshToken_MissingCookie(t *testing.T) {
	e := newTestEcho()
	uc := &stubAuthUsecase{session: testSession()}
	h := NewUserHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	e.POST("/usuario/refreshtoken", h.RefreshToken)

	req := httptest.NewRequest(http.MethodPost, "/usuario/refreshtoken", nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_REFRESH_TOKEN")
	assert.Empty(t, uc.refreshedWith)
}

func TestUserHandler_RefreshToken_UsecaseErrorMapsToEnvelope(t *testing.T) {
	e := newTestEcho()
	uc := &stubAuthUsecase{err: domainerrors.ErrInvalidOrExpiredToken.WrapMessage("already rotated")}
	h := NewUserHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	e.POST("/usuario/refreshtoken", h.RefreshToken)

	req := httptest.NewRequest(http.MethodPost, "/usuario/refreshtoken", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "stale"})
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "El token de actualización es inválido o ha expirado")
}

func TestUserHandler_Register_Created(t *testing.T) {
	e := newTestEcho()
	uc := &stubAuthUsecase{}
	h := NewUserHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	e.POST("/usuario/register", h.Register)

	req := httptest.NewRequest(http.MethodPost, "/usuario/register",
		strings.NewReader(`{"username":"alice","email":"alice@example.com","password":"s3cret-pass","name":"Alicia"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "registrado exitosamente")
}

func TestUserHandler_Register_Conflict(t *testing.T) {
	e := newTestEcho()
	uc := &stubAuthUsecase{err: domainerrors.ErrAlreadyRegistered.WrapMessage("duplicate email")}
	h := NewUserHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	e.POST("/usuario/register", h.Register)

	req := httptest.NewRequest(http.MethodPost, "/usuario/register",
		strings.NewReader(`{"username":"alice","email":"alice@example.com","password":"s3cret-pass","name":"Alicia"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "ALREADY_REGISTERED")
}
