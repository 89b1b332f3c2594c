package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/modela/identity-gateway/internal/api/metrics"
	"github.com/modela/identity-gateway/internal/core/domain"
	"github.com/modela/identity-gateway/internal/core/ports"
	"github.com/modela/identity-gateway/internal/core/service"
)

// SessionView is the session state the auth endpoints report on.
type SessionView interface {
	ports.Session
	HasRecord(ctx context.Context) bool
}

// SessionBinder resolves the session objects bound to one request.
type SessionBinder interface {
	// Flow returns a credential flow writing to the request's session.
	Flow(c echo.Context) ports.CredentialFlow
	// Session returns the request's session after restoration.
	Session(c echo.Context) SessionView
}

type AuthHandler struct {
	sessions SessionBinder
}

func NewAuthHandler(sessions SessionBinder) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	// Redirect is used when no redirect query parameter is present.
	Redirect string `json:"redirect,omitempty"`
}

type authResponse struct {
	User     *domain.Identity `json:"user,omitempty"`
	Redirect string           `json:"redirect"`
}

type sessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	User          *domain.Identity `json:"user"`
}

type debugResponse struct {
	IsLoading       bool   `json:"isLoading"`
	IsAuthenticated bool   `json:"isAuthenticated"`
	CookieExists    bool   `json:"cookieExists"`
	RecordExists    bool   `json:"recordExists"`
	User            string `json:"user,omitempty"`
}

type validationResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// Register creates a new account and signs it in.
//
// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  validationResponse
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	out, err := h.sessions.Flow(c).Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return failure(c, "register", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	return c.JSON(http.StatusCreated, authResponse{User: out.Identity, Redirect: out.Redirect})
}

// Login authenticates the credentials and signs the browser in.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        redirect  query     string        false  "Path to return to after login"
// @Param        body      body      loginRequest  true   "Login credentials"
// @Success      200       {object}  authResponse
// @Failure      400       {object}  validationResponse
// @Failure      401       {object}  map[string]string
// @Failure      500       {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	redirect := c.QueryParam("redirect")
	if redirect == "" {
		redirect = req.Redirect
	}
	ctx := service.WithRedirect(c.Request().Context(), redirect)

	out, err := h.sessions.Flow(c).Login(ctx, req.Email, req.Password)
	if err != nil {
		return failure(c, "login", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	return c.JSON(http.StatusOK, authResponse{User: out.Identity, Redirect: out.Redirect})
}

// Logout signs the browser out. It always succeeds.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  authResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	redirect := h.sessions.Flow(c).Logout(c.Request().Context())
	metrics.AuthAttemptsTotal.WithLabelValues("logout", "success").Inc()
	return c.JSON(http.StatusOK, authResponse{Redirect: redirect})
}

// Session reports the browser's restored session.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /api/auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	s := h.sessions.Session(c)
	id, ok := s.Current()
	return c.JSON(http.StatusOK, sessionResponse{Authenticated: ok, User: id})
}

// Debug exposes the raw session artifacts. Registered in development only.
//
// @Summary      Session debug info
// @Tags         auth
// @Produce      json
// @Success      200  {object}  debugResponse
// @Router       /api/auth/debug [get]
func (h *AuthHandler) Debug(c echo.Context) error {
	s := h.sessions.Session(c)
	_, cookieErr := c.Cookie(domain.TokenCookieName)

	resp := debugResponse{
		IsLoading:    s.Loading(),
		CookieExists: cookieErr == nil,
		RecordExists: s.HasRecord(c.Request().Context()),
	}
	if id, ok := s.Current(); ok {
		resp.IsAuthenticated = true
		resp.User = id.Email
	}
	return c.JSON(http.StatusOK, resp)
}

// failure renders a credential flow error. Validation failures carry the
// first message per field; unknown errors go to the HTTP error handler.
func failure(c echo.Context, op string, err error) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		metrics.AuthAttemptsTotal.WithLabelValues(op, "invalid").Inc()
		return c.JSON(http.StatusBadRequest, validationResponse{Error: "Validation failed", Fields: ve.Fields()})
	case errors.Is(err, domain.ErrInvalidCredentials):
		metrics.AuthAttemptsTotal.WithLabelValues(op, "unauthorized").Inc()
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}
	metrics.AuthAttemptsTotal.WithLabelValues(op, "error").Inc()
	if errors.Is(err, domain.ErrLoginFailed) || errors.Is(err, domain.ErrRegistrationFailed) {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return err
}
