package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/modela/identity-gateway/internal/api/session"
	"github.com/modela/identity-gateway/internal/core/domain"
)

// CurrentIdentity returns the identity placed in the context by the session
// guard. Handlers behind the guard can rely on it; elsewhere it fails fast
// with 401.
func CurrentIdentity(c echo.Context) (*domain.Identity, error) {
	id, ok := c.Get(session.IdentityContextKey).(*domain.Identity)
	if !ok || id == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session identity")
	}
	return id, nil
}
