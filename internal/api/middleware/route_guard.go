package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/modela/identity-gateway/internal/api/metrics"
	"github.com/modela/identity-gateway/internal/api/session"
	"github.com/modela/identity-gateway/internal/core/domain"
)

// RouteClass is how the edge guard treats a path.
type RouteClass int

const (
	// ClassProtected requires an authenticated token.
	ClassProtected RouteClass = iota
	// ClassPublic is reachable by anyone.
	ClassPublic
	// ClassAuthPage is the login or register page: public, but authenticated
	// visitors are sent to the dashboard.
	ClassAuthPage
)

var publicPrefixes = []string{
	"/marketplace",
	"/models",
	"/solutions",
	"/blog",
	"/tutorials",
	"/pricing",
	"/community",
}

// skippedPrefixes never reach the edge guard.
var skippedPrefixes = []string{
	"/api",
	"/health",
	"/metrics",
	"/swagger",
	"/static",
	"/favicon.ico",
}

// Classify maps a request path to its RouteClass.
func Classify(path string) RouteClass {
	switch path {
	case domain.LoginPath, domain.RegisterPath:
		return ClassAuthPage
	case domain.HomePath:
		return ClassPublic
	}
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return ClassPublic
		}
	}
	return ClassProtected
}

// DecisionKind is the edge guard's verdict for one request.
type DecisionKind string

const (
	DecisionPass              DecisionKind = "pass"
	DecisionLoginRedirect     DecisionKind = "login_redirect"
	DecisionDashboardRedirect DecisionKind = "dashboard_redirect"
)

// Decision is what the edge guard does with a request.
type Decision struct {
	Kind DecisionKind
	// Location is set for redirects.
	Location string
	// ClearToken asks for the token cookie to be deleted because it could not
	// be decoded.
	ClearToken bool
}

// Decide evaluates path against the token cookie, which may be nil. It only
// decodes the token; it never consults the identity record.
func Decide(path string, token *http.Cookie) Decision {
	var d Decision
	authenticated := false
	if token != nil {
		claim, err := domain.DecodeToken(token.Value)
		if err != nil {
			d.ClearToken = true
		} else {
			authenticated = claim.Authenticated()
		}
	}

	class := Classify(path)
	switch {
	case authenticated && class == ClassAuthPage:
		d.Kind = DecisionDashboardRedirect
		d.Location = domain.DashboardPath
	case !authenticated && class == ClassProtected:
		d.Kind = DecisionLoginRedirect
		d.Location = LoginRedirect(path)
	default:
		d.Kind = DecisionPass
	}
	return d
}

// LoginRedirect builds the login URL that returns to path after sign in.
func LoginRedirect(path string) string {
	return domain.LoginPath + "?redirect=" + strings.ReplaceAll(url.QueryEscape(path), "%2F", "/")
}

// RouteGuardConfig defines the config for the RouteGuard middleware.
type RouteGuardConfig struct {
	// Skipper defaults to skipping API, health, metrics, docs and static paths.
	Skipper echomiddleware.Skipper
	// Secure must match the attributes the token cookie was issued with.
	Secure bool
	Log    zerolog.Logger
}

// DefaultSkipper skips paths the edge guard never applies to.
func DefaultSkipper(c echo.Context) bool {
	path := c.Request().URL.Path
	for _, p := range skippedPrefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// RouteGuard is the edge half of the route guard. It runs before any page
// handler and decides from the token cookie alone.
func RouteGuard(cfg RouteGuardConfig) echo.MiddlewareFunc {
	if cfg.Skipper == nil {
		cfg.Skipper = DefaultSkipper
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Skipper(c) {
				return next(c)
			}

			path := c.Request().URL.Path
			token, err := c.Cookie(domain.TokenCookieName)
			if err != nil {
				token = nil
			}

			d := Decide(path, token)
			metrics.GuardDecisionsTotal.WithLabelValues("edge", string(d.Kind)).Inc()

			if d.ClearToken {
				cfg.Log.Debug().Str("path", path).Msg("clearing undecodable session token")
				_ = session.NewJar(c, cfg.Secure).Delete(domain.TokenCookieName)
			}
			if d.Kind != DecisionPass {
				return c.Redirect(http.StatusTemporaryRedirect, d.Location)
			}
			return next(c)
		}
	}
}
