package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/modela/identity-gateway/internal/api/metrics"
	"github.com/modela/identity-gateway/internal/api/session"
	"github.com/modela/identity-gateway/internal/core/service"
)

type waitingView struct {
	State string `json:"state"`
	// Redirect is set once the guard has decided to navigate away.
	Redirect string `json:"redirect,omitempty"`
}

// redirectNavigator captures the navigation issued by a render guard so it can
// be turned into an HTTP redirect.
type redirectNavigator struct {
	target string
}

func (n *redirectNavigator) Navigate(path string) {
	if n.target == "" {
		n.target = path
	}
}

// RequireSession is the render half of the route guard. It restores the
// request's session, runs a render guard over it and only lets the handler
// run once the guard is Authorized. The identity is placed in the context
// under session.IdentityContextKey.
func RequireSession(m *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			store := m.Restored(c)
			nav := &redirectNavigator{}
			guard := service.NewRenderGuard(store, nav)

			state := guard.Mount()
			metrics.GuardDecisionsTotal.WithLabelValues("render", state.String()).Inc()

			switch state {
			case service.GuardAuthorized:
				id, _ := store.Current()
				c.Set(session.IdentityContextKey, id)
				return next(c)
			case service.GuardRedirecting:
				c.Response().Header().Set(echo.HeaderLocation, nav.target)
				return c.JSON(http.StatusTemporaryRedirect, waitingView{State: state.String(), Redirect: nav.target})
			default:
				return c.JSON(http.StatusAccepted, waitingView{State: state.String()})
			}
		}
	}
}
