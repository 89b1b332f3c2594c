package service

import (
	"sync"

	"github.com/modela/identity-gateway/internal/core/domain"
	"github.com/modela/identity-gateway/internal/core/ports"
)

// GuardState is the render guard's position in its lifecycle.
type GuardState int

const (
	// GuardInitializing: not mounted yet.
	GuardInitializing GuardState = iota
	// GuardChecking: mounted, session still loading.
	GuardChecking
	// GuardAuthorized: session loaded with an identity; content may render.
	GuardAuthorized
	// GuardRedirecting: session loaded without an identity; navigation to the
	// login page has been issued.
	GuardRedirecting
)

func (s GuardState) String() string {
	switch s {
	case GuardInitializing:
		return "initializing"
	case GuardChecking:
		return "checking"
	case GuardAuthorized:
		return "authorized"
	case GuardRedirecting:
		return "redirecting"
	default:
		return "unknown"
	}
}

// RenderGuard decides whether protected content may render for a session. It
// never reports Authorized while the session is loading, and it issues at most
// one navigation.
type RenderGuard struct {
	session ports.Session
	nav     ports.Navigator

	mu    sync.Mutex
	state GuardState
}

// NewRenderGuard returns a guard in the Initializing state.
func NewRenderGuard(session ports.Session, nav ports.Navigator) *RenderGuard {
	return &RenderGuard{session: session, nav: nav}
}

// State returns the current state without re-evaluating.
func (g *RenderGuard) State() GuardState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Mount moves the guard out of Initializing and evaluates immediately.
func (g *RenderGuard) Mount() GuardState {
	g.mu.Lock()
	if g.state == GuardInitializing {
		g.state = GuardChecking
	}
	g.mu.Unlock()
	return g.Evaluate()
}

// Evaluate re-reads the session. Redirecting is sticky until the guard is
// discarded.
func (g *RenderGuard) Evaluate() GuardState {
	g.mu.Lock()
	switch {
	case g.state == GuardInitializing, g.state == GuardRedirecting:
		state := g.state
		g.mu.Unlock()
		return state
	case g.session.Loading():
		g.state = GuardChecking
		g.mu.Unlock()
		return GuardChecking
	}

	if _, ok := g.session.Current(); ok {
		g.state = GuardAuthorized
		g.mu.Unlock()
		return GuardAuthorized
	}

	g.state = GuardRedirecting
	g.mu.Unlock()

	g.nav.Navigate(domain.LoginPath)
	return GuardRedirecting
}

// ShouldRender reports whether protected content may be shown right now.
func (g *RenderGuard) ShouldRender() bool {
	return g.Evaluate() == GuardAuthorized
}
