package ports

import (
	"context"

	"github.com/modela/identity-gateway/internal/core/domain"
)

// Outcome is the result of a successful login or registration.
type Outcome struct {
	Identity *domain.Identity
	// Redirect is the path the client should navigate to next.
	Redirect string
}

// CredentialFlow runs login, registration and logout against one session.
type CredentialFlow interface {
	Login(ctx context.Context, email, password string) (*Outcome, error)
	Register(ctx context.Context, name, email, password string) (*Outcome, error)
	Logout(ctx context.Context) string
}

// Session is the view of a session store the HTTP layer and guards depend on.
type Session interface {
	Current() (*domain.Identity, bool)
	Loading() bool
}
