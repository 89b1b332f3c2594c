package ports

import (
	"context"

	"github.com/modela/identity-gateway/internal/core/domain"
)

// IdentityBackend is the remote identity provider seam. Inputs have already
// been validated when these are called.
type IdentityBackend interface {
	Authenticate(ctx context.Context, email, password string) (*domain.Identity, error)
	Enroll(ctx context.Context, name, email, password string) (*domain.Identity, error)
}

// AuditSink receives identity lifecycle events. Record must not block the caller.
type AuditSink interface {
	Record(event domain.AuditEvent)
}
