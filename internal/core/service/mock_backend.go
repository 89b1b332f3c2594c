package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/modela/identity-gateway/internal/core/domain"
)

// DefaultBackendLatency approximates a remote identity provider round-trip.
const DefaultBackendLatency = 500 * time.Millisecond

// MockBackend fabricates identities after a simulated round-trip. Any
// credentials that passed validation are accepted.
//
// Login yields an admin with placeholder company details while registration
// yields a plain user. That asymmetry is kept on purpose until product decides
// on a single role policy.
type MockBackend struct {
	latency time.Duration
	newID   func() string
}

// NewMockBackend returns a backend that waits latency before answering.
func NewMockBackend(latency time.Duration) *MockBackend {
	return &MockBackend{
		latency: latency,
		newID:   func() string { return "user_" + uuid.NewString() },
	}
}

func (b *MockBackend) Authenticate(ctx context.Context, email, _ string) (*domain.Identity, error) {
	if err := b.roundTrip(ctx); err != nil {
		return nil, err
	}

	name, _, _ := strings.Cut(email, "@")
	if name == "" {
		name = "User"
	}
	return &domain.Identity{
		ID:       b.newID(),
		Name:     name,
		Email:    email,
		Role:     domain.RoleAdmin,
		Company:  "Acme Inc.",
		JobTitle: "CTO",
	}, nil
}

func (b *MockBackend) Enroll(ctx context.Context, name, email, _ string) (*domain.Identity, error) {
	if err := b.roundTrip(ctx); err != nil {
		return nil, err
	}
	return &domain.Identity{
		ID:    b.newID(),
		Name:  name,
		Email: email,
		Role:  domain.RoleUser,
	}, nil
}

func (b *MockBackend) roundTrip(ctx context.Context) error {
	if b.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(b.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
