package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/modela/identity-gateway/internal/core/domain"
	"github.com/modela/identity-gateway/internal/core/ports"
	"github.com/modela/identity-gateway/internal/core/validation"
)

// SessionWriter is the part of the session store the credential flow mutates.
type SessionWriter interface {
	Commit(ctx context.Context, id *domain.Identity) error
	Clear(ctx context.Context)
	Begin() func()
	ClientKey() string
}

type redirectKey struct{}

// WithRedirect attaches the requested post-login destination to ctx.
func WithRedirect(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, redirectKey{}, path)
}

// RedirectFrom returns the destination attached by WithRedirect.
func RedirectFrom(ctx context.Context) string {
	p, _ := ctx.Value(redirectKey{}).(string)
	return p
}

// CredentialFlow implements login, registration and logout for one session.
type CredentialFlow struct {
	session   SessionWriter
	backend   ports.IdentityBackend
	validator *validation.Engine
	audit     ports.AuditSink
	log       zerolog.Logger
}

// NewCredentialFlow returns a CredentialFlow bound to session.
func NewCredentialFlow(
	session SessionWriter,
	backend ports.IdentityBackend,
	validator *validation.Engine,
	audit ports.AuditSink,
	log zerolog.Logger,
) *CredentialFlow {
	if validator == nil {
		validator = validation.Default()
	}
	if audit == nil {
		audit = NopAudit{}
	}
	return &CredentialFlow{
		session:   session,
		backend:   backend,
		validator: validator,
		audit:     audit,
		log:       log,
	}
}

var _ ports.CredentialFlow = (*CredentialFlow)(nil)

// Login validates the credentials, authenticates against the backend and
// commits the resulting identity. The redirect target honours RedirectFrom(ctx)
// unless it would loop back to an auth page or leave the site.
func (f *CredentialFlow) Login(ctx context.Context, email, password string) (*ports.Outcome, error) {
	in, err := f.validator.ValidateLogin(validation.LoginInput{Email: email, Password: password})
	if err != nil {
		f.record(domain.AuditLogin, nil, email, err)
		return nil, err
	}

	done := f.session.Begin()
	defer done()

	id, err := f.backend.Authenticate(ctx, in.Email, in.Password)
	if err == nil {
		err = f.session.Commit(ctx, id)
	}
	if err != nil {
		f.record(domain.AuditLogin, nil, in.Email, err)
		return nil, f.translate(err, domain.ErrLoginFailed, "login")
	}

	f.record(domain.AuditLogin, id, in.Email, nil)
	f.log.Info().Str("user_id", id.ID).Str("role", string(id.Role)).Msg("login succeeded")

	return &ports.Outcome{Identity: id, Redirect: LoginTarget(RedirectFrom(ctx))}, nil
}

// Register validates the payload, enrolls the identity and commits it.
// Registration always lands on the dashboard.
func (f *CredentialFlow) Register(ctx context.Context, name, email, password string) (*ports.Outcome, error) {
	in, err := f.validator.ValidateRegister(validation.RegisterInput{Name: name, Email: email, Password: password})
	if err != nil {
		f.record(domain.AuditRegister, nil, email, err)
		return nil, err
	}

	done := f.session.Begin()
	defer done()

	id, err := f.backend.Enroll(ctx, in.Name, in.Email, in.Password)
	if err == nil {
		err = f.session.Commit(ctx, id)
	}
	if err != nil {
		f.record(domain.AuditRegister, nil, in.Email, err)
		return nil, f.translate(err, domain.ErrRegistrationFailed, "registration")
	}

	f.record(domain.AuditRegister, id, in.Email, nil)
	f.log.Info().Str("user_id", id.ID).Str("role", string(id.Role)).Msg("registration succeeded")

	return &ports.Outcome{Identity: id, Redirect: domain.DashboardPath}, nil
}

// Logout clears the session and returns the home path. It cannot fail.
func (f *CredentialFlow) Logout(ctx context.Context) string {
	done := f.session.Begin()
	defer done()

	f.session.Clear(ctx)
	f.record(domain.AuditLogout, nil, "", nil)
	return domain.HomePath
}

// translate keeps auth failures as they are and replaces anything else with
// the stable per-operation message. The cause is only logged.
func (f *CredentialFlow) translate(err, generic error, op string) error {
	var ve *domain.ValidationError
	if errors.As(err, &ve) || errors.Is(err, domain.ErrInvalidCredentials) {
		return err
	}
	f.log.Error().Err(err).Str("operation", op).Msg("unexpected credential flow failure")
	return generic
}

func (f *CredentialFlow) record(kind string, id *domain.Identity, email string, err error) {
	ev := domain.AuditEvent{
		Type:      kind,
		ClientKey: f.session.ClientKey(),
		Email:     email,
		Success:   err == nil,
		Timestamp: time.Now().UTC(),
	}
	if id != nil {
		ev.UserID = id.ID
	}
	if err != nil {
		ev.Error = err.Error()
	}
	f.audit.Record(ev)
}

// LoginTarget picks the post-login destination from a requested redirect.
// Empty, non-local, and login/register destinations fall back to the dashboard.
func LoginTarget(redirect string) string {
	switch {
	case redirect == "":
		return domain.DashboardPath
	case !strings.HasPrefix(redirect, "/"),
		strings.HasPrefix(redirect, "//"),
		strings.HasPrefix(redirect, `/\`):
		return domain.DashboardPath
	case strings.Contains(redirect, "login"), strings.Contains(redirect, "register"):
		return domain.DashboardPath
	}
	return redirect
}
