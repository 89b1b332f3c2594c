package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/modela/identity-gateway/internal/core/domain"
	"github.com/modela/identity-gateway/internal/core/ports"
)

// DefaultSessionTTL is the token validity window.
const DefaultSessionTTL = 7 * 24 * time.Hour

// RestoreOutcome describes what a restoration pass found.
type RestoreOutcome string

const (
	RestoreEmpty       RestoreOutcome = "empty"
	RestoreRestored    RestoreOutcome = "restored"
	RestoreDiscarded   RestoreOutcome = "discarded"
	RestoreUnavailable RestoreOutcome = "unavailable"
	// RestoreSuperseded means a commit or clear happened before any restoration.
	RestoreSuperseded RestoreOutcome = "superseded"
)

// SessionOptions configures a SessionStore.
type SessionOptions struct {
	// Secure marks the token cookie Secure. False only for plain-HTTP development.
	Secure bool
	// TTL is the token lifetime. Defaults to DefaultSessionTTL.
	TTL time.Duration
	// ClientKey identifies the browser the session belongs to, for audit events.
	ClientKey string
	Audit     ports.AuditSink
	Now       func() time.Time
}

// SessionStore owns the current identity, its persisted record and the token
// mirrored from it. It is the only writer of both.
type SessionStore struct {
	records   ports.KeyValueStore
	jar       ports.TokenJar
	secure    bool
	ttl       time.Duration
	clientKey string
	audit     ports.AuditSink
	now       func() time.Time
	log       zerolog.Logger

	mu        sync.RWMutex
	current   *domain.Identity
	restoring bool
	inflight  int

	restoreOnce sync.Once
	outcome     RestoreOutcome
}

// NewSessionStore returns a store that reports Loading until Restore runs.
func NewSessionStore(records ports.KeyValueStore, jar ports.TokenJar, opts SessionOptions, log zerolog.Logger) *SessionStore {
	if opts.TTL <= 0 {
		opts.TTL = DefaultSessionTTL
	}
	if opts.Audit == nil {
		opts.Audit = NopAudit{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &SessionStore{
		records:   records,
		jar:       jar,
		secure:    opts.Secure,
		ttl:       opts.TTL,
		clientKey: opts.ClientKey,
		audit:     opts.Audit,
		now:       opts.Now,
		log:       log,
		restoring: true,
	}
}

// ClientKey returns the browser key the store was built for.
func (s *SessionStore) ClientKey() string { return s.clientKey }

// Current returns a copy of the current identity.
func (s *SessionStore) Current() (*domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, false
	}
	id := *s.current
	return &id, true
}

// Authenticated reports whether an identity is present.
func (s *SessionStore) Authenticated() bool {
	_, ok := s.Current()
	return ok
}

// Loading is true until restoration completes and while any operation started
// with Begin is in flight.
func (s *SessionStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.restoring || s.inflight > 0
}

// Begin marks an operation as in flight. The returned func ends it and is safe
// to call more than once.
func (s *SessionStore) Begin() func() {
	s.mu.Lock()
	s.inflight++
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.inflight--
			s.mu.Unlock()
		})
	}
}

// Restore adopts the persisted identity, if a valid one exists. It runs at most
// once per store; later calls return the first outcome. A corrupt record is
// deleted together with the token and never surfaced.
func (s *SessionStore) Restore(ctx context.Context) RestoreOutcome {
	s.restoreOnce.Do(func() {
		defer s.finishRestore()
		s.outcome = s.restore(ctx)
	})
	return s.outcome
}

func (s *SessionStore) finishRestore() {
	s.mu.Lock()
	s.restoring = false
	s.mu.Unlock()
}

func (s *SessionStore) supersedeRestore() {
	s.restoreOnce.Do(func() {
		defer s.finishRestore()
		s.outcome = RestoreSuperseded
	})
}

func (s *SessionStore) restore(ctx context.Context) RestoreOutcome {
	raw, err := s.records.Get(ctx, domain.IdentityRecordKey)
	if errors.Is(err, domain.ErrRecordNotFound) {
		s.dropOrphanToken()
		return RestoreEmpty
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("identity record unreadable, starting without a session")
		return RestoreUnavailable
	}

	var id domain.Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil || !id.Valid() {
		s.log.Warn().Err(err).Msg("discarding corrupt identity record")
		s.discard(ctx)
		return RestoreDiscarded
	}

	s.mu.Lock()
	s.current = &id
	s.mu.Unlock()

	// The reissued token gets a fresh lifetime, so the record's expiry is
	// refreshed with it.
	if err := s.records.Set(ctx, domain.IdentityRecordKey, raw); err != nil {
		s.log.Warn().Err(err).Str("user_id", id.ID).Msg("failed to refresh identity record")
		return RestoreRestored
	}
	if err := s.jar.Set(s.tokenCookie(&id)); err != nil {
		s.log.Warn().Err(err).Str("user_id", id.ID).Msg("failed to reissue session token")
	}
	return RestoreRestored
}

// dropOrphanToken deletes a token that has no identity record behind it, so
// request-time checks stop treating the browser as signed in.
func (s *SessionStore) dropOrphanToken() {
	if _, ok := s.jar.Get(domain.TokenCookieName); !ok {
		return
	}
	s.log.Info().Msg("deleting session token without identity record")
	if err := s.jar.Delete(domain.TokenCookieName); err != nil {
		s.log.Warn().Err(err).Msg("failed to delete orphaned session token")
	}
}

func (s *SessionStore) discard(ctx context.Context) {
	if err := s.records.Delete(ctx, domain.IdentityRecordKey); err != nil {
		s.log.Warn().Err(err).Msg("failed to delete corrupt identity record")
	}
	if err := s.jar.Delete(domain.TokenCookieName); err != nil {
		s.log.Warn().Err(err).Msg("failed to delete session token")
	}
	s.audit.Record(domain.AuditEvent{
		Type:      domain.AuditSessionDiscarded,
		ClientKey: s.clientKey,
		Success:   true,
		Timestamp: s.now().UTC(),
	})
}

// Commit persists id, issues a fresh token and adopts id as the current
// identity. Storage failures are logged and reported as ErrSessionPersist; the
// in-memory state is left untouched in that case.
func (s *SessionStore) Commit(ctx context.Context, id *domain.Identity) error {
	if !id.Valid() {
		s.log.Error().Msg("refusing to commit an incomplete identity")
		return domain.ErrSessionPersist
	}

	raw, err := json.Marshal(id)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to encode identity record")
		return domain.ErrSessionPersist
	}
	if err := s.records.Set(ctx, domain.IdentityRecordKey, string(raw)); err != nil {
		s.log.Error().Err(err).Str("user_id", id.ID).Msg("failed to persist identity record")
		return domain.ErrSessionPersist
	}
	if err := s.jar.Set(s.tokenCookie(id)); err != nil {
		s.log.Error().Err(err).Str("user_id", id.ID).Msg("failed to issue session token")
		if delErr := s.records.Delete(ctx, domain.IdentityRecordKey); delErr != nil {
			s.log.Warn().Err(delErr).Msg("failed to roll back identity record")
		}
		return domain.ErrSessionPersist
	}

	s.supersedeRestore()

	adopted := *id
	s.mu.Lock()
	s.current = &adopted
	s.mu.Unlock()
	return nil
}

// Clear drops the session. The in-memory identity goes first so the caller
// always observes a logged-out state; storage errors are logged and swallowed.
func (s *SessionStore) Clear(ctx context.Context) {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	s.supersedeRestore()

	if err := s.records.Delete(ctx, domain.IdentityRecordKey); err != nil {
		s.log.Warn().Err(err).Msg("failed to delete identity record on logout")
	}
	if err := s.jar.Delete(domain.TokenCookieName); err != nil {
		s.log.Warn().Err(err).Msg("failed to delete session token on logout")
	}
}

// HasRecord reports whether a persisted identity record exists, valid or not.
func (s *SessionStore) HasRecord(ctx context.Context) bool {
	_, err := s.records.Get(ctx, domain.IdentityRecordKey)
	return err == nil
}

func (s *SessionStore) tokenCookie(id *domain.Identity) *http.Cookie {
	return &http.Cookie{
		Name:     domain.TokenCookieName,
		Value:    domain.EncodeToken(id.Claim()),
		Path:     "/",
		MaxAge:   int(s.ttl / time.Second),
		Expires:  s.now().Add(s.ttl).UTC(),
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// NopAudit discards audit events.
type NopAudit struct{}

func (NopAudit) Record(domain.AuditEvent) {}
