// Package session binds session stores to HTTP requests. Each browser is
// identified by a long-lived client cookie whose value namespaces its
// identity record.
package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/modela/identity-gateway/internal/api/metrics"
	"github.com/modela/identity-gateway/internal/core/ports"
	"github.com/modela/identity-gateway/internal/core/service"
	"github.com/modela/identity-gateway/internal/infrastructure/db"
)

// ClientCookieName identifies the browser across requests.
const ClientCookieName = "modela_client"

const clientCookieTTL = 365 * 24 * time.Hour

const (
	storeContextKey    = "modela.session.store"
	restoredContextKey = "modela.session.restored"
)

// Options configures a Manager.
type Options struct {
	Secure bool
	TTL    time.Duration
	Audit  ports.AuditSink
}

// Manager builds one SessionStore per request.
type Manager struct {
	records ports.KeyValueStore
	opts    Options
	log     zerolog.Logger
}

func NewManager(records ports.KeyValueStore, opts Options, log zerolog.Logger) *Manager {
	return &Manager{records: records, opts: opts, log: log}
}

// Secure reports whether cookies written by this manager carry Secure.
func (m *Manager) Secure() bool { return m.opts.Secure }

// For returns the request's SessionStore, creating it on first use. The store
// is not restored yet; see Restored.
func (m *Manager) For(c echo.Context) *service.SessionStore {
	if s, ok := c.Get(storeContextKey).(*service.SessionStore); ok {
		return s
	}

	clientID := m.clientID(c)
	store := service.NewSessionStore(
		db.Namespace(m.records, "client:"+clientID+":"),
		NewJar(c, m.opts.Secure),
		service.SessionOptions{
			Secure:    m.opts.Secure,
			TTL:       m.opts.TTL,
			ClientKey: clientID,
			Audit:     m.opts.Audit,
		},
		m.log.With().Str("client_key", clientID).Logger(),
	)
	c.Set(storeContextKey, store)
	return store
}

// Restored returns the request's SessionStore after restoration has run.
func (m *Manager) Restored(c echo.Context) *service.SessionStore {
	store := m.For(c)
	if _, done := c.Get(restoredContextKey).(service.RestoreOutcome); done {
		return store
	}
	outcome := store.Restore(c.Request().Context())
	c.Set(restoredContextKey, outcome)
	metrics.SessionRestoresTotal.WithLabelValues(string(outcome)).Inc()
	return store
}

// clientID returns the browser's client id, issuing a new one when the cookie
// is missing or not a UUID.
func (m *Manager) clientID(c echo.Context) string {
	if ck, err := c.Cookie(ClientCookieName); err == nil {
		if id, err := uuid.Parse(ck.Value); err == nil {
			return id.String()
		}
	}

	id := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     ClientCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(clientCookieTTL / time.Second),
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// IdentityContextKey holds the *domain.Identity of an authorized request.
const IdentityContextKey = "identity"
