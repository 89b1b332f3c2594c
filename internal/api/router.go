package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/modela/identity-gateway/docs"
	"github.com/modela/identity-gateway/internal/api/handler"
	"github.com/modela/identity-gateway/internal/api/middleware"
	"github.com/modela/identity-gateway/internal/api/session"
	"github.com/modela/identity-gateway/internal/core/domain"
	"github.com/modela/identity-gateway/internal/core/ports"
	"github.com/modela/identity-gateway/internal/core/service"
	"github.com/modela/identity-gateway/internal/core/validation"
	"github.com/modela/identity-gateway/internal/infrastructure/db"
	healthhandlers "github.com/modela/identity-gateway/internal/infrastructure/http/handlers"
	"github.com/modela/identity-gateway/internal/pkg/config"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Config  *config.Config
	Records db.Store
	Backend ports.IdentityBackend
	Audit   ports.AuditSink
	Log     zerolog.Logger
	// Registerer receives the HTTP metrics. Defaults to the global registry.
	Registerer prometheus.Registerer
}

// sessionBinder hands each request its own session store and credential flow.
type sessionBinder struct {
	manager   *session.Manager
	backend   ports.IdentityBackend
	validator *validation.Engine
	audit     ports.AuditSink
	log       zerolog.Logger
}

func (b *sessionBinder) Flow(c echo.Context) ports.CredentialFlow {
	return service.NewCredentialFlow(b.manager.For(c), b.backend, b.validator, b.audit, b.log)
}

func (b *sessionBinder) Session(c echo.Context) handler.SessionView {
	return b.manager.Restored(c)
}

var publicPages = map[string]string{
	"/":            "Home",
	"/marketplace": "Marketplace",
	"/models":      "Models",
	"/solutions":   "Solutions",
	"/blog":        "Blog",
	"/tutorials":   "Tutorials",
	"/pricing":     "Pricing",
	"/community":   "Community",
}

// Protected by the edge guard only.
var memberPages = map[string]string{
	"/list-model": "List a model",
	"/compare":    "Compare models",
	"/contact":    "Contact",
	"/docs":       "Documentation",
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	cfg := deps.Config
	if deps.Audit == nil {
		deps.Audit = service.NopAudit{}
	}
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "modela",
		Registerer: deps.Registerer,
	}))
	e.Use(middleware.RouteGuard(middleware.RouteGuardConfig{
		Secure: cfg.SecureCookies(),
		Log:    deps.Log,
	}))

	// --- Dependencies ---
	manager := session.NewManager(deps.Records, session.Options{
		Secure: cfg.SecureCookies(),
		TTL:    cfg.Session.TTL,
		Audit:  deps.Audit,
	}, deps.Log)
	authHandler := handler.NewAuthHandler(&sessionBinder{
		manager:   manager,
		backend:   deps.Backend,
		validator: validation.Default(),
		audit:     deps.Audit,
		log:       deps.Log,
	})
	pages := handler.NewPageHandler()

	// --- Auth API ---
	auth := e.Group("/api/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/register", authHandler.Register)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/session", authHandler.Session)
	if cfg.IsDevelopment() {
		auth.GET("/debug", authHandler.Debug)
	}

	// --- Pages ---
	for path, title := range publicPages {
		e.GET(path, pages.Page(title))
		if path != domain.HomePath {
			e.GET(path+"/*", pages.Page(title))
		}
	}
	e.GET(domain.LoginPath, pages.Page("Sign in"))
	e.GET(domain.RegisterPath, pages.Page("Create account"))
	for path, title := range memberPages {
		e.GET(path, pages.Page(title))
	}

	dashboard := e.Group(domain.DashboardPath, middleware.RequireSession(manager))
	dashboard.GET("", pages.SessionPage("Dashboard"))
	dashboard.GET("/*", pages.SessionPage("Dashboard"))

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := healthhandlers.NewHealthHandler()
	healthDepsHandler := healthhandlers.NewHealthDependenciesHandler(map[string]ports.Pinger{
		"identity_store": deps.Records,
	})

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
