package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/modela/identity-gateway/internal/api/session"
	"github.com/modela/identity-gateway/internal/core/domain"
	"github.com/modela/identity-gateway/internal/core/ports"
	"github.com/modela/identity-gateway/internal/core/service"
	"github.com/modela/identity-gateway/internal/core/validation"
)

type stubFlow struct {
	loginFn    func(ctx context.Context, email, password string) (*ports.Outcome, error)
	registerFn func(ctx context.Context, name, email, password string) (*ports.Outcome, error)
	logouts    int
}

func (s *stubFlow) Login(ctx context.Context, email, password string) (*ports.Outcome, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubFlow) Register(ctx context.Context, name, email, password string) (*ports.Outcome, error) {
	return s.registerFn(ctx, name, email, password)
}

func (s *stubFlow) Logout(context.Context) string {
	s.logouts++
	return domain.HomePath
}

type stubSession struct {
	current   *domain.Identity
	loading   bool
	hasRecord bool
}

func (s *stubSession) Current() (*domain.Identity, bool) { return s.current, s.current != nil }
func (s *stubSession) Loading() bool                     { return s.loading }
func (s *stubSession) HasRecord(context.Context) bool    { return s.hasRecord }

type stubBinder struct {
	flow    *stubFlow
	session *stubSession
}

func (b *stubBinder) Flow(echo.Context) ports.CredentialFlow { return b.flow }
func (b *stubBinder) Session(echo.Context) SessionView       { return b.session }

var jane = &domain.Identity{ID: "user_1", Name: "jane", Email: "jane@example.com", Role: domain.RoleAdmin}

func postJSON(target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	flow := &stubFlow{
		loginFn: func(ctx context.Context, email, password string) (*ports.Outcome, error) {
			if email != "jane@example.com" || password != "Passw0rd!" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.Outcome{Identity: jane, Redirect: service.LoginTarget(service.RedirectFrom(ctx))}, nil
		},
	}
	handler := NewAuthHandler(&stubBinder{flow: flow})

	c, rec := postJSON("/api/auth/login?redirect=/settings", `{"email":"jane@example.com","password":"Passw0rd!"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["redirect"] != "/settings" {
		t.Fatalf("expected redirect /settings, got %v", resp["redirect"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["email"] != "jane@example.com" || user["role"] != "admin" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
}

func TestAuthHandler_Login_RedirectFromBody(t *testing.T) {
	var got string
	flow := &stubFlow{
		loginFn: func(ctx context.Context, email, password string) (*ports.Outcome, error) {
			got = service.RedirectFrom(ctx)
			return &ports.Outcome{Identity: jane, Redirect: got}, nil
		},
	}
	handler := NewAuthHandler(&stubBinder{flow: flow})

	c, _ := postJSON("/api/auth/login", `{"email":"jane@example.com","password":"Passw0rd!","redirect":"/compare"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got != "/compare" {
		t.Fatalf("expected body redirect to reach the flow, got %q", got)
	}
}

func TestAuthHandler_Login_ValidationFailure(t *testing.T) {
	flow := &stubFlow{
		loginFn: func(ctx context.Context, email, password string) (*ports.Outcome, error) {
			_, err := validation.ValidateLogin(validation.LoginInput{Email: email, Password: password})
			return nil, err
		},
	}
	handler := NewAuthHandler(&stubBinder{flow: flow})

	c, rec := postJSON("/api/auth/login", `{"email":"not-an-email","password":"Passw0rd!"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp validationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Fields["email"] != "Invalid email format" {
		t.Fatalf("unexpected fields: %+v", resp.Fields)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	flow := &stubFlow{
		loginFn: func(context.Context, string, string) (*ports.Outcome, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(&stubBinder{flow: flow})

	c, rec := postJSON("/api/auth/login", `{"email":"jane@example.com","password":"Passw0rd!"}`)
	_ = handler.Login(c)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_UnexpectedFailure(t *testing.T) {
	flow := &stubFlow{
		loginFn: func(context.Context, string, string) (*ports.Outcome, error) {
			return nil, domain.ErrLoginFailed
		},
	}
	handler := NewAuthHandler(&stubBinder{flow: flow})

	c, rec := postJSON("/api/auth/login", `{"email":"jane@example.com","password":"Passw0rd!"}`)
	_ = handler.Login(c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "An unexpected error occurred during login") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestAuthHandler_Login_UnknownErrorIsReturned(t *testing.T) {
	boom := errors.New("boom")
	flow := &stubFlow{
		loginFn: func(context.Context, string, string) (*ports.Outcome, error) { return nil, boom },
	}
	handler := NewAuthHandler(&stubBinder{flow: flow})

	c, _ := postJSON("/api/auth/login", `{"email":"jane@example.com","password":"Passw0rd!"}`)
	if err := handler.Login(c); !errors.Is(err, boom) {
		t.Fatalf("expected error to reach the error handler, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	flow := &stubFlow{
		loginFn: func(context.Context, string, string) (*ports.Outcome, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(&stubBinder{flow: flow})

	c, rec := postJSON("/api/auth/login", "not-json")
	_ = handler.Login(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	flow := &stubFlow{
		registerFn: func(ctx context.Context, name, email, password string) (*ports.Outcome, error) {
			if name != "Jane Doe" {
				t.Fatalf("unexpected name %q", name)
			}
			return &ports.Outcome{
				Identity: &domain.Identity{ID: "user_2", Name: name, Email: email, Role: domain.RoleUser},
				Redirect: domain.DashboardPath,
			}, nil
		},
	}
	handler := NewAuthHandler(&stubBinder{flow: flow})

	c, rec := postJSON("/api/auth/register", `{"name":"Jane Doe","email":"jane@example.com","password":"Passw0rd!"}`)
	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"redirect":"/dashboard"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestAuthHandler_Register_WeakPassword(t *testing.T) {
	flow := &stubFlow{
		registerFn: func(ctx context.Context, name, email, password string) (*ports.Outcome, error) {
			_, err := validation.ValidateRegister(validation.RegisterInput{Name: name, Email: email, Password: password})
			return nil, err
		},
	}
	handler := NewAuthHandler(&stubBinder{flow: flow})

	c, rec := postJSON("/api/auth/register", `{"name":"Jane Doe","email":"jane@example.com","password":"abc"}`)
	_ = handler.Register(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp validationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Fields["password"] != "Password must be at least 8 characters long" {
		t.Fatalf("unexpected password message %q", resp.Fields["password"])
	}
	if _, ok := resp.Fields["email"]; ok {
		t.Fatalf("valid email must not be reported")
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	flow := &stubFlow{}
	handler := NewAuthHandler(&stubBinder{flow: flow})

	c, rec := postJSON("/api/auth/logout", "")
	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if flow.logouts != 1 || rec.Code != http.StatusOK {
		t.Fatalf("expected one logout and 200, got %d %d", flow.logouts, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"redirect":"/"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestAuthHandler_Session(t *testing.T) {
	handler := NewAuthHandler(&stubBinder{session: &stubSession{current: jane}})

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/auth/session", nil), rec)
	if err := handler.Session(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Authenticated || resp.User == nil || resp.User.ID != "user_1" {
		t.Fatalf("unexpected session payload: %+v", resp)
	}
}

func TestAuthHandler_Debug(t *testing.T) {
	handler := NewAuthHandler(&stubBinder{session: &stubSession{hasRecord: true}})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/debug", nil)
	req.AddCookie(&http.Cookie{Name: domain.TokenCookieName, Value: "x"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := handler.Debug(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp debugResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.CookieExists || !resp.RecordExists || resp.IsAuthenticated {
		t.Fatalf("unexpected debug payload: %+v", resp)
	}
}

func TestPageHandler_ProtectedRequiresIdentity(t *testing.T) {
	h := NewPageHandler()
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/dashboard", nil), rec)
	if err := h.SessionPage("Dashboard")(c); err == nil {
		t.Fatalf("expected error without identity")
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/dashboard", nil), rec)
	c.Set(session.IdentityContextKey, jane)
	if err := h.SessionPage("Dashboard")(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"page":"Dashboard"`) || !strings.Contains(rec.Body.String(), "jane@example.com") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}
