package session

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/modela/identity-gateway/internal/core/ports"
)

// Jar is a ports.TokenJar over the cookies of one echo request. Writes are
// visible to later reads in the same request, and only the last write per
// cookie name reaches the response.
type Jar struct {
	c      echo.Context
	secure bool

	mu      sync.Mutex
	pending map[string]*http.Cookie
}

var _ ports.TokenJar = (*Jar)(nil)

func NewJar(c echo.Context, secure bool) *Jar {
	return &Jar{c: c, secure: secure, pending: make(map[string]*http.Cookie)}
}

func (j *Jar) Get(name string) (string, bool) {
	j.mu.Lock()
	p, ok := j.pending[name]
	j.mu.Unlock()
	if ok {
		if p.MaxAge < 0 {
			return "", false
		}
		return p.Value, true
	}

	ck, err := j.c.Cookie(name)
	if err != nil {
		return "", false
	}
	return ck.Value, true
}

func (j *Jar) Set(ck *http.Cookie) error {
	j.write(ck)
	return nil
}

func (j *Jar) Delete(name string) error {
	j.write(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   j.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (j *Jar) write(ck *http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.pending[ck.Name] = ck

	h := j.c.Response().Header()
	prefix := ck.Name + "="
	kept := make([]string, 0, len(h.Values(echo.HeaderSetCookie)))
	for _, v := range h.Values(echo.HeaderSetCookie) {
		if !strings.HasPrefix(v, prefix) {
			kept = append(kept, v)
		}
	}
	h.Del(echo.HeaderSetCookie)
	for _, v := range kept {
		h.Add(echo.HeaderSetCookie, v)
	}
	j.c.SetCookie(ck)
}
