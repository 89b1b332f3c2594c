package service

import (
	"context"
	"net/http"

	"github.com/modela/identity-gateway/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubKV struct {
	data    map[string]string
	getErr  error
	setErr  error
	delErr  error
	sets    int
	deletes int
}

func newStubKV() *stubKV {
	return &stubKV{data: make(map[string]string)}
}

func (s *stubKV) Get(_ context.Context, key string) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	v, ok := s.data[key]
	if !ok {
		return "", domain.ErrRecordNotFound
	}
	return v, nil
}

func (s *stubKV) Set(_ context.Context, key, value string) error {
	s.sets++
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = value
	return nil
}

func (s *stubKV) Delete(_ context.Context, key string) error {
	s.deletes++
	if s.delErr != nil {
		return s.delErr
	}
	delete(s.data, key)
	return nil
}

type stubJar struct {
	cookies map[string]*http.Cookie
	setErr  error
	delErr  error
}

func newStubJar() *stubJar {
	return &stubJar{cookies: make(map[string]*http.Cookie)}
}

func (j *stubJar) Get(name string) (string, bool) {
	c, ok := j.cookies[name]
	if !ok {
		return "", false
	}
	return c.Value, true
}

func (j *stubJar) Set(c *http.Cookie) error {
	if j.setErr != nil {
		return j.setErr
	}
	j.cookies[c.Name] = c
	return nil
}

func (j *stubJar) Delete(name string) error {
	if j.delErr != nil {
		return j.delErr
	}
	delete(j.cookies, name)
	return nil
}

type recordingAudit struct {
	events []domain.AuditEvent
}

func (a *recordingAudit) Record(ev domain.AuditEvent) {
	a.events = append(a.events, ev)
}

type recordingNav struct {
	paths []string
}

func (n *recordingNav) Navigate(path string) {
	n.paths = append(n.paths, path)
}
