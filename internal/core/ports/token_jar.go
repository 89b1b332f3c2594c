package ports

import "net/http"

// TokenJar is the cookie-like slot the session token lives in.
type TokenJar interface {
	// Get returns the current value of the named cookie, if any.
	Get(name string) (string, bool)
	Set(c *http.Cookie) error
	Delete(name string) error
}

// Navigator issues client navigations.
type Navigator interface {
	Navigate(path string)
}
