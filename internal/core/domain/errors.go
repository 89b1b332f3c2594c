package domain

import "errors"

// Auth failures. A ValidationError matches the field-specific ones through errors.Is.
var (
	ErrInvalidEmail       = errors.New("invalid email")
	ErrWeakPassword       = errors.New("password does not meet policy")
	ErrInvalidName        = errors.New("invalid name")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Unexpected failures surfaced by the credential flow with a stable message.
var (
	ErrLoginFailed        = errors.New("An unexpected error occurred during login")
	ErrRegistrationFailed = errors.New("An unexpected error occurred during registration")
)

var (
	// ErrSessionPersist is returned by the session store when the identity record
	// or its token could not be written.
	ErrSessionPersist = errors.New("session: unable to persist identity")
	// ErrRecordNotFound is returned by key-value stores for a missing key.
	ErrRecordNotFound = errors.New("record not found")
	// ErrMalformedToken is returned when a token value cannot be decoded.
	ErrMalformedToken = errors.New("malformed session token")
)
