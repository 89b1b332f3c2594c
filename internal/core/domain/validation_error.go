package domain

import "strings"

// Issue is a single rule violation for one field.
type Issue struct {
	Path    []string
	Message string
}

// Field returns the dotted path of the offending field.
func (i Issue) Field() string {
	return strings.Join(i.Path, ".")
}

// ValidationError aggregates every rule violation found while validating a value
// or a request payload.
type ValidationError struct {
	Issues []Issue
}

// Error joins every issue message so callers matching on text see all of them.
func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		msgs = append(msgs, is.Message)
	}
	return strings.Join(msgs, "; ")
}

// Fields maps each field path to its first message, which is what a form shows
// next to the input.
func (e *ValidationError) Fields() map[string]string {
	out := make(map[string]string, len(e.Issues))
	for _, is := range e.Issues {
		key := is.Field()
		if _, ok := out[key]; !ok {
			out[key] = is.Message
		}
	}
	return out
}

// FieldErrors maps each field path to all of its messages in rule order.
func (e *ValidationError) FieldErrors() map[string][]string {
	out := make(map[string][]string, len(e.Issues))
	for _, is := range e.Issues {
		key := is.Field()
		out[key] = append(out[key], is.Message)
	}
	return out
}

// Has reports whether any issue was recorded for the given dotted path.
func (e *ValidationError) Has(field string) bool {
	for _, is := range e.Issues {
		if is.Field() == field {
			return true
		}
	}
	return false
}

// Prefix nests every issue under parent, e.g. "password" becomes "credentials.password".
func (e *ValidationError) Prefix(parent ...string) *ValidationError {
	out := &ValidationError{Issues: make([]Issue, 0, len(e.Issues))}
	for _, is := range e.Issues {
		path := make([]string, 0, len(parent)+len(is.Path))
		path = append(path, parent...)
		path = append(path, is.Path...)
		out.Issues = append(out.Issues, Issue{Path: path, Message: is.Message})
	}
	return out
}

// Unwrap exposes the auth failure kinds present so errors.Is(err, ErrWeakPassword)
// and friends work on an aggregated failure.
func (e *ValidationError) Unwrap() []error {
	var errs []error
	seen := make(map[error]bool)
	for _, is := range e.Issues {
		if len(is.Path) == 0 {
			continue
		}
		var kind error
		switch is.Path[len(is.Path)-1] {
		case "email":
			kind = ErrInvalidEmail
		case "password":
			kind = ErrWeakPassword
		case "name":
			kind = ErrInvalidName
		}
		if kind != nil && !seen[kind] {
			seen[kind] = true
			errs = append(errs, kind)
		}
	}
	return errs
}
