package domain

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// TokenClaim is the minimal claim mirrored into the session token so request-time
// checks can approximate authentication without the identity store.
type TokenClaim struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Authenticated reports whether the claim carries both an id and an email.
func (c TokenClaim) Authenticated() bool {
	return c.ID != "" && c.Email != ""
}

// EncodeToken renders the claim as base64 (standard, padded) JSON.
func EncodeToken(c TokenClaim) string {
	b, _ := json.Marshal(c)
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeToken parses a token value. It never panics. Input that is not base64
// (padded or not) or not JSON yields ErrMalformedToken. Well-formed JSON that
// is not an object, or whose id or email is falsy, decodes to an
// unauthenticated claim.
func DecodeToken(value string) (TokenClaim, error) {
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		var rawErr error
		if raw, rawErr = base64.RawStdEncoding.DecodeString(value); rawErr != nil {
			return TokenClaim{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
		}
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return TokenClaim{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return TokenClaim{}, nil
	}
	return TokenClaim{ID: truthy(obj["id"]), Email: truthy(obj["email"])}, nil
}

// truthy renders a JSON value as a string, or "" when it is falsy.
func truthy(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if !x {
			return ""
		}
	case float64:
		if x == 0 {
			return ""
		}
	}
	return fmt.Sprint(v)
}
