package domain

import (
	"encoding/base64"
	"errors"
	"testing"
)

func TestToken_EncodeDecode(t *testing.T) {
	id := &Identity{ID: "user_1", Email: "jane@example.com", Role: RoleUser}

	token := EncodeToken(id.Claim())
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		t.Fatalf("expected standard base64, got %v", err)
	}
	if string(raw) != `{"id":"user_1","email":"jane@example.com"}` {
		t.Fatalf("unexpected token payload %s", raw)
	}

	claim, err := DecodeToken(token)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !claim.Authenticated() || claim.ID != "user_1" {
		t.Fatalf("unexpected claim %+v", claim)
	}
}

func TestDecodeToken_Malformed(t *testing.T) {
	inputs := []string{
		"not base64!!",
		base64.StdEncoding.EncodeToString([]byte("not json")),
		"",
	}
	for _, in := range inputs {
		if _, err := DecodeToken(in); !errors.Is(err, ErrMalformedToken) {
			t.Errorf("%q: expected ErrMalformedToken, got %v", in, err)
		}
	}
}

func TestDecodeToken_NonObjectJSONIsUnauthenticated(t *testing.T) {
	for _, payload := range []string{`[1,2,3]`, `null`, `"jane"`, `42`, `{"id":0,"email":false}`} {
		claim, err := DecodeToken(base64.StdEncoding.EncodeToString([]byte(payload)))
		if err != nil {
			t.Fatalf("%s: expected a well-formed token, got %v", payload, err)
		}
		if claim.Authenticated() {
			t.Fatalf("%s: must not authenticate", payload)
		}
	}
}

func TestDecodeToken_AcceptsUnpaddedBase64(t *testing.T) {
	token := base64.RawStdEncoding.EncodeToString([]byte(`{"id":"u1","email":"a@b.co"}`))
	claim, err := DecodeToken(token)
	if err != nil {
		t.Fatalf("expected unpadded token to decode, got %v", err)
	}
	if !claim.Authenticated() || claim.Email != "a@b.co" {
		t.Fatalf("unexpected claim %+v", claim)
	}
}

func TestDecodeToken_NonStringFieldsAreTruthy(t *testing.T) {
	claim, err := DecodeToken(base64.StdEncoding.EncodeToString([]byte(`{"id":7,"email":"a@b.co"}`)))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if claim.ID != "7" || !claim.Authenticated() {
		t.Fatalf("unexpected claim %+v", claim)
	}
}

func TestDecodeToken_MissingFieldsIsUnauthenticated(t *testing.T) {
	claim, err := DecodeToken(base64.StdEncoding.EncodeToString([]byte(`{"id":"user_1"}`)))
	if err != nil {
		t.Fatalf("expected a well-formed token, got %v", err)
	}
	if claim.Authenticated() {
		t.Fatalf("claim without email must not authenticate")
	}
}

func TestIdentity_Valid(t *testing.T) {
	cases := []struct {
		id   *Identity
		want bool
	}{
		{nil, false},
		{&Identity{}, false},
		{&Identity{ID: "u", Email: "e@x.io"}, false},
		{&Identity{ID: "u", Email: "e@x.io", Role: "owner"}, false},
		{&Identity{ID: "u", Email: "e@x.io", Role: RoleAdmin}, true},
	}
	for i, tc := range cases {
		if got := tc.id.Valid(); got != tc.want {
			t.Errorf("case %d: expected %v, got %v", i, tc.want, got)
		}
	}
}
