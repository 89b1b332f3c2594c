package domain

// Role is the access level carried by an Identity.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Identity models the authenticated principal held by a session.
// The JSON shape is the persisted record format and must round-trip exactly.
type Identity struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar,omitempty"`
	Role     Role   `json:"role"`
	Company  string `json:"company,omitempty"`
	JobTitle string `json:"jobTitle,omitempty"`
}

// Valid reports whether the identity satisfies the record invariant:
// id, email and a known role must all be present.
func (i *Identity) Valid() bool {
	if i == nil {
		return false
	}
	return i.ID != "" && i.Email != "" && i.Role.Valid()
}

// Claim derives the minimal token claim from the identity.
func (i *Identity) Claim() TokenClaim {
	return TokenClaim{ID: i.ID, Email: i.Email}
}
