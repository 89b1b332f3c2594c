package domain

import "time"

// Audit event types.
const (
	AuditLogin            = "login"
	AuditRegister         = "register"
	AuditLogout           = "logout"
	AuditSessionDiscarded = "session_discarded"
)

// AuditEvent records one identity lifecycle step for diagnostics.
type AuditEvent struct {
	Type      string    `json:"type"`
	ClientKey string    `json:"client_key,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	Email     string    `json:"email,omitempty"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
