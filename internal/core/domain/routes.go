package domain

// Navigation targets shared by the credential flow and both guards.
const (
	HomePath      = "/"
	DashboardPath = "/dashboard"
	LoginPath     = "/auth/login"
	RegisterPath  = "/auth/register"
)

// Names of the persisted artifacts.
const (
	IdentityRecordKey = "modela_user"
	TokenCookieName   = "modela_auth_token"
)
