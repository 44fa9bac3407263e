package constants

// Context keys set by the auth middleware.
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
)

// Password rules applied at registration and reset.
const (
	MinPasswordLength = 6
	MinUsernameLength = 3
	MaxUsernameLength = 30
)

// Pagination defaults for event listings.
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
