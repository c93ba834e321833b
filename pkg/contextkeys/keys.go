package contextkeys

// ContextKey is a dedicated type for values stored in gin/request contexts,
// so keys from this package cannot collide with keys from other packages.
type ContextKey string

const (
	// UserIDKey holds the authenticated user's id.
	UserIDKey ContextKey = "userID"

	// UserRoleKey holds the authenticated user's role.
	UserRoleKey ContextKey = "role"

	// RequestIDKey holds the per-request correlation id.
	RequestIDKey ContextKey = "request_id"
)
