package auth

// Package auth contains domain-level types for identity and sessions.
// It is pure and free of framework/adapter concerns.

// Role represents an application's authorization role.
// The string values are the backend's wire tokens and appear verbatim in
// persisted session JSON; renaming one requires a translation layer.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleEmployer  Role = "ISVEREN"
	RoleJobSeeker Role = "IS_ARAYAN"
)

// Known reports whether r is one of the defined role tokens.
// Unrecognized tokens are treated as guest at every guard site.
func (r Role) Known() bool {
	switch r {
	case RoleAdmin, RoleEmployer, RoleJobSeeker:
		return true
	}
	return false
}

// Session is the authenticated identity persisted across app restarts.
// Guest is the absence of a Session, never a stored marker value.
// JSON tags match the backend's user payload.
type Session struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"adSoyad"`
	Phone    string `json:"telefon"`
	Role     Role   `json:"rol"`
}

// IsAdmin returns true if the session role is admin.
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

// ActingRole resolves the role a (possibly absent) session acts under.
// It returns ok=false for guests, which includes sessions carrying an
// unrecognized role token.
func ActingRole(s *Session) (Role, bool) {
	if s == nil || !s.Role.Known() {
		return "", false
	}
	return s.Role, true
}
