package models

// UserRole represents valid user roles
type UserRole string

const (
	UserRoleUser       UserRole = "user"
	UserRoleAdmin      UserRole = "admin"
	UserRoleSuperAdmin UserRole = "super_admin"
)

// CanModerate reports whether the role carries moderation capability.
// This mapping lives at the identity boundary; the core only ever sees
// the Viewer.CanModerate flag, never a role string.
func (r UserRole) CanModerate() bool {
	return r == UserRoleAdmin || r == UserRoleSuperAdmin
}

// UserRef is the identity-provider view of a caller.
type UserRef struct {
	ID   string   `json:"id"`
	Role UserRole `json:"role"`
}

// Viewer is who a read or write operation runs as. The zero value is an
// anonymous reader.
type Viewer struct {
	ID          string `json:"id"`
	CanModerate bool   `json:"can_moderate"`
}

// Anonymous reports whether the viewer is unauthenticated.
func (v Viewer) Anonymous() bool {
	return v.ID == ""
}

// ViewerFor maps an identity-provider user into a core viewer.
func ViewerFor(u UserRef) Viewer {
	return Viewer{ID: u.ID, CanModerate: u.Role.CanModerate()}
}
