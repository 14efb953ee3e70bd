package models

import "strings"

// Role determines what a member is allowed to do within an event.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleMember Role = "member"
	RoleViewer Role = "viewer"
)

// Permissions a role grants. "manage" covers destructive event-level
// operations (delete event, remove members, change roles) and is held by
// owners only.
const (
	PermRead   = "read"
	PermWrite  = "write"
	PermInvite = "invite"
	PermManage = "manage"
)

var rolePermissions = map[Role][]string{
	RoleOwner:  {PermRead, PermWrite, PermInvite, PermManage},
	RoleAdmin:  {PermRead, PermWrite, PermInvite},
	RoleEditor: {PermRead, PermWrite},
	RoleMember: {PermRead, PermWrite},
	RoleViewer: {PermRead},
}

// PermissionsForRole returns the permission set a role grants.
// Unknown roles fall back to viewer permissions.
func PermissionsForRole(role Role) []string {
	perms, ok := rolePermissions[role]
	if !ok {
		perms = rolePermissions[RoleViewer]
	}
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role Role) bool {
	_, ok := rolePermissions[role]
	return ok
}

// Member represents a person associated with one event.
// The member's ID is the map key under events/{eventID}/members, either a
// user ID or a locally assigned ID for guests without accounts.
type Member struct {
	// Name is the member's display name.
	Name string `json:"name"`

	// Email is optional; guests added by hand may not have one.
	Email string `json:"email,omitempty"`

	// Role controls the member's permission set.
	Role Role `json:"role"`

	// Permissions is the permission set derived from Role, denormalized
	// into the stored record the way the original documents carry it.
	Permissions []string `json:"permissions"`

	// JoinedAt is the Unix timestamp when the member joined the event.
	JoinedAt int64 `json:"joinedAt"`
}

// Can reports whether the member's permission set includes perm.
func (m *Member) Can(perm string) bool {
	for _, p := range m.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

func emailLocalPart(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}
