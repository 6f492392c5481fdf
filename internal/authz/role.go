// Package authz implements the tenant-wide authorization engine: the
// capability vocabulary, the role permission matrices, the subject
// resolver and the guards that gate every mutating route.
package authz

// Role is the tenant-wide classification of a user.
type Role string

// Tenant roles, from most to least privileged by convention. The
// ordering is not structurally enforced; the matrix tests pin it.
const (
	RoleOwner   Role = "OWNER"
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleUser    Role = "USER"
)

// Roles lists every tenant role.
func Roles() []Role {
	return []Role{RoleOwner, RoleAdmin, RoleManager, RoleUser}
}

// Valid reports whether r is a known tenant role.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleManager, RoleUser:
		return true
	default:
		return false
	}
}

// ProjectRole classifies a user's membership within a single project.
// It exists only while the membership row exists and can locally
// override tenant-wide capabilities.
type ProjectRole string

const (
	ProjectRoleOwner   ProjectRole = "OWNER"
	ProjectRoleManager ProjectRole = "MANAGER"
	ProjectRoleMember  ProjectRole = "MEMBER"
	ProjectRoleViewer  ProjectRole = "VIEWER"
)

// ProjectRoles lists every project role.
func ProjectRoles() []ProjectRole {
	return []ProjectRole{ProjectRoleOwner, ProjectRoleManager, ProjectRoleMember, ProjectRoleViewer}
}

// Valid reports whether p is a known project role.
func (p ProjectRole) Valid() bool {
	switch p {
	case ProjectRoleOwner, ProjectRoleManager, ProjectRoleMember, ProjectRoleViewer:
		return true
	default:
		return false
	}
}
