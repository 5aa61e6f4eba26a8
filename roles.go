package session

// Role is the user's role
type Role = string

const (
	// RoleAttendee is a regular user (i.e. view own registrations)
	RoleAttendee Role = "usuario"
	// RoleOrganizer manages events (i.e. view, create, edit events)
	RoleOrganizer Role = "organizador"
	// RoleAdmin manages everything, including users
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is one of the predefined valid roles
func IsValidRole(r Role) bool {
	switch r {
	case RoleAttendee, RoleOrganizer, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanManageEvents checks if this role can create and edit events
func CanManageEvents(r Role) bool {
	switch r {
	case RoleOrganizer, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanManageUsers checks if this role can administer user accounts
func CanManageUsers(r Role) bool {
	return r == RoleAdmin
}

// IsAtLeast checks if the role meets the minimum required level
func IsAtLeast(r, minRole Role) bool {
	roleHierarchy := map[Role]int{
		RoleAttendee:  0,
		RoleOrganizer: 1,
		RoleAdmin:     2,
	}

	currentLevel, exists := roleHierarchy[r]
	if !exists {
		return false
	}

	minLevel, exists := roleHierarchy[minRole]
	if !exists {
		return false
	}

	return currentLevel >= minLevel
}

// AllRoles returns all predefined roles in hierarchical order
func AllRoles() []Role {
	return []Role{
		RoleAttendee,
		RoleOrganizer,
		RoleAdmin,
	}
}

// ParseRole safely parses a string into a Role
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, IsValidRole(role)
}
