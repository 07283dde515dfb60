package auth

import "slices"

// Role is one of the closed set of internal role identifiers used for route
// authorization. The string form is persisted in sessions.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleEmployer  Role = "employer"
	RoleJobSeeker Role = "job_seeker"

	// RoleUnrecognized is the sentinel returned when a raw role cannot be mapped.
	// It never grants access.
	RoleUnrecognized Role = ""
)

// Roles returns the recognized roles from highest to lowest privilege.
func Roles() []Role {
	return []Role{RoleAdmin, RoleEmployer, RoleJobSeeker}
}

// Recognized reports whether r is one of the closed role identifiers.
func (r Role) Recognized() bool {
	switch r {
	case RoleAdmin, RoleEmployer, RoleJobSeeker:
		return true
	default:
		return false
	}
}

// Privilege ranks recognized roles: admin 3, employer 2, job seeker 1.
// Anything else ranks 0.
func (r Role) Privilege() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleEmployer:
		return 2
	case RoleJobSeeker:
		return 1
	default:
		return 0
	}
}

// String returns the persisted form, or "unrecognized" for the sentinel.
func (r Role) String() string {
	if r == RoleUnrecognized {
		return "unrecognized"
	}
	return string(r)
}

// ParseRole maps a persisted role string back to a Role.
// Unknown values yield RoleUnrecognized.
func ParseRole(s string) Role {
	r := Role(s)
	if r.Recognized() {
		return r
	}
	return RoleUnrecognized
}

// Allowed reports whether role may enter a route restricted to allowed.
// Access is granted only when role is recognized and is a member of allowed.
// An unrecognized role is denied for every list, including an empty list and a
// list that itself contains RoleUnrecognized.
func Allowed(role Role, allowed []Role) bool {
	if !role.Recognized() {
		return false
	}
	return slices.Contains(allowed, role)
}
