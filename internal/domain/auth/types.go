// Package auth contains domain-level types for authentication, sessions and roles.
// It is pure and free of framework/adapter concerns.
package auth

import "time"

// Identity represents the authenticated principal returned by an IdP.
// Adapters map provider-specific claims into this shape. RawRole carries the
// role claim exactly as the provider shaped it; it is normalized once at login.
type Identity struct {
	UserID    string // stable user identifier (e.g., sub)
	FirstName string
	LastName  string
	Email     string
	RawRole   RawRole
	ExpiresAt time.Time // absolute expiry from IdP token
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier (e.g., random URL-safe string).
// Role is already normalized; RoleUnrecognized is persisted as the empty string.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// HasRole reports whether the session carries a recognized role.
func (s Session) HasRole() bool { return s.Role.Recognized() }

// Actor returns the principal used for ownership checks in services.
func (s Session) Actor() Actor {
	return Actor{UserID: s.UserID, Role: s.Role}
}

// Actor is the minimal principal passed to domain services.
type Actor struct {
	UserID string
	Role   Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
