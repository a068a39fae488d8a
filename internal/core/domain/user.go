package domain

import "slices"

// Role is an opaque, exactly-compared role identifier issued by the backend.
type Role string

const (
	RoleAdmin     Role = "ROLE_ADMIN"
	RoleModerator Role = "ROLE_MODERATOR"
	RoleUser      Role = "ROLE_USER"
)

// UserProfile is the signed-in operator as returned by the login endpoint.
type UserProfile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Roles    []Role `json:"roles"`
}

// HasRole reports whether role is one of the profile's roles.
func (u *UserProfile) HasRole(role Role) bool {
	if u == nil {
		return false
	}
	return slices.Contains(u.Roles, role)
}

// Clone returns a deep copy so callers can never mutate session state.
func (u *UserProfile) Clone() *UserProfile {
	if u == nil {
		return nil
	}
	c := *u
	c.Roles = slices.Clone(u.Roles)
	return &c
}

// Credentials are passed to the backend as typed; the console does not validate them.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Session is the authenticated-user context of the console.
type Session struct {
	Token string
	User  *UserProfile
}

// Authenticated reports whether both halves of the session are present.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.User != nil
}
