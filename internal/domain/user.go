package domain

import "time"

// Role is the authorization tag carried by every user.
type Role string

const (
	RoleDriver    Role = "DRIVER"
	RoleModerator Role = "MODERATOR"
	RoleAdmin     Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleDriver, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// User is an actor resolved from an external identity provider.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	Points    int
	Blocked   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserSummary is the owner projection attached to moderator listings.
type UserSummary struct {
	ID    string
	Name  string
	Email string
}
