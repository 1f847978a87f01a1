package domain

import "time"

// Session describes an issued session token.
type Session struct {
	Token     string
	UserID    string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ExternalIdentity is what the identity-provider gateway asserts at sign-in.
type ExternalIdentity struct {
	Email    string
	Name     string
	Provider string
}
