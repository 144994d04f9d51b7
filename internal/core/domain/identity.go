package domain

import "time"

// TokenClaims is the verified content of a session token.
type TokenClaims struct {
	UserID    string
	Role      Role
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AuthenticatedIdentity is the request-scoped view of the caller. Role is the
// role currently stored for the user, which may differ from TokenRole when an
// admin changed it after the token was minted.
type AuthenticatedIdentity struct {
	UserID    string
	Role      Role
	TokenRole Role
	IssuedAt  time.Time
	ExpiresAt time.Time
	User      *User
}

// HasRole reports whether the identity holds any of roles.
func (id AuthenticatedIdentity) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if id.Role == r {
			return true
		}
	}
	return false
}
