package types

import (
	"github.com/golang-jwt/jwt/v5"

	"volunteer-match-server/models"
)

// Claims represents the JWT claims
type Claims struct {
	UserID uint            `json:"user_id"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller of one request. It is built by the
// auth middleware from a verified token and the current user row.
type Principal struct {
	UserID uint
	Name   string
	Email  string
	Role   models.UserRole
}

func NewPrincipal(u *models.User) Principal {
	return Principal{UserID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func (p Principal) IsAdmin() bool { return p.Role == models.RoleAdmin }

func (p Principal) IsCSR() bool { return p.Role == models.RoleCSR }

// IsManager is true for platform managers and admins.
func (p Principal) IsManager() bool {
	return p.Role == models.RolePlatformManager || p.Role == models.RoleAdmin
}

// HasRole reports whether the principal holds one of roles.
func (p Principal) HasRole(roles ...models.UserRole) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
