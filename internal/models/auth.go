package models

import "github.com/golang-jwt/jwt/v5"

// UserRole represents the roles issued by the identity provider.
type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPERADMIN"
	RoleAdmin      UserRole = "ADMIN"
	RoleStaff      UserRole = "STAFF"
	RoleTeacher    UserRole = "TEACHER"
	RoleStudent    UserRole = "STUDENT"
	RoleParent     UserRole = "PARENT"
)

// JWTClaims represents the payload of access tokens minted by the hosted
// auth provider. Tokens are only verified here, never issued.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	BranchID string   `json:"branch_id,omitempty"`
	jwt.RegisteredClaims
}

// ActorName is the identity recorded in created_by / modified_by columns.
func (c *JWTClaims) ActorName() string {
	if c == nil {
		return ""
	}
	if c.FullName != "" {
		return c.FullName
	}
	if c.Email != "" {
		return c.Email
	}
	return c.UserID
}

// IsAdmin reports whether the role may act across every branch.
func (r UserRole) IsAdmin() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}
