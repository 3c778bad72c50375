package auth

import (
	"time"

	"github.com/cadence-hr/cadence/internal/access"
)

// User represents an authenticated user account.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CompanyAccess is one company a user can sign in to, with their role.
type CompanyAccess struct {
	CompanyID   int64
	CompanyName string
	Role        access.Role
}
