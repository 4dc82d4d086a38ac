package model

import (
	"time"

	"github.com/google/uuid"
)

// Staff roles.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// Staff is a back-office account. Public submitters never get accounts; only
// foundation staff authenticate.
type Staff struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	Role         string     `json:"role"`
	IsActive     bool       `json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
