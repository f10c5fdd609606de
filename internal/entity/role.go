package entity

import (
	"context"
	"time"
)

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleWrite UserRole = "write"
	RoleRead  UserRole = "read"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleWrite, RoleRead:
		return true
	}
	return false
}

func (r UserRole) CanWrite() bool {
	return r == RoleWrite || r == RoleAdmin
}

func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

// UserRoleData is the single role record kept per identity.
type UserRoleData struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RoleRepositoryInterface interface {
	FindByUserID(ctx context.Context, userID string) (*UserRoleData, error)
	// Insert fails with ErrRoleAlreadyExists when a record for the same
	// identity is present; the store enforces uniqueness.
	Insert(ctx context.Context, data *UserRoleData) error
}
