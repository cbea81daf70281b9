package user

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrValidation         = errors.New("invalid user input")
	ErrNotLender          = errors.New("only lender accounts can be approved")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Role string

const (
	RoleConsumer Role = "consumer"
	RoleLender   Role = "lender"
	RoleAdmin    Role = "admin"
)

// ParseRole accepts only the three known role literals.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleConsumer, RoleLender, RoleAdmin:
		return r, nil
	}
	return "", ErrValidation
}

// DefaultApproval: lenders wait for an admin, everyone else starts approved.
func DefaultApproval(r Role) bool { return r != RoleLender }

type User struct {
	ID           uint64         `gorm:"primaryKey;column:id" json:"-"`
	UserID       string         `gorm:"size:32;uniqueIndex:ux_users_user_id" json:"id"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	Email        string         `gorm:"size:255;uniqueIndex:ux_users_email" json:"email"`
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	IDNumber     string         `gorm:"size:64" json:"id_number,omitempty"`
	Role         Role           `gorm:"size:16;index:idx_users_role" json:"role"`
	IsApproved   bool           `gorm:"not null" json:"is_approved"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"-"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// Stats is the admin dashboard summary.
type Stats struct {
	TotalUsers       int64 `json:"total_users"`
	TotalConsumers   int64 `json:"total_consumers"`
	TotalLenders     int64 `json:"total_lenders"`
	PendingApprovals int64 `json:"pending_approvals"`
}
