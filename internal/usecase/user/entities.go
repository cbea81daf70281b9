package user

import (
	"time"

	"creditbureau-backend/internal/domain/user"
)

// UserDTO is a user as admins and lenders see it; the password hash never leaves the domain.
type UserDTO struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	IDNumber   string    `json:"id_number,omitempty"`
	Role       string    `json:"role"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}

func ToUserDTO(u *user.User) UserDTO {
	return UserDTO{
		ID:         u.UserID,
		Name:       u.Name,
		Email:      u.Email,
		IDNumber:   u.IDNumber,
		Role:       string(u.Role),
		IsApproved: u.IsApproved,
		CreatedAt:  u.CreatedAt,
	}
}

func toUserDTOs(us []user.User) []UserDTO {
	out := make([]UserDTO, 0, len(us))
	for i := range us {
		out = append(out, ToUserDTO(&us[i]))
	}
	return out
}

type SearchInput struct {
	Email string
	Role  string
}
