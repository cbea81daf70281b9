package auth

import (
	"creditbureau-backend/internal/usecase/user"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	IDNumber string
	Role     string
}

type LoginInput struct {
	Email    string
	Password string
}

// Session is what register and login hand back to the client.
type Session struct {
	Token string       `json:"token"`
	User  user.UserDTO `json:"user"`
}
