package dto

import "github.com/notemeet/notemeet/internal/domain/user"

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	Username string  `json:"username,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	Role     string  `json:"role"`
}

// NewUserDTO converts a domain user for API responses
func NewUserDTO(u *user.User) *UserDTO {
	return &UserDTO{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		FullName: u.FullName,
		Role:     u.Role,
	}
}
