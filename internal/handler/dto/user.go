// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/recipebox/recipebox/internal/model"
)

// CreateUserRequest represents the request body for registering a user.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// TokenRequest represents the request body for obtaining an auth token.
type TokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse represents a freshly issued auth token. The token is
// returned exactly once; only its hash is stored server-side.
type TokenResponse struct {
	Token string `json:"token"`
}

// UpdateMeRequest represents a partial profile update.
type UpdateMeRequest struct {
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
}

// UserResponse represents a user in API responses. The password hash
// is never exposed.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsStaff   bool      `json:"is_staff"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		IsStaff:   user.IsStaff,
		CreatedAt: user.CreatedAt,
	}
}
