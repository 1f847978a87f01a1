package dto

import (
	"time"

	"github.com/roadwatch/hazard-service/internal/domain"
)

// SignInRequest is posted by the identity provider gateway.
type SignInRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UserResponse describes the resolved identity.
type UserResponse struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Email   string      `json:"email"`
	Role    domain.Role `json:"role"`
	Points  int         `json:"points"`
	Blocked bool        `json:"blocked"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Role:    user.Role,
		Points:  user.Points,
		Blocked: user.Blocked,
	}
}
