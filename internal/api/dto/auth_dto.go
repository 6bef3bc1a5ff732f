package dto

import "github.com/spec-kit/user-directory/internal/domain"

// LoginRequest payload for authentication.
type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// AuthResponse returns the profile and its bearer token together.
type AuthResponse struct {
	Profile domain.UserProfile `json:"profile"`
	Token   string             `json:"token"`
}
