package dto

import (
	"github.com/camphub/campus-events-api/internal/auth"
	"github.com/camphub/campus-events-api/internal/models"
)

// UserDTO represents a user in auth responses
type UserDTO struct {
	ID       uint64          `json:"id"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Role     models.UserRole `json:"role"`
}

// UserSummaryDTO is the identity subset embedded in hydrated events. It never
// carries credentials or roles.
type UserSummaryDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AuthResponse bundles a user with a freshly issued token pair
type AuthResponse struct {
	User         UserDTO `json:"user"`
	AccessToken  string  `json:"accessToken"`
	RefreshToken string  `json:"refreshToken"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
}

// ToUserSummaryDTO converts a User model to UserSummaryDTO
func ToUserSummaryDTO(user models.User) UserSummaryDTO {
	return UserSummaryDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

// ToAuthResponse builds an AuthResponse from a user and token pair
func ToAuthResponse(user models.User, pair auth.TokenPair) AuthResponse {
	return AuthResponse{
		User:         ToUserDTO(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
}
