package dto

import (
	"time"

	"studymate/internal/microservices/http-api/models"
)

// Data Transfer Objects for authentication requests and responses

// RegisterRequest: payload for user registration
type RegisterRequest struct {
	Username   string `json:"username" binding:"required,min=3,max=50"`
	Password   string `json:"password" binding:"required,min=8"`
	Name       string `json:"name" binding:"required,max=100"`
	Profession string `json:"profession" binding:"required,max=100"`
}

// LoginRequest: payload for user login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse: response payload after successful authentication
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"` // always "Bearer"
	ExpiresIn   int64        `json:"expires_in"` // seconds
	User        UserResponse `json:"user"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Name       string    `json:"name"`
	Profession string    `json:"profession"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

func FromUser(user *models.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		Name:       user.Name,
		Profession: user.Profession,
		Role:       user.Role,
		CreatedAt:  user.CreatedAt,
	}
}
