package dto

import (
	"time"

	"github.com/yigit/elearning/internal/app/models"
)

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Username  string          `json:"username" form:"username" binding:"required,min=3,max=30"`
	Email     string          `json:"email" form:"email" binding:"required,email"`
	Password  string          `json:"password" form:"password" binding:"required,min=8"`
	FirstName string          `json:"firstName" form:"firstName" binding:"max=150"`
	LastName  string          `json:"lastName" form:"lastName" binding:"max=150"`
	RoleType  models.RoleType `json:"roleType" form:"roleType" binding:"required,oneof=TEACHER STUDENT"`
}

// UpdateProfileRequest represents profile update data
type UpdateProfileRequest struct {
	FirstName string `json:"firstName" form:"firstName" binding:"max=150"`
	LastName  string `json:"lastName" form:"lastName" binding:"max=150"`
	Email     string `json:"email" form:"email" binding:"required,email"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewUserResponse maps a user onto its public shape
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        string(u.RoleType),
		Permissions: models.PermissionsFor(u.RoleType),
		CreatedAt:   u.CreatedAt,
	}
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}
