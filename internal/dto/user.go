package dto

import (
	"time"

	dom "github.com/vishnucprasad/gotodo-server/internal/domain"
)

// SignupRequest is the JSON body for POST /auth/local/signup.
type SignupRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=120"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SigninRequest is the JSON body for POST /auth/local/signin.
type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// EditUserRequest is the JSON body for PATCH /auth/user/edit.
type EditUserRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=120"`
	Email *string `json:"email" binding:"omitempty,email"`
}

// ChangePasswordRequest is the JSON body for PATCH /auth/user/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// TokensResponse carries a freshly minted token pair.
type TokensResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// UserResponse is the public view of a user. Password and
// refresh-token hashes never appear here.
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserResponse maps a domain user to its public view.
func NewUserResponse(u dom.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
