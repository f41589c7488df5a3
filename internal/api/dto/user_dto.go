package dto

import (
	"time"

	"github.com/fricdix/bi-dashboard/internal/domain"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest payload for self-service registration.
type RegisterRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// SessionPayload is the immediate UI-branching payload returned on login and
// registration, pending the next full page load.
type SessionPayload struct {
	Role  domain.Role `json:"role"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
}

// AuthResponse is the login/registration response body.
type AuthResponse struct {
	Session    SessionPayload `json:"session"`
	RedirectTo string         `json:"redirectTo"`
}

// CreateUserRequest payload for admin account creation.
type CreateUserRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// UpdateRoleRequest payload for role changes.
type UpdateRoleRequest struct {
	Role domain.Role `json:"role"`
}

// UserResponse is one account in the admin listing.
type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

// NewUserResponse maps a domain user to its API shape.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
