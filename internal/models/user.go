package models

// Role is a coarse-grained permission class
type Role string

// Role constants
const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is one of the known roles
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// User represents a user account
type User struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Never serialize password hash
	Role         Role   `json:"role"`
	IsActive     bool   `json:"is_active"`
}

// UserResponse is the public projection of a user
type UserResponse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	IsActive bool   `json:"is_active"`
}

// ToResponse projects the user without credentials
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
}

// RegisterRequest represents a sign-up request
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password"`
	Role     Role   `json:"role" validate:"required"`
}

// LoginRequest represents a JSON login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenTypeBearer is the token_type of every issued token
const TokenTypeBearer = "bearer"

// TokenResponse is returned on successful login
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// SetActiveRequest represents an admin activation/deactivation request
type SetActiveRequest struct {
	IsActive *bool `json:"is_active"`
}
