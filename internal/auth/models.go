package auth

import "github.com/golang-jwt/jwt/v5"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCompany  Role = "company"
	RoleEmployee Role = "employee"
)

// Identity is the authenticated caller carried in token claims and fiber locals.
type Identity struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CompanyID string `json:"company_id,omitempty"`
}

// TokenType separates short-lived bearer tokens from refresh tokens.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

type Claims struct {
	Role      Role      `json:"role"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CompanyID string    `json:"company_id,omitempty"`
	Type      TokenType `json:"typ"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() Identity {
	return Identity{
		ID:        c.Subject,
		Role:      c.Role,
		Email:     c.Email,
		Name:      c.Name,
		CompanyID: c.CompanyID,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type TokenResponse struct {
	AccessToken  string   `json:"token"`
	RefreshToken string   `json:"refresh_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int64    `json:"expires_in"`
	Identity     Identity `json:"user"`
}
