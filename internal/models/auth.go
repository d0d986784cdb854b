package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
)

// LoginRequest holds administrator credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email_shape"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued access token.
type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresIn   int64     `json:"expiresIn"`
	IssuedAt    time.Time `json:"issuedAt"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
	jwt.RegisteredClaims
}
