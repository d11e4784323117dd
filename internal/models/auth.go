package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims carries the operator identity attached to each request. Role
// gating happens upstream; handlers only need to know who the operator is.
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	jwt.RegisteredClaims
}
