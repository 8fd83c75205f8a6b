package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"guardian-chat/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carried by a session token. Tokens are issued by the auth service;
// this service only verifies them.
type Claims struct {
	UserID   int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// IsMonitor reports whether the token grants access to monitoring features.
func (c Claims) IsMonitor() bool {
	return c.Role == models.RoleParent || c.Role == models.RoleAdmin
}

// TokenValidator verifies HS256 session tokens.
type TokenValidator struct {
	secret []byte
}

// NewTokenValidator constructs a validator for the shared signing secret.
func NewTokenValidator(secret string) *TokenValidator {
	return &TokenValidator{secret: []byte(secret)}
}

// Validate parses and verifies a token string and returns its claims.
func (v *TokenValidator) Validate(tokenString string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	if claims.UserID == 0 {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
