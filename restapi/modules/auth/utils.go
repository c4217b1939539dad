// Package auth provides authentication and authorization utilities.
//
//revive:disable-next-line:var-naming
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ortelius/obsolescence-backend/model"
)

const tokenIssuer = "obsolescence-backend"

// ============================================================================
// JWT TOKEN MANAGEMENT
// ============================================================================

// Claims represents JWT claims
type Claims struct {
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator signs and validates session tokens with a shared secret
type Authenticator struct {
	secret []byte
	ttl    time.Duration
}

// NewAuthenticator creates an authenticator. The secret must not be empty.
func NewAuthenticator(secret string) (*Authenticator, error) {
	if secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	return &Authenticator{secret: []byte(secret), ttl: 24 * time.Hour}, nil
}

// GenerateJWT generates a JWT token for a user
func (a *Authenticator) GenerateJWT(username string, role model.Role) (string, error) {
	now := time.Now()

	claims := &Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   username,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ValidateJWT validates a JWT token and returns the claims
func (a *Authenticator) ValidateJWT(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithIssuer(tokenIssuer))

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
