// Package jwt provides JWT token validation for authenticated callers.
//
// Session issuing (magic-link exchange, cookie sync) happens in the
// hosted auth service; this package only verifies the resulting token
// and extracts the caller's user id.
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bandhub/server/pkg/errors"
)

// Claims represents JWT claims carried by an authenticated session.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Manager handles JWT operations.
type Manager struct {
	secret      []byte
	issuer      string
	tokenExpiry time.Duration
}

// Config holds JWT manager configuration.
type Config struct {
	Secret      string
	Issuer      string
	TokenExpiry time.Duration // Default: 1 hour
}

// NewManager creates a new JWT manager.
func NewManager(cfg *Config) *Manager {
	tokenExpiry := cfg.TokenExpiry
	if tokenExpiry == 0 {
		tokenExpiry = time.Hour
	}

	return &Manager{
		secret:      []byte(cfg.Secret),
		issuer:      cfg.Issuer,
		tokenExpiry: tokenExpiry,
	}
}

// GenerateToken generates a signed token for a user. Used by tests and
// local tooling; production tokens come from the auth service.
func (m *Manager) GenerateToken(userID, email string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenExpiry)),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken parses and validates a token string.
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, errors.ErrUnauthorized.WithError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.ErrUnauthorized
	}
	if claims.UserID == "" {
		return nil, errors.ErrUnauthorized
	}

	return claims, nil
}
