// Package auth issues and verifies the bearer tokens that carry a caller's
// owner scope.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iho/cashbook/internal/domain"
)

const issuer = "cashbook"

// Claims represents the JWT claims. The subject is the acting user.
type Claims struct {
	OwnerID string      `json:"owner_id"`
	Role    domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Scope converts the claims into the scope operations run under.
func (c *Claims) Scope() domain.Scope {
	return domain.Scope{OwnerID: c.OwnerID, ActorID: c.Subject, Role: c.Role}
}

// JWTManager manages JWT token creation and validation
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
	now           func() time.Time
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		now:           time.Now,
	}
}

// Generate signs a token for scope.
func (m *JWTManager) Generate(scope domain.Scope) (string, error) {
	if scope.OwnerID == "" || !scope.Role.IsValid() {
		return "", domain.ErrInvalidScope
	}

	now := m.now()
	claims := Claims{
		OwnerID: scope.OwnerID,
		Role:    scope.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   scope.ActorID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// Verify verifies a JWT token and returns the claims
func (m *JWTManager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrExpiredToken
		}
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	if claims.OwnerID == "" || !claims.Role.IsValid() {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}
