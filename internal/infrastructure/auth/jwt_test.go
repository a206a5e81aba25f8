package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/infrastructure/auth"
)

func TestJWTManagerGenerateAndVerify(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("super-secret", time.Minute)

	scope := domain.Scope{OwnerID: "owner-1", ActorID: "user-123", Role: domain.RoleAdmin}

	token, err := manager.Generate(scope)
	require.NoError(t, err)

	claims, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, scope, claims.Scope())
}

func TestJWTManagerGenerateRejectsIncompleteScope(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("secret", time.Minute)

	_, err := manager.Generate(domain.Scope{ActorID: "user", Role: domain.RoleMember})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = manager.Generate(domain.Scope{OwnerID: "owner", Role: "root"})
	assert.ErrorIs(t, err, domain.ErrInvalidScope)
}

func TestJWTManagerVerifyErrors(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("secret", time.Minute)

	sign := func(t *testing.T, claims auth.Claims, method jwt.SigningMethod, key any) string {
		t.Helper()
		token, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return token
	}

	valid := func(expires time.Time) jwt.RegisteredClaims {
		return jwt.RegisteredClaims{
			Issuer:    "cashbook",
			Subject:   "user",
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(expires.Add(-2 * time.Minute)),
		}
	}

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{
			name: "expired",
			token: sign(t, auth.Claims{
				OwnerID:          "owner",
				Role:             domain.RoleViewer,
				RegisteredClaims: valid(time.Now().Add(-time.Minute)),
			}, jwt.SigningMethodHS256, []byte("secret")),
			want: domain.ErrExpiredToken,
		},
		{
			name: "wrong secret",
			token: sign(t, auth.Claims{
				OwnerID:          "owner",
				Role:             domain.RoleViewer,
				RegisteredClaims: valid(time.Now().Add(time.Minute)),
			}, jwt.SigningMethodHS256, []byte("other")),
			want: domain.ErrInvalidToken,
		},
		{
			name: "missing owner",
			token: sign(t, auth.Claims{
				Role:             domain.RoleViewer,
				RegisteredClaims: valid(time.Now().Add(time.Minute)),
			}, jwt.SigningMethodHS256, []byte("secret")),
			want: domain.ErrInvalidToken,
		},
		{
			name: "foreign issuer",
			token: sign(t, auth.Claims{
				OwnerID: "owner",
				Role:    domain.RoleViewer,
				RegisteredClaims: jwt.RegisteredClaims{
					Issuer:    "someone-else",
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
				},
			}, jwt.SigningMethodHS256, []byte("secret")),
			want: domain.ErrInvalidToken,
		},
		{
			name:  "garbage",
			token: "not-a-token",
			want:  domain.ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manager.Verify(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
