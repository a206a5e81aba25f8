package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/infrastructure/auth"
)

// Trusted identity headers, honoured only when no JWT manager is configured.
const (
	OwnerIDHeader = "X-Owner-ID"
	ActorIDHeader = "X-Actor-ID"
	RoleHeader    = "X-Role"
)

// Authenticate resolves the caller scope. With a JWT manager a valid bearer
// token is required; without one the scope is read from the trusted
// X-Owner-ID, X-Actor-ID and X-Role headers set by a fronting gateway.
func Authenticate(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				scope domain.Scope
				err   error
			)
			if jwtManager != nil {
				scope, err = bearerScope(jwtManager, r)
			} else {
				scope, err = headerScope(r)
			}
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			ctx := domain.WithScope(r.Context(), scope)
			zerolog.Ctx(ctx).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("owner_id", scope.OwnerID).Str("actor_id", scope.ActorID)
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerScope(jwtManager *auth.JWTManager, r *http.Request) (domain.Scope, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return domain.Scope{}, domain.ErrUnauthorized
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return domain.Scope{}, domain.ErrInvalidToken
	}

	claims, err := jwtManager.Verify(parts[1])
	if err != nil {
		return domain.Scope{}, err
	}
	return claims.Scope(), nil
}

func headerScope(r *http.Request) (domain.Scope, error) {
	scope := domain.Scope{
		OwnerID: strings.TrimSpace(r.Header.Get(OwnerIDHeader)),
		ActorID: strings.TrimSpace(r.Header.Get(ActorIDHeader)),
		Role:    domain.Role(strings.ToLower(strings.TrimSpace(r.Header.Get(RoleHeader)))),
	}
	if scope.OwnerID == "" {
		return domain.Scope{}, domain.ErrUnauthorized
	}
	if scope.Role == "" {
		scope.Role = domain.RoleMember
	}
	if !scope.Role.IsValid() {
		return domain.Scope{}, domain.ErrInvalidScope
	}
	if scope.ActorID == "" {
		scope.ActorID = scope.OwnerID
	}
	return scope, nil
}

// RequireWrite rejects callers whose role cannot mutate ledger data.
func RequireWrite(next http.Handler) http.Handler {
	return requireRole(domain.Role.CanWrite)(next)
}

// RequireAdmin rejects callers that may not run owner-wide maintenance.
func RequireAdmin(next http.Handler) http.Handler {
	return requireRole(domain.Role.CanAdminister)(next)
}

func requireRole(allowed func(domain.Role) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope, ok := domain.ScopeFromContext(r.Context())
			if !ok {
				http.Error(w, domain.ErrUnauthorized.Error(), http.StatusUnauthorized)
				return
			}
			if !allowed(scope.Role) {
				http.Error(w, domain.ErrInsufficientRole.Error(), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
