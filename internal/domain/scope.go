package domain

import (
	"context"
	"errors"
)

// Role represents a caller's access level within an owner scope.
type Role string

const (
	// RoleAdmin may run bulk recalculation and archive accounts.
	RoleAdmin Role = "admin"

	// RoleMember may record and edit transactions.
	RoleMember Role = "member"

	// RoleViewer can only read.
	RoleViewer Role = "viewer"
)

var validRoles = map[Role]bool{
	RoleAdmin:  true,
	RoleMember: true,
	RoleViewer: true,
}

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanWrite reports whether the role may mutate ledger data.
func (r Role) CanWrite() bool {
	return r == RoleAdmin || r == RoleMember
}

// CanAdminister reports whether the role may run owner-wide maintenance.
func (r Role) CanAdminister() bool {
	return r == RoleAdmin
}

// Scope is the authenticated owner identity every ledger operation runs in.
type Scope struct {
	OwnerID string
	ActorID string
	Role    Role
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")

	ErrInvalidScope = newError(ErrValidation, "scope requires an owner id and a valid role")
)

type contextKey string

const (
	scopeKey     contextKey = "scope"
	requestIDKey contextKey = "request_id"
)

// WithScope stores the caller scope in ctx.
func WithScope(ctx context.Context, scope Scope) context.Context {
	return context.WithValue(ctx, scopeKey, scope)
}

// ScopeFromContext returns the caller scope stored by WithScope.
func ScopeFromContext(ctx context.Context) (Scope, bool) {
	scope, ok := ctx.Value(scopeKey).(Scope)
	return scope, ok
}

// WithRequestID stores the request id in ctx for audit records.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the id stored by WithRequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
