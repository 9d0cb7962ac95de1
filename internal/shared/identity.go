package shared

import (
	"context"
	"strings"
)

// Role is the coarse capability group assigned to a user.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleOperator Role = "OPERATOR"
	RoleViewer   Role = "VIEWER"
)

// DefaultRole is granted to users on their first login.
const DefaultRole = RoleViewer

// ParseRole normalises a role string and reports whether it is known.
func ParseRole(raw string) (Role, bool) {
	role := Role(strings.ToUpper(strings.TrimSpace(raw)))
	switch role {
	case RoleAdmin, RoleOperator, RoleViewer:
		return role, true
	}
	return "", false
}

// AuthMethod records how the identity was established.
type AuthMethod string

const (
	AuthSession AuthMethod = "session"
	AuthBearer  AuthMethod = "bearer"
)

// Identity is the authenticated actor attached to a request.
type Identity struct {
	UserID string
	Email  string
	Role   Role
	Method AuthMethod
}

type identityContextKey struct{}

// ContextWithIdentity stores the identity in context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the identity from context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	if !ok || id.UserID == "" {
		return Identity{}, false
	}
	return id, true
}
