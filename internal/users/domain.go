package users

import (
	"fmt"
	"time"

	"github.com/odyssey-erp/shiptrack/internal/shared"
)

// User is a person known through the identity provider.
type User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Role      shared.Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile carries the identity provider claims refreshed on each login.
type Profile struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
}

// ErrSelfRoleChange prevents an admin from demoting themselves.
var ErrSelfRoleChange = fmt.Errorf("%w: admins cannot change their own role", shared.ErrConflict)

// ErrUserNotFound is returned when no user matches the id.
var ErrUserNotFound = fmt.Errorf("user %w", shared.ErrNotFound)
