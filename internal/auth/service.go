package auth

import (
	"context"
	"errors"

	"github.com/odyssey-erp/shiptrack/internal/shared"
	"github.com/odyssey-erp/shiptrack/internal/users"
)

// UserStore is the subset of the users service needed for authentication.
type UserStore interface {
	SyncProfile(ctx context.Context, p users.Profile) (users.User, error)
	Get(ctx context.Context, id string) (users.User, error)
}

// Service wraps authentication business rules.
type Service struct {
	tokens *TokenManager
	users  UserStore
}

// NewService constructs a new Service.
func NewService(tokens *TokenManager, store UserStore) *Service {
	return &Service{tokens: tokens, users: store}
}

// Authenticate verifies an identity provider token and returns the local
// user, creating it on first login.
func (s *Service) Authenticate(ctx context.Context, rawToken string) (users.User, error) {
	claims, err := s.tokens.Verify(rawToken)
	if err != nil {
		return users.User{}, err
	}
	return s.users.SyncProfile(ctx, claims.Profile())
}

// Resolve returns the user bound to a session. A user removed since the
// session was created yields shared.ErrUnauthorized.
func (s *Service) Resolve(ctx context.Context, userID string) (users.User, error) {
	user, err := s.users.Get(ctx, userID)
	if errors.Is(err, shared.ErrNotFound) {
		return users.User{}, shared.ErrUnauthorized
	}
	return user, err
}

// IdentityOf builds the request identity for user.
func IdentityOf(user users.User, method shared.AuthMethod) shared.Identity {
	return shared.Identity{UserID: user.ID, Email: user.Email, Role: user.Role, Method: method}
}
