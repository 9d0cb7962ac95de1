package users

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/odyssey-erp/shiptrack/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	Upsert(ctx context.Context, p Profile, role shared.Role) (User, error)
	Get(ctx context.Context, id string) (User, error)
	List(ctx context.Context, page shared.PageRequest) ([]User, int, error)
	SetRole(ctx context.Context, id string, role shared.Role) (User, error)
}

// Auditor records role changes.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles user business logic.
type Service struct {
	repo   RepositoryPort
	audit  Auditor
	logger *slog.Logger
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, audit Auditor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, audit: audit, logger: logger}
}

// SyncProfile creates the user on first login with the default role, or
// refreshes the profile of a returning user without changing its role.
func (s *Service) SyncProfile(ctx context.Context, p Profile) (User, error) {
	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		return User{}, shared.FieldError("sub", "subject is required")
	}
	p.Email = strings.TrimSpace(p.Email)
	return s.repo.Upsert(ctx, p, shared.DefaultRole)
}

// Get returns the user with id.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.repo.Get(ctx, id)
}

// List returns a page of users.
func (s *Service) List(ctx context.Context, page shared.PageRequest) ([]User, shared.Pagination, error) {
	users, total, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return users, shared.NewPagination(page.Page, page.Limit, total), nil
}

// ChangeRole assigns role to the user with id on behalf of actor.
func (s *Service) ChangeRole(ctx context.Context, actor shared.Identity, id, rawRole string) (User, error) {
	role, ok := shared.ParseRole(rawRole)
	if !ok {
		return User{}, shared.FieldError("role", "must be one of ADMIN, OPERATOR, VIEWER")
	}
	if actor.UserID == id {
		return User{}, ErrSelfRoleChange
	}
	before, err := s.repo.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	if before.Role == role {
		return before, nil
	}
	updated, err := s.repo.SetRole(ctx, id, role)
	if err != nil {
		return User{}, fmt.Errorf("set role: %w", err)
	}
	if s.audit != nil {
		entry := shared.AuditLog{
			ActorID:  actor.UserID,
			Action:   "user.role_changed",
			Entity:   "user",
			EntityID: id,
			Meta:     map[string]any{"from": string(before.Role), "to": string(role)},
		}
		if err := s.audit.Record(ctx, entry); err != nil {
			s.logger.Warn("audit role change", slog.String("user_id", id), slog.Any("error", err))
		}
	}
	return updated, nil
}
