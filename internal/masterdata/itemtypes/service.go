package itemtypes

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/odyssey-erp/shiptrack/internal/masterdata/shared"
	root "github.com/odyssey-erp/shiptrack/internal/shared"
)

// Auditor records deletions.
type Auditor interface {
	Record(ctx context.Context, log root.AuditLog) error
}

type Service struct {
	repo   Repository
	audit  Auditor
	logger *slog.Logger
}

func NewService(repo Repository, audit Auditor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, audit: audit, logger: logger}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]ItemType, root.Pagination, error) {
	list, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, root.Pagination{}, err
	}
	return list, root.NewPagination(filters.Page, filters.Limit, total), nil
}

func (s *Service) Get(ctx context.Context, id int64) (ItemType, error) {
	if id <= 0 {
		return ItemType{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (ItemType, error) {
	in, err := normalize(in)
	if err != nil {
		return ItemType{}, err
	}
	return s.repo.Create(ctx, in)
}

func (s *Service) Update(ctx context.Context, id int64, patch Patch) (ItemType, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return ItemType{}, err
	}
	in, err := normalize(patch.apply(current))
	if err != nil {
		return ItemType{}, err
	}
	return s.repo.Update(ctx, id, in)
}

// Delete removes an item type that is not referenced by items or customs rows.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.audit != nil {
		err := s.audit.Record(ctx, root.AuditLog{
			ActorID:  root.ActorFromContext(ctx),
			Action:   "item_type.deleted",
			Entity:   "item_type",
			EntityID: strconv.FormatInt(id, 10),
		})
		if err != nil {
			s.logger.Warn("audit item type delete", slog.Int64("id", id), slog.Any("error", err))
		}
	}
	return nil
}
