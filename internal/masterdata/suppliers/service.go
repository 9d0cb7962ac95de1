package suppliers

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

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Supplier, root.Pagination, error) {
	list, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, root.Pagination{}, err
	}
	return list, root.NewPagination(filters.Page, filters.Limit, total), nil
}

func (s *Service) Get(ctx context.Context, id int64) (Supplier, error) {
	if id <= 0 {
		return Supplier{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (Supplier, error) {
	in, err := normalize(in)
	if err != nil {
		return Supplier{}, err
	}
	return s.repo.Create(ctx, in)
}

// Update applies a partial change to an existing supplier.
func (s *Service) Update(ctx context.Context, id int64, patch Patch) (Supplier, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Supplier{}, err
	}
	in, err := normalize(patch.apply(current))
	if err != nil {
		return Supplier{}, err
	}
	return s.repo.Update(ctx, id, in)
}

// Delete removes a supplier that no shipment item or customs row references.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.audit != nil {
		entry := root.AuditLog{
			ActorID:  root.ActorFromContext(ctx),
			Action:   "supplier.deleted",
			Entity:   "supplier",
			EntityID: strconv.FormatInt(id, 10),
		}
		if err := s.audit.Record(ctx, entry); err != nil {
			s.logger.Warn("audit supplier delete", slog.Int64("id", id), slog.Any("error", err))
		}
	}
	return nil
}
