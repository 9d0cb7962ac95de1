package shipments

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/odyssey-erp/shiptrack/internal/rbac"
	"github.com/odyssey-erp/shiptrack/internal/shared"
	"github.com/odyssey-erp/shiptrack/internal/workflow"
)

// RepositoryPort defines data access methods for shipments.
type RepositoryPort interface {
	Reader
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	ListShipments(ctx context.Context, filter ListFilter) ([]Shipment, int, error)
}

// MetricsPort receives workflow events after they commit.
type MetricsPort interface {
	RecordTransition(from, to string)
	RecordCustomsSeeded()
}

// Service implements the shipment use cases.
type Service struct {
	repo    RepositoryPort
	metrics MetricsPort
	logger  *slog.Logger
	newKey  func() string
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, metrics MetricsPort, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, metrics: metrics, logger: logger, newKey: uuid.NewString}
}

const maxTextLength = 200

func checkText(verr *shared.ValidationError, field, value string) string {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		verr.Add(field, "is required")
	case utf8.RuneCountInString(value) > maxTextLength:
		verr.Add(field, "must be at most 200 characters")
	}
	return value
}

func entityID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Create registers a new shipment in CREATED with a generated master key.
func (s *Service) Create(ctx context.Context, actor shared.Identity, in CreateInput) (Shipment, error) {
	verr := shared.NewValidationError()
	in.Name = checkText(verr, "shipmentName", in.Name)
	in.Number = checkText(verr, "shipmentNumber", in.Number)
	if err := verr.OrNil(); err != nil {
		return Shipment{}, err
	}

	var created Shipment
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		var err error
		created, err = tx.CreateShipment(ctx, Shipment{
			Name:             in.Name,
			Number:           in.Number,
			BackendMasterKey: s.newKey(),
			Status:           workflow.StatusCreated,
			CreatedByID:      actor.UserID,
			UpdatedByID:      actor.UserID,
		})
		if err != nil {
			return err
		}
		return tx.RecordAudit(ctx, shared.AuditLog{
			ActorID:  actor.UserID,
			Action:   "shipment.created",
			Entity:   "shipment",
			EntityID: entityID(created.ID),
			Meta:     map[string]any{"number": created.Number},
		})
	})
	if err != nil {
		return Shipment{}, err
	}
	s.logger.Info("shipment created", slog.Int64("shipment_id", created.ID), slog.String("actor", actor.UserID))
	return created, nil
}

// Get returns a shipment by id.
func (s *Service) Get(ctx context.Context, id int64) (Shipment, error) {
	return s.repo.GetShipment(ctx, id)
}

// List returns shipments filtered by status and search text.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Shipment, shared.Pagination, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, shared.Pagination{}, shared.FieldError("status", "unknown status")
	}
	filter.Search = strings.TrimSpace(filter.Search)
	list, total, err := s.repo.ListShipments(ctx, filter)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, shared.NewPagination(filter.Page.Page, filter.Page.Limit, total), nil
}

// Update changes the shipment header. Changing the master key requires the
// edit_master_key capability.
func (s *Service) Update(ctx context.Context, actor shared.Identity, id int64, in UpdateInput) (Shipment, error) {
	verr := shared.NewValidationError()
	if in.Name != nil {
		v := checkText(verr, "shipmentName", *in.Name)
		in.Name = &v
	}
	if in.Number != nil {
		v := checkText(verr, "shipmentNumber", *in.Number)
		in.Number = &v
	}
	if in.BackendMasterKey != nil {
		v := checkText(verr, "backendMasterKey", *in.BackendMasterKey)
		in.BackendMasterKey = &v
	}
	if err := verr.OrNil(); err != nil {
		return Shipment{}, err
	}

	var updated Shipment
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.LockShipment(ctx, id)
		if err != nil {
			return err
		}
		next := current
		if in.Name != nil {
			next.Name = *in.Name
		}
		if in.Number != nil {
			next.Number = *in.Number
		}
		if in.BackendMasterKey != nil && *in.BackendMasterKey != current.BackendMasterKey {
			if !rbac.Allowed(actor.Role, rbac.ResourceShipments, rbac.ActionEditMasterKey) {
				return fmt.Errorf("%w: only an admin can change the backend master key", shared.ErrForbidden)
			}
			next.BackendMasterKey = *in.BackendMasterKey
		}
		next.UpdatedByID = actor.UserID
		updated, err = tx.UpdateShipment(ctx, next)
		if err != nil {
			return err
		}
		if next.BackendMasterKey != current.BackendMasterKey {
			return tx.RecordAudit(ctx, shared.AuditLog{
				ActorID:  actor.UserID,
				Action:   "shipment.master_key_changed",
				Entity:   "shipment",
				EntityID: entityID(id),
				Meta:     map[string]any{"from": current.BackendMasterKey, "to": next.BackendMasterKey},
			})
		}
		return nil
	})
	if err != nil {
		return Shipment{}, err
	}
	return updated, nil
}

// Delete removes the shipment and, by cascade, all of its children.
func (s *Service) Delete(ctx context.Context, actor shared.Identity, id int64) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.LockShipment(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.DeleteShipment(ctx, id); err != nil {
			return err
		}
		return tx.RecordAudit(ctx, shared.AuditLog{
			ActorID:  actor.UserID,
			Action:   "shipment.deleted",
			Entity:   "shipment",
			EntityID: entityID(id),
			Meta:     map[string]any{"number": current.Number, "status": string(current.Status)},
		})
	})
	if err != nil {
		return err
	}
	s.logger.Info("shipment deleted", slog.Int64("shipment_id", id), slog.String("actor", actor.UserID))
	return nil
}

// Advance moves the shipment to its successor status.
func (s *Service) Advance(ctx context.Context, actor shared.Identity, id int64) (Transition, error) {
	return s.transition(ctx, actor, id, func(current workflow.Status) (workflow.Status, error) {
		return workflow.Advance(current, actor.Role)
	})
}

// SetStatus overwrites the shipment status. Only forward moves are accepted.
func (s *Service) SetStatus(ctx context.Context, actor shared.Identity, id int64, raw string) (Transition, error) {
	target := workflow.Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !target.Valid() {
		return Transition{}, shared.FieldError("status", "must be one of CREATED, IMPORTING_DETAILS_DONE, CUSTOMS_IN_PROGRESS, CUSTOMS_RECEIVED")
	}
	return s.transition(ctx, actor, id, func(current workflow.Status) (workflow.Status, error) {
		return workflow.Overwrite(current, target, actor.Role)
	})
}

func (s *Service) transition(ctx context.Context, actor shared.Identity, id int64, decide func(workflow.Status) (workflow.Status, error)) (Transition, error) {
	var result Transition
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.LockShipment(ctx, id)
		if err != nil {
			return err
		}
		next, err := decide(current.Status)
		if err != nil {
			return err
		}
		result = Transition{Shipment: current, From: current.Status, To: next}
		if next == current.Status {
			return nil
		}
		result.Shipment, err = tx.UpdateStatus(ctx, id, next, actor.UserID)
		if err != nil {
			return err
		}
		if workflow.ReachesCustomsReceived(current.Status, next) {
			result.CustomsSeeded, err = seedCustoms(ctx, tx, id)
			if err != nil {
				return err
			}
		}
		return tx.RecordAudit(ctx, shared.AuditLog{
			ActorID:  actor.UserID,
			Action:   "shipment.status_changed",
			Entity:   "shipment",
			EntityID: entityID(id),
			Meta:     map[string]any{"from": string(current.Status), "to": string(next)},
		})
	})
	if err != nil {
		return Transition{}, err
	}
	if result.From != result.To {
		if s.metrics != nil {
			s.metrics.RecordTransition(string(result.From), string(result.To))
			if result.CustomsSeeded {
				s.metrics.RecordCustomsSeeded()
			}
		}
		s.logger.Info("shipment status changed",
			slog.Int64("shipment_id", id),
			slog.String("from", string(result.From)),
			slog.String("to", string(result.To)),
			slog.String("actor", actor.UserID),
		)
	}
	return result, nil
}
