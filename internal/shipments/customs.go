package shipments

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/shiptrack/internal/calc"
	"github.com/odyssey-erp/shiptrack/internal/shared"
	"github.com/odyssey-erp/shiptrack/internal/workflow"
)

// seedCustoms creates the customs record and one per-type row per distinct
// item type when the shipment has no customs record yet.
func seedCustoms(ctx context.Context, tx TxRepository, shipmentID int64) (bool, error) {
	if _, ok, err := tx.GetCustoms(ctx, shipmentID); err != nil || ok {
		return false, err
	}
	items, err := tx.ListItems(ctx, shipmentID)
	if err != nil {
		return false, err
	}
	recorded := calc.TotalPieces(toLines(items))
	customs, err := tx.CreateCustoms(ctx, Customs{
		ShipmentID:          shipmentID,
		TotalPiecesRecorded: recorded,
		TotalPiecesAdjusted: recorded,
		LossOrDamagePieces:  0,
	})
	if err != nil {
		return false, err
	}

	var order []int64
	byType := make(map[int64]*CustomsPerType)
	for _, it := range items {
		row, ok := byType[it.ItemTypeID]
		if !ok {
			row = &CustomsPerType{
				CustomsID:   customs.ID,
				ItemTypeID:  it.ItemTypeID,
				PaidCustoms: decimal.Zero,
				Takhreg:     decimal.Zero,
			}
			byType[it.ItemTypeID] = row
			order = append(order, it.ItemTypeID)
		}
		row.TotalPcsPerType += it.Cou
		row.TotalCtnPerType += it.Ctn
	}
	for _, typeID := range order {
		if _, err := tx.InsertPerType(ctx, *byType[typeID]); err != nil {
			return false, err
		}
	}
	return true, nil
}

func fees(rows []CustomsPerType) []calc.Fees {
	out := make([]calc.Fees, len(rows))
	for i, r := range rows {
		out[i] = calc.Fees{PaidCustoms: r.PaidCustoms, Takhreg: r.Takhreg}
	}
	return out
}

// Customs returns the customs view of a shipment. The customs record and its
// per-type rows are only exposed once customs have been received.
func (s *Service) Customs(ctx context.Context, shipmentID int64) (CustomsView, error) {
	shipment, err := s.repo.GetShipment(ctx, shipmentID)
	if err != nil {
		return CustomsView{}, err
	}
	view := CustomsView{
		ShipmentID:       shipmentID,
		Status:           shipment.Status,
		Visibility:       workflow.CustomsVisibility(shipment.Status),
		PerType:          []CustomsPerType{},
		TotalPaidCustoms: decimal.Zero,
		TotalTakhreg:     decimal.Zero,
	}
	if view.Visibility != workflow.VisibilityAvailable {
		return view, nil
	}
	customs, ok, err := s.repo.GetCustoms(ctx, shipmentID)
	if err != nil || !ok {
		return view, err
	}
	rows, err := s.repo.ListPerType(ctx, customs.ID)
	if err != nil {
		return CustomsView{}, err
	}
	view.Customs = &customs
	if rows != nil {
		view.PerType = rows
	}
	view.TotalPaidCustoms = calc.TotalPaidCustoms(fees(rows))
	view.TotalTakhreg = calc.TotalTakhreg(fees(rows))
	return view, nil
}

// SaveCustoms updates the bill date and adjusted piece count. Loss or damage
// is recomputed from the recorded snapshot.
func (s *Service) SaveCustoms(ctx context.Context, actor shared.Identity, shipmentID int64, in CustomsInput) (CustomsView, error) {
	if in.TotalPiecesAdjusted != nil && *in.TotalPiecesAdjusted < 0 {
		return CustomsView{}, shared.FieldError("totalPiecesAdjusted", calc.ErrNegative.Error())
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		shipment, err := tx.LockShipment(ctx, shipmentID)
		if err != nil {
			return err
		}
		if err := workflow.RequireCustomsEditable(shipment.Status); err != nil {
			return err
		}
		if _, err := seedCustoms(ctx, tx, shipmentID); err != nil {
			return err
		}
		customs, _, err := tx.GetCustoms(ctx, shipmentID)
		if err != nil {
			return err
		}
		switch {
		case in.ClearBillDate:
			customs.BillDate = nil
		case in.BillDate != nil:
			customs.BillDate = in.BillDate
		}
		if in.TotalPiecesAdjusted != nil {
			customs.TotalPiecesAdjusted = *in.TotalPiecesAdjusted
		}
		customs.LossOrDamagePieces = calc.LossOrDamage(customs.TotalPiecesRecorded, customs.TotalPiecesAdjusted)
		_, err = tx.UpdateCustoms(ctx, customs)
		return err
	})
	if err != nil {
		return CustomsView{}, err
	}
	return s.Customs(ctx, shipmentID)
}

func checkPerType(verr *shared.ValidationError, row CustomsPerType) {
	if row.ItemTypeID <= 0 {
		verr.Add("itemTypeId", "is required")
	}
	if row.TotalPcsPerType < 0 {
		verr.Add("totalPcsPerType", calc.ErrNegative.Error())
	}
	if row.TotalCtnPerType < 0 {
		verr.Add("totalCtnPerType", calc.ErrNegative.Error())
	}
	if err := calc.CheckMoney(row.PaidCustoms); err != nil {
		verr.Add("paidCustoms", err.Error())
	}
	if err := calc.CheckMoney(row.Takhreg); err != nil {
		verr.Add("takhreg", err.Error())
	}
}

func applyPerType(row CustomsPerType, in PerTypeInput) CustomsPerType {
	if in.ItemTypeID != nil {
		row.ItemTypeID = *in.ItemTypeID
	}
	if in.TotalPcsPerType != nil {
		row.TotalPcsPerType = *in.TotalPcsPerType
	}
	if in.TotalCtnPerType != nil {
		row.TotalCtnPerType = *in.TotalCtnPerType
	}
	if in.PaidCustoms != nil {
		row.PaidCustoms = *in.PaidCustoms
	}
	if in.Takhreg != nil {
		row.Takhreg = *in.Takhreg
	}
	return row
}

// lockCustoms loads the customs record and locks its shipment, failing when
// the shipment does not allow customs edits.
func lockCustoms(ctx context.Context, tx TxRepository, customsID int64) (Customs, error) {
	customs, err := tx.GetCustomsByID(ctx, customsID)
	if err != nil {
		return Customs{}, err
	}
	shipment, err := tx.LockShipment(ctx, customs.ShipmentID)
	if err != nil {
		return Customs{}, err
	}
	return customs, workflow.RequireCustomsEditable(shipment.Status)
}

// AddPerType inserts a per-type row under a customs record.
func (s *Service) AddPerType(ctx context.Context, actor shared.Identity, customsID int64, in PerTypeInput) (CustomsPerType, error) {
	row := applyPerType(CustomsPerType{CustomsID: customsID, PaidCustoms: decimal.Zero, Takhreg: decimal.Zero}, in)
	verr := shared.NewValidationError()
	checkPerType(verr, row)
	if err := verr.OrNil(); err != nil {
		return CustomsPerType{}, err
	}
	row.PaidCustoms = calc.Money(row.PaidCustoms)
	row.Takhreg = calc.Money(row.Takhreg)

	var created CustomsPerType
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if _, err := lockCustoms(ctx, tx, customsID); err != nil {
			return err
		}
		var err error
		created, err = tx.InsertPerType(ctx, row)
		return err
	})
	if err != nil {
		return CustomsPerType{}, err
	}
	return created, nil
}

// UpdatePerType applies a partial change to a per-type row.
func (s *Service) UpdatePerType(ctx context.Context, actor shared.Identity, customsID, rowID int64, in PerTypeInput) (CustomsPerType, error) {
	var updated CustomsPerType
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if _, err := lockCustoms(ctx, tx, customsID); err != nil {
			return err
		}
		current, err := tx.GetPerType(ctx, customsID, rowID)
		if err != nil {
			return err
		}
		next := applyPerType(current, in)
		verr := shared.NewValidationError()
		checkPerType(verr, next)
		if err := verr.OrNil(); err != nil {
			return err
		}
		next.PaidCustoms = calc.Money(next.PaidCustoms)
		next.Takhreg = calc.Money(next.Takhreg)
		updated, err = tx.UpdatePerType(ctx, next)
		return err
	})
	if err != nil {
		return CustomsPerType{}, err
	}
	return updated, nil
}

// DeletePerType removes a per-type row.
func (s *Service) DeletePerType(ctx context.Context, actor shared.Identity, customsID, rowID int64) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if _, err := lockCustoms(ctx, tx, customsID); err != nil {
			return err
		}
		if err := tx.DeletePerType(ctx, customsID, rowID); err != nil {
			return err
		}
		return tx.RecordAudit(ctx, shared.AuditLog{
			ActorID:  actor.UserID,
			Action:   "customs.per_type_deleted",
			Entity:   "customs_per_type",
			EntityID: entityID(rowID),
			Meta:     map[string]any{"customs_id": customsID},
		})
	})
}
