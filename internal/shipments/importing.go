package shipments

import (
	"context"

	"github.com/odyssey-erp/shiptrack/internal/calc"
	"github.com/odyssey-erp/shiptrack/internal/shared"
	"github.com/odyssey-erp/shiptrack/internal/workflow"
)

// Importing returns the importing details of a shipment. When none were saved
// yet the totals are computed from the current items and the rest is zero.
func (s *Service) Importing(ctx context.Context, shipmentID int64) (ImportingDetails, error) {
	if _, err := s.repo.GetShipment(ctx, shipmentID); err != nil {
		return ImportingDetails{}, err
	}
	details, ok, err := s.repo.GetImporting(ctx, shipmentID)
	if err != nil {
		return ImportingDetails{}, err
	}
	if ok {
		return details, nil
	}
	items, err := s.repo.ListItems(ctx, shipmentID)
	if err != nil {
		return ImportingDetails{}, err
	}
	return computeImporting(ImportingDetails{ShipmentID: shipmentID}, items), nil
}

// SaveImporting creates or updates the importing details. Totals are always
// recomputed from the stored items.
func (s *Service) SaveImporting(ctx context.Context, actor shared.Identity, shipmentID int64, in ImportingInput) (ImportingDetails, error) {
	verr := shared.NewValidationError()
	if in.CommissionPercent != nil {
		if err := calc.CheckPercent(*in.CommissionPercent); err != nil {
			verr.Add("commissionPercent", err.Error())
		}
	}
	if in.ShipmentCost != nil {
		if err := calc.CheckMoney(*in.ShipmentCost); err != nil {
			verr.Add("shipmentCost", err.Error())
		}
	}
	if in.ShipmentSpaceM2 != nil {
		if err := calc.CheckSpace(*in.ShipmentSpaceM2); err != nil {
			verr.Add("shipmentSpaceM2", err.Error())
		}
	}
	if err := verr.OrNil(); err != nil {
		return ImportingDetails{}, err
	}

	var saved ImportingDetails
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		shipment, err := tx.LockShipment(ctx, shipmentID)
		if err != nil {
			return err
		}
		if err := workflow.RequireImportingEditable(shipment.Status); err != nil {
			return err
		}
		current, _, err := tx.GetImporting(ctx, shipmentID)
		if err != nil {
			return err
		}
		current.ShipmentID = shipmentID
		if in.CommissionPercent != nil {
			current.CommissionPercent = *in.CommissionPercent
		}
		if in.ShipmentCost != nil {
			current.ShipmentCost = *in.ShipmentCost
		}
		if in.ShipmentSpaceM2 != nil {
			current.ShipmentSpaceM2 = *in.ShipmentSpaceM2
		}
		items, err := tx.ListItems(ctx, shipmentID)
		if err != nil {
			return err
		}
		saved, err = tx.UpsertImporting(ctx, computeImporting(current, items))
		return err
	})
	if err != nil {
		return ImportingDetails{}, err
	}
	return saved, nil
}

func computeImporting(d ImportingDetails, items []Item) ImportingDetails {
	d.TotalShipmentPrice = calc.ShipmentTotalPrice(toLines(items))
	d.CommissionPercent = calc.Money(d.CommissionPercent)
	d.CommissionAmount = calc.CommissionAmount(d.TotalShipmentPrice, d.CommissionPercent)
	d.ShipmentCost = calc.Money(d.ShipmentCost)
	d.ShipmentSpaceM2 = calc.Space(d.ShipmentSpaceM2)
	return d
}

// refreshImporting keeps stored importing totals in line with the items. It
// does nothing when no importing details were saved yet.
func refreshImporting(ctx context.Context, tx TxRepository, shipmentID int64) error {
	current, ok, err := tx.GetImporting(ctx, shipmentID)
	if err != nil || !ok {
		return err
	}
	items, err := tx.ListItems(ctx, shipmentID)
	if err != nil {
		return err
	}
	next := computeImporting(current, items)
	if next.TotalShipmentPrice.Equal(current.TotalShipmentPrice) && next.CommissionAmount.Equal(current.CommissionAmount) {
		return nil
	}
	_, err = tx.UpsertImporting(ctx, next)
	return err
}
