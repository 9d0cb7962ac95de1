package shipments

import (
	"context"
	"fmt"

	"github.com/odyssey-erp/shiptrack/internal/calc"
	"github.com/odyssey-erp/shiptrack/internal/shared"
	"github.com/odyssey-erp/shiptrack/internal/workflow"
)

const maxCount = 1_000_000

const errTotalTooLarge = "shipment total is too large"

func toLines(items []Item) []calc.Line {
	lines := make([]calc.Line, len(items))
	for i, it := range items {
		lines[i] = calc.Line{Ctn: it.Ctn, PcsPerCtn: it.PcsPerCtn, Pri: it.Pri}
	}
	return lines
}

func itemsView(items []Item) ItemsView {
	lines := toLines(items)
	if items == nil {
		items = []Item{}
	}
	return ItemsView{
		Items:       items,
		TotalPieces: calc.TotalPieces(lines),
		TotalPrice:  calc.ShipmentTotalPrice(lines),
	}
}

func checkItem(verr *shared.ValidationError, prefix string, in ItemInput) {
	if in.SupplierID <= 0 {
		verr.Add(prefix+"supplierId", "is required")
	}
	if in.ItemTypeID <= 0 {
		verr.Add(prefix+"itemTypeId", "is required")
	}
	if in.Ctn < 0 || in.Ctn > maxCount {
		verr.Add(prefix+"ctn", "must be between 0 and 1000000")
	}
	if in.PcsPerCtn < 0 || in.PcsPerCtn > maxCount {
		verr.Add(prefix+"pcsPerCtn", "must be between 0 and 1000000")
	}
	if err := calc.CheckMoney(in.Pri); err != nil {
		verr.Add(prefix+"pri", err.Error())
		return
	}
	if verr.Empty() {
		if _, total := calc.LineTotal(in.Ctn, in.PcsPerCtn, in.Pri); total.GreaterThanOrEqual(calc.MaxMoney) {
			verr.Add(prefix+"pri", "line total is too large")
		}
	}
}

// totalFits reports whether the shipment total of items stays storable.
func totalFits(items []Item) bool {
	return calc.ShipmentTotalPrice(toLines(items)).LessThan(calc.MaxMoney)
}

// derive builds the stored item from client input; cou and total are never
// taken from the client.
func derive(shipmentID int64, in ItemInput) Item {
	cou, total := calc.LineTotal(in.Ctn, in.PcsPerCtn, in.Pri)
	return Item{
		ID:         in.ID,
		ShipmentID: shipmentID,
		SupplierID: in.SupplierID,
		ItemTypeID: in.ItemTypeID,
		Ctn:        in.Ctn,
		PcsPerCtn:  in.PcsPerCtn,
		Cou:        cou,
		Pri:        calc.Money(in.Pri),
		Total:      total,
	}
}

// Items returns the items of a shipment with piece and price totals.
func (s *Service) Items(ctx context.Context, shipmentID int64) (ItemsView, error) {
	if _, err := s.repo.GetShipment(ctx, shipmentID); err != nil {
		return ItemsView{}, err
	}
	items, err := s.repo.ListItems(ctx, shipmentID)
	if err != nil {
		return ItemsView{}, err
	}
	return itemsView(items), nil
}

// AddItem appends one item to the shipment.
func (s *Service) AddItem(ctx context.Context, actor shared.Identity, shipmentID int64, in ItemInput) (Item, error) {
	verr := shared.NewValidationError()
	checkItem(verr, "", in)
	if err := verr.OrNil(); err != nil {
		return Item{}, err
	}
	in.ID = 0

	var created Item
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		shipment, err := tx.LockShipment(ctx, shipmentID)
		if err != nil {
			return err
		}
		if err := workflow.RequireItemsEditable(shipment.Status); err != nil {
			return err
		}
		existing, err := tx.ListItems(ctx, shipmentID)
		if err != nil {
			return err
		}
		item := derive(shipmentID, in)
		if !totalFits(append(existing, item)) {
			return shared.FieldError("pri", errTotalTooLarge)
		}
		created, err = tx.InsertItem(ctx, item)
		if err != nil {
			return err
		}
		return refreshImporting(ctx, tx, shipmentID)
	})
	if err != nil {
		return Item{}, err
	}
	return created, nil
}

// ReplaceItems makes the shipment's items equal to the payload. Entries with
// an id update that item, entries without one are inserted and stored items
// missing from the payload are deleted. Either every change commits or none.
func (s *Service) ReplaceItems(ctx context.Context, actor shared.Identity, shipmentID int64, inputs []ItemInput) (ItemsView, error) {
	verr := shared.NewValidationError()
	seen := make(map[int64]bool, len(inputs))
	for i, in := range inputs {
		prefix := fmt.Sprintf("items[%d].", i)
		checkItem(verr, prefix, in)
		if in.ID < 0 {
			verr.Add(prefix+"id", "must be a positive integer")
		}
		if in.ID > 0 {
			if seen[in.ID] {
				verr.Add(prefix+"id", "appears more than once")
			}
			seen[in.ID] = true
		}
	}
	if err := verr.OrNil(); err != nil {
		return ItemsView{}, err
	}
	derived := make([]Item, len(inputs))
	for i, in := range inputs {
		derived[i] = derive(shipmentID, in)
	}
	if !totalFits(derived) {
		return ItemsView{}, shared.FieldError("items", errTotalTooLarge)
	}

	var view ItemsView
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		shipment, err := tx.LockShipment(ctx, shipmentID)
		if err != nil {
			return err
		}
		if err := workflow.RequireItemsEditable(shipment.Status); err != nil {
			return err
		}
		existing, err := tx.ListItems(ctx, shipmentID)
		if err != nil {
			return err
		}
		stored := make(map[int64]bool, len(existing))
		for _, it := range existing {
			stored[it.ID] = true
		}
		for i, in := range inputs {
			if in.ID > 0 && !stored[in.ID] {
				return shared.FieldError(fmt.Sprintf("items[%d].id", i), "item does not belong to this shipment")
			}
		}
		for _, it := range existing {
			if seen[it.ID] {
				continue
			}
			if err := tx.DeleteItem(ctx, shipmentID, it.ID); err != nil {
				return err
			}
		}
		for i, item := range derived {
			if item.ID > 0 {
				_, err = tx.UpdateItem(ctx, item)
			} else {
				_, err = tx.InsertItem(ctx, item)
			}
			if err != nil {
				return shared.Prefixed(err, fmt.Sprintf("items[%d].", i))
			}
		}
		if err := refreshImporting(ctx, tx, shipmentID); err != nil {
			return err
		}
		items, err := tx.ListItems(ctx, shipmentID)
		if err != nil {
			return err
		}
		view = itemsView(items)
		return tx.RecordAudit(ctx, shared.AuditLog{
			ActorID:  actor.UserID,
			Action:   "shipment.items_replaced",
			Entity:   "shipment",
			EntityID: entityID(shipmentID),
			Meta:     map[string]any{"items": len(items)},
		})
	})
	if err != nil {
		return ItemsView{}, err
	}
	return view, nil
}
