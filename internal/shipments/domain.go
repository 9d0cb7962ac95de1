// Package shipments owns the shipment aggregate: the shipment header, its
// items, importing details, customs record and per-type customs rows, together
// with the status workflow that gates edits to each of them.
package shipments

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/shiptrack/internal/shared"
	"github.com/odyssey-erp/shiptrack/internal/workflow"
)

// Shipment is the header record of an import shipment.
type Shipment struct {
	ID               int64
	Name             string
	Number           string
	BackendMasterKey string
	Status           workflow.Status
	CreatedByID      string
	UpdatedByID      string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Item is one supplier/item-type line of a shipment.
type Item struct {
	ID         int64
	ShipmentID int64
	SupplierID int64
	ItemTypeID int64
	Ctn        int64
	PcsPerCtn  int64
	Cou        int64
	Pri        decimal.Decimal
	Total      decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ImportingDetails holds the import costing of a shipment.
type ImportingDetails struct {
	ShipmentID         int64
	TotalShipmentPrice decimal.Decimal
	CommissionPercent  decimal.Decimal
	CommissionAmount   decimal.Decimal
	ShipmentCost       decimal.Decimal
	ShipmentSpaceM2    decimal.Decimal
	UpdatedAt          time.Time
}

// Customs is the customs reconciliation of a shipment.
type Customs struct {
	ID                  int64
	ShipmentID          int64
	BillDate            *time.Time
	TotalPiecesRecorded int64
	TotalPiecesAdjusted int64
	LossOrDamagePieces  int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// CustomsPerType is the customs breakdown for one item type.
type CustomsPerType struct {
	ID              int64
	CustomsID       int64
	ItemTypeID      int64
	TotalPcsPerType int64
	TotalCtnPerType int64
	PaidCustoms     decimal.Decimal
	Takhreg         decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ListFilter narrows shipment listings.
type ListFilter struct {
	Status workflow.Status
	Search string
	Page   shared.PageRequest
}

// CreateInput is the payload for a new shipment.
type CreateInput struct {
	Name   string
	Number string
}

// UpdateInput is a partial shipment header change.
type UpdateInput struct {
	Name             *string
	Number           *string
	BackendMasterKey *string
}

// ItemInput is a client supplied item line. Cou and Total are always derived.
type ItemInput struct {
	ID         int64
	SupplierID int64
	ItemTypeID int64
	Ctn        int64
	PcsPerCtn  int64
	Pri        decimal.Decimal
}

// ImportingInput is a partial importing details change.
type ImportingInput struct {
	CommissionPercent *decimal.Decimal
	ShipmentCost      *decimal.Decimal
	ShipmentSpaceM2   *decimal.Decimal
}

// CustomsInput is a partial customs change. ClearBillDate removes the date.
type CustomsInput struct {
	BillDate            *time.Time
	ClearBillDate       bool
	TotalPiecesAdjusted *int64
}

// PerTypeInput is the payload of a per-type customs row.
type PerTypeInput struct {
	ItemTypeID      *int64
	TotalPcsPerType *int64
	TotalCtnPerType *int64
	PaidCustoms     *decimal.Decimal
	Takhreg         *decimal.Decimal
}

// ItemsView is the item list of a shipment with its totals.
type ItemsView struct {
	Items       []Item
	TotalPieces int64
	TotalPrice  decimal.Decimal
}

// CustomsView is the customs state of a shipment. Customs is only set when
// the visibility is available.
type CustomsView struct {
	ShipmentID       int64
	Status           workflow.Status
	Visibility       workflow.Visibility
	Customs          *Customs
	PerType          []CustomsPerType
	TotalPaidCustoms decimal.Decimal
	TotalTakhreg     decimal.Decimal
}

// Transition describes a committed status change.
type Transition struct {
	Shipment      Shipment
	From          workflow.Status
	To            workflow.Status
	CustomsSeeded bool
}

var (
	// ErrShipmentNotFound is returned when no shipment matches the id.
	ErrShipmentNotFound = fmt.Errorf("shipment %w", shared.ErrNotFound)
	// ErrCustomsNotFound is returned when no customs record matches.
	ErrCustomsNotFound = fmt.Errorf("customs record %w", shared.ErrNotFound)
	// ErrPerTypeNotFound is returned when no per-type row matches.
	ErrPerTypeNotFound = fmt.Errorf("customs per-type row %w", shared.ErrNotFound)
	// ErrMasterKeyTaken is returned for a duplicate backend master key.
	ErrMasterKeyTaken = fmt.Errorf("%w: backend master key already in use", shared.ErrDuplicate)
	// ErrPerTypeExists is returned when the item type already has a row.
	ErrPerTypeExists = fmt.Errorf("%w: item type already has a customs row", shared.ErrDuplicate)
)
