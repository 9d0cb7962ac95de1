// Package dashboard serves read-only aggregates over shipments, importing
// details and customs.
package dashboard

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stats is the headline dashboard payload.
type Stats struct {
	ShipmentCount      int
	ByStatus           map[string]int
	SupplierCount      int
	ItemTypeCount      int
	TotalShipmentPrice decimal.Decimal
	TotalCommission    decimal.Decimal
	TotalPaidCustoms   decimal.Decimal
	TotalTakhreg       decimal.Decimal
	TotalLossPieces    int64
}

// ImportingTotals sums importing details across shipments.
type ImportingTotals struct {
	ShipmentPrice decimal.Decimal
	Commission    decimal.Decimal
}

// CustomsTotals sums customs data across shipments.
type CustomsTotals struct {
	PaidCustoms decimal.Decimal
	Takhreg     decimal.Decimal
	LossPieces  int64
}

// SummaryRow is the customs outcome of one shipment.
type SummaryRow struct {
	ShipmentID          int64
	ShipmentName        string
	ShipmentNumber      string
	BillDate            *time.Time
	TotalPiecesRecorded int64
	TotalPiecesAdjusted int64
	LossOrDamagePieces  int64
	TotalPaidCustoms    decimal.Decimal
	TotalTakhreg        decimal.Decimal
}

// Summary is the customs summary table with grand totals.
type Summary struct {
	Rows   []SummaryRow
	Totals SummaryRow
}
