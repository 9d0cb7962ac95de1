// Package calc holds the derived-value rules for shipments: line totals,
// shipment totals, commission, loss/damage and customs fee sums.
//
// All money is handled as shopspring decimals and rounded to two places; no
// binary floating point is involved at any step.
package calc

import (
	"errors"

	"github.com/shopspring/decimal"
)

const (
	// MoneyScale is the number of decimal places kept for monetary values.
	MoneyScale int32 = 2
	// SpaceScale is the number of decimal places kept for shipment space (m²).
	SpaceScale int32 = 3
)

var (
	hundred = decimal.NewFromInt(100)

	ErrNegative        = errors.New("must not be negative")
	ErrPercentRange    = errors.New("must be between 0 and 100")
	ErrTooManyDecimals = errors.New("has too many decimal places")
	ErrTooLarge        = errors.New("exceeds the maximum storable value")

	// MaxMoney is the exclusive upper bound of any stored amount, matching
	// NUMERIC(14,2) columns.
	MaxMoney = decimal.New(1, 12)
	// MaxSpace is the exclusive upper bound of shipment space, matching
	// NUMERIC(12,3).
	MaxSpace = decimal.New(1, 9)
)

// Line is the input of a shipment item calculation.
type Line struct {
	Ctn       int64
	PcsPerCtn int64
	Pri       decimal.Decimal
}

// Fees is one customs-per-type row's contribution to customs totals.
type Fees struct {
	PaidCustoms decimal.Decimal
	Takhreg     decimal.Decimal
}

// Cou returns the piece count of a line: cartons times pieces per carton.
func Cou(ctn, pcsPerCtn int64) int64 {
	return ctn * pcsPerCtn
}

// LineTotal returns cou and total = cou × unit price for one item.
func LineTotal(ctn, pcsPerCtn int64, pri decimal.Decimal) (int64, decimal.Decimal) {
	cou := Cou(ctn, pcsPerCtn)
	return cou, Money(decimal.NewFromInt(cou).Mul(pri))
}

// ShipmentTotalPrice sums the line totals of every item.
func ShipmentTotalPrice(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		_, lineTotal := LineTotal(l.Ctn, l.PcsPerCtn, l.Pri)
		total = total.Add(lineTotal)
	}
	return Money(total)
}

// TotalPieces sums cou across lines.
func TotalPieces(lines []Line) int64 {
	var pieces int64
	for _, l := range lines {
		pieces += Cou(l.Ctn, l.PcsPerCtn)
	}
	return pieces
}

// CommissionAmount returns totalPrice × percent / 100.
func CommissionAmount(totalPrice, percent decimal.Decimal) decimal.Decimal {
	return Money(totalPrice.Mul(percent).Div(hundred))
}

// LossOrDamage returns recorded − adjusted. Negative results are kept.
func LossOrDamage(recorded, adjusted int64) int64 {
	return recorded - adjusted
}

// TotalPaidCustoms sums paid customs across per-type rows.
func TotalPaidCustoms(rows []Fees) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.PaidCustoms)
	}
	return Money(total)
}

// TotalTakhreg sums takhreg fees across per-type rows.
func TotalTakhreg(rows []Fees) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Takhreg)
	}
	return Money(total)
}

// Money rounds to MoneyScale.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// Space rounds to SpaceScale.
func Space(d decimal.Decimal) decimal.Decimal {
	return d.Round(SpaceScale)
}

// FormatMoney renders d with exactly two decimals, e.g. "600.00".
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(MoneyScale)
}

// FormatSpace renders d with exactly three decimals.
func FormatSpace(d decimal.Decimal) string {
	return d.StringFixed(SpaceScale)
}

// CheckMoney validates a non-negative amount below MaxMoney with at most two
// decimals.
func CheckMoney(d decimal.Decimal) error {
	if d.IsNegative() {
		return ErrNegative
	}
	if d.GreaterThanOrEqual(MaxMoney) {
		return ErrTooLarge
	}
	if !d.Equal(d.Round(MoneyScale)) {
		return ErrTooManyDecimals
	}
	return nil
}

// CheckSpace validates a non-negative space value below MaxSpace with at most
// three decimals.
func CheckSpace(d decimal.Decimal) error {
	if d.IsNegative() {
		return ErrNegative
	}
	if d.GreaterThanOrEqual(MaxSpace) {
		return ErrTooLarge
	}
	if !d.Equal(d.Round(SpaceScale)) {
		return ErrTooManyDecimals
	}
	return nil
}

// CheckPercent validates a percentage in [0,100] with at most two decimals.
func CheckPercent(d decimal.Decimal) error {
	if d.IsNegative() || d.GreaterThan(hundred) {
		return ErrPercentRange
	}
	if !d.Equal(d.Round(MoneyScale)) {
		return ErrTooManyDecimals
	}
	return nil
}
