package dashboard

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository runs the aggregate queries against PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) ShipmentsByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM shipments GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}

func (r *Repository) CountSuppliers(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM suppliers`).Scan(&n)
	return n, err
}

func (r *Repository) CountItemTypes(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM item_types`).Scan(&n)
	return n, err
}

func (r *Repository) ImportingTotals(ctx context.Context) (ImportingTotals, error) {
	var t ImportingTotals
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(total_shipment_price), 0), COALESCE(SUM(commission_amount), 0)
FROM importing_details`).Scan(&t.ShipmentPrice, &t.Commission)
	return t, err
}

func (r *Repository) CustomsTotals(ctx context.Context) (CustomsTotals, error) {
	var t CustomsTotals
	err := r.pool.QueryRow(ctx, `SELECT
    COALESCE((SELECT SUM(paid_customs) FROM customs_per_type), 0),
    COALESCE((SELECT SUM(takhreg) FROM customs_per_type), 0),
    COALESCE((SELECT SUM(loss_or_damage_pieces) FROM customs), 0)`).Scan(&t.PaidCustoms, &t.Takhreg, &t.LossPieces)
	return t, err
}

func (r *Repository) CustomsSummary(ctx context.Context) ([]SummaryRow, error) {
	rows, err := r.pool.Query(ctx, `SELECT s.id, s.shipment_name, s.shipment_number, c.bill_date,
    c.total_pieces_recorded, c.total_pieces_adjusted, c.loss_or_damage_pieces,
    COALESCE(SUM(p.paid_customs), 0), COALESCE(SUM(p.takhreg), 0)
FROM customs c
JOIN shipments s ON s.id = c.shipment_id
LEFT JOIN customs_per_type p ON p.customs_id = c.id
GROUP BY s.id, c.id
ORDER BY s.created_at DESC, s.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SummaryRow
	for rows.Next() {
		var row SummaryRow
		if err := rows.Scan(&row.ShipmentID, &row.ShipmentName, &row.ShipmentNumber, &row.BillDate,
			&row.TotalPiecesRecorded, &row.TotalPiecesAdjusted, &row.LossOrDamagePieces,
			&row.TotalPaidCustoms, &row.TotalTakhreg); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
