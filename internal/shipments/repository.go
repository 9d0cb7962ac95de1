package shipments

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odyssey-erp/shiptrack/internal/platform/db"
	"github.com/odyssey-erp/shiptrack/internal/shared"
	"github.com/odyssey-erp/shiptrack/internal/workflow"
)

// Reader exposes the queries available both inside and outside a transaction.
type Reader interface {
	GetShipment(ctx context.Context, id int64) (Shipment, error)
	ListItems(ctx context.Context, shipmentID int64) ([]Item, error)
	GetImporting(ctx context.Context, shipmentID int64) (ImportingDetails, bool, error)
	GetCustoms(ctx context.Context, shipmentID int64) (Customs, bool, error)
	GetCustomsByID(ctx context.Context, id int64) (Customs, error)
	ListPerType(ctx context.Context, customsID int64) ([]CustomsPerType, error)
	GetPerType(ctx context.Context, customsID, rowID int64) (CustomsPerType, error)
}

// TxRepository exposes the statements that run inside a transaction.
type TxRepository interface {
	Reader
	LockShipment(ctx context.Context, id int64) (Shipment, error)
	CreateShipment(ctx context.Context, s Shipment) (Shipment, error)
	UpdateShipment(ctx context.Context, s Shipment) (Shipment, error)
	UpdateStatus(ctx context.Context, id int64, status workflow.Status, actorID string) (Shipment, error)
	DeleteShipment(ctx context.Context, id int64) error
	InsertItem(ctx context.Context, item Item) (Item, error)
	UpdateItem(ctx context.Context, item Item) (Item, error)
	DeleteItem(ctx context.Context, shipmentID, itemID int64) error
	UpsertImporting(ctx context.Context, d ImportingDetails) (ImportingDetails, error)
	CreateCustoms(ctx context.Context, c Customs) (Customs, error)
	UpdateCustoms(ctx context.Context, c Customs) (Customs, error)
	InsertPerType(ctx context.Context, row CustomsPerType) (CustomsPerType, error)
	UpdatePerType(ctx context.Context, row CustomsPerType) (CustomsPerType, error)
	DeletePerType(ctx context.Context, customsID, rowID int64) error
	RecordAudit(ctx context.Context, log shared.AuditLog) error
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository provides PostgreSQL backed persistence for shipments.
type Repository struct {
	pool *pgxpool.Pool
	queries
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool, queries: queries{q: pool}}
}

// WithTx wraps callback in repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{queries: queries{q: tx}, audit: shared.NewAuditLogger(tx)})
	})
}

// ListShipments returns one page of shipments, newest first.
func (r *Repository) ListShipments(ctx context.Context, filter ListFilter) ([]Shipment, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := strconv.Itoa(len(args))
		where += ` AND (shipment_name ILIKE $` + n + ` OR shipment_number ILIKE $` + n + ` OR backend_master_key ILIKE $` + n + `)`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM shipments`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + shipmentColumns + ` FROM shipments` + where + ` ORDER BY created_at DESC, id DESC`
	query += ` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, filter.Page.Limit, filter.Page.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []Shipment
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

type txRepository struct {
	queries
	audit *shared.AuditLogger
}

func (t *txRepository) RecordAudit(ctx context.Context, log shared.AuditLog) error {
	return t.audit.Record(ctx, log)
}

type queries struct {
	q querier
}

const (
	shipmentColumns = `id, shipment_name, shipment_number, backend_master_key, status, created_by_id, updated_by_id, created_at, updated_at`
	itemColumns     = `id, shipment_id, supplier_id, item_type_id, ctn, pcs_per_ctn, cou, pri, total, created_at, updated_at`
	importColumns   = `shipment_id, total_shipment_price, commission_percent, commission_amount, shipment_cost, shipment_space_m2, updated_at`
	customsColumns  = `id, shipment_id, bill_date, total_pieces_recorded, total_pieces_adjusted, loss_or_damage_pieces, created_at, updated_at`
	perTypeColumns  = `id, customs_id, item_type_id, total_pcs_per_type, total_ctn_per_type, paid_customs, takhreg, created_at, updated_at`

	masterKeyConstraint = "shipments_backend_master_key_key"
	perTypeUniqueConstr = "customs_per_type_customs_item_type_key"
	itemSupplierFK      = "shipment_items_supplier_id_fkey"
	itemItemTypeFK      = "shipment_items_item_type_id_fkey"
	perTypeItemTypeFK   = "customs_per_type_item_type_id_fkey"
)

func scanShipment(row pgx.Row) (Shipment, error) {
	var (
		s      Shipment
		status string
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Number, &s.BackendMasterKey, &status, &s.CreatedByID, &s.UpdatedByID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return Shipment{}, err
	}
	s.Status = workflow.Status(status)
	return s, nil
}

func scanItem(row pgx.Row) (Item, error) {
	var it Item
	err := row.Scan(&it.ID, &it.ShipmentID, &it.SupplierID, &it.ItemTypeID, &it.Ctn, &it.PcsPerCtn, &it.Cou, &it.Pri, &it.Total, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}

func scanImporting(row pgx.Row) (ImportingDetails, error) {
	var d ImportingDetails
	err := row.Scan(&d.ShipmentID, &d.TotalShipmentPrice, &d.CommissionPercent, &d.CommissionAmount, &d.ShipmentCost, &d.ShipmentSpaceM2, &d.UpdatedAt)
	return d, err
}

func scanCustoms(row pgx.Row) (Customs, error) {
	var c Customs
	err := row.Scan(&c.ID, &c.ShipmentID, &c.BillDate, &c.TotalPiecesRecorded, &c.TotalPiecesAdjusted, &c.LossOrDamagePieces, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func scanPerType(row pgx.Row) (CustomsPerType, error) {
	var p CustomsPerType
	err := row.Scan(&p.ID, &p.CustomsID, &p.ItemTypeID, &p.TotalPcsPerType, &p.TotalCtnPerType, &p.PaidCustoms, &p.Takhreg, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func notFound(err, mapped error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return mapped
	}
	return err
}

// referenceError maps foreign key and unique violations raised by item and
// per-type writes to field level validation errors.
func referenceError(err error) error {
	switch db.ViolatedConstraint(err) {
	case itemSupplierFK:
		return shared.FieldError("supplierId", "unknown supplier")
	case itemItemTypeFK, perTypeItemTypeFK:
		return shared.FieldError("itemTypeId", "unknown item type")
	case perTypeUniqueConstr:
		return ErrPerTypeExists
	}
	return err
}

func (q queries) GetShipment(ctx context.Context, id int64) (Shipment, error) {
	s, err := scanShipment(q.q.QueryRow(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE id = $1`, id))
	return s, notFound(err, ErrShipmentNotFound)
}

func (q queries) LockShipment(ctx context.Context, id int64) (Shipment, error) {
	s, err := scanShipment(q.q.QueryRow(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE id = $1 FOR UPDATE`, id))
	return s, notFound(err, ErrShipmentNotFound)
}

func (q queries) CreateShipment(ctx context.Context, s Shipment) (Shipment, error) {
	created, err := scanShipment(q.q.QueryRow(ctx, `INSERT INTO shipments
    (shipment_name, shipment_number, backend_master_key, status, created_by_id, updated_by_id)
VALUES ($1, $2, $3, $4, $5, $5) RETURNING `+shipmentColumns,
		s.Name, s.Number, s.BackendMasterKey, string(s.Status), s.CreatedByID))
	if db.IsUniqueViolation(err, masterKeyConstraint) {
		return Shipment{}, ErrMasterKeyTaken
	}
	return created, err
}

func (q queries) UpdateShipment(ctx context.Context, s Shipment) (Shipment, error) {
	updated, err := scanShipment(q.q.QueryRow(ctx, `UPDATE shipments
SET shipment_name = $2, shipment_number = $3, backend_master_key = $4, updated_by_id = $5, updated_at = NOW()
WHERE id = $1 RETURNING `+shipmentColumns, s.ID, s.Name, s.Number, s.BackendMasterKey, s.UpdatedByID))
	if db.IsUniqueViolation(err, masterKeyConstraint) {
		return Shipment{}, ErrMasterKeyTaken
	}
	return updated, notFound(err, ErrShipmentNotFound)
}

func (q queries) UpdateStatus(ctx context.Context, id int64, status workflow.Status, actorID string) (Shipment, error) {
	s, err := scanShipment(q.q.QueryRow(ctx, `UPDATE shipments SET status = $2, updated_by_id = $3, updated_at = NOW()
WHERE id = $1 RETURNING `+shipmentColumns, id, string(status), actorID))
	return s, notFound(err, ErrShipmentNotFound)
}

func (q queries) DeleteShipment(ctx context.Context, id int64) error {
	tag, err := q.q.Exec(ctx, `DELETE FROM shipments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrShipmentNotFound
	}
	return nil
}

func (q queries) ListItems(ctx context.Context, shipmentID int64) ([]Item, error) {
	rows, err := q.q.Query(ctx, `SELECT `+itemColumns+` FROM shipment_items WHERE shipment_id = $1 ORDER BY id`, shipmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (q queries) InsertItem(ctx context.Context, it Item) (Item, error) {
	created, err := scanItem(q.q.QueryRow(ctx, `INSERT INTO shipment_items
    (shipment_id, supplier_id, item_type_id, ctn, pcs_per_ctn, cou, pri, total)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING `+itemColumns,
		it.ShipmentID, it.SupplierID, it.ItemTypeID, it.Ctn, it.PcsPerCtn, it.Cou, it.Pri, it.Total))
	if err != nil {
		return Item{}, fmt.Errorf("insert item: %w", referenceError(err))
	}
	return created, nil
}

func (q queries) UpdateItem(ctx context.Context, it Item) (Item, error) {
	updated, err := scanItem(q.q.QueryRow(ctx, `UPDATE shipment_items
SET supplier_id = $3, item_type_id = $4, ctn = $5, pcs_per_ctn = $6, cou = $7, pri = $8, total = $9, updated_at = NOW()
WHERE id = $1 AND shipment_id = $2 RETURNING `+itemColumns,
		it.ID, it.ShipmentID, it.SupplierID, it.ItemTypeID, it.Ctn, it.PcsPerCtn, it.Cou, it.Pri, it.Total))
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, shared.FieldError("id", "item does not belong to this shipment")
	}
	if err != nil {
		return Item{}, fmt.Errorf("update item: %w", referenceError(err))
	}
	return updated, nil
}

func (q queries) DeleteItem(ctx context.Context, shipmentID, itemID int64) error {
	_, err := q.q.Exec(ctx, `DELETE FROM shipment_items WHERE id = $1 AND shipment_id = $2`, itemID, shipmentID)
	return err
}

func (q queries) GetImporting(ctx context.Context, shipmentID int64) (ImportingDetails, bool, error) {
	d, err := scanImporting(q.q.QueryRow(ctx, `SELECT `+importColumns+` FROM importing_details WHERE shipment_id = $1`, shipmentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return ImportingDetails{}, false, nil
	}
	if err != nil {
		return ImportingDetails{}, false, err
	}
	return d, true, nil
}

func (q queries) UpsertImporting(ctx context.Context, d ImportingDetails) (ImportingDetails, error) {
	return scanImporting(q.q.QueryRow(ctx, `INSERT INTO importing_details
    (shipment_id, total_shipment_price, commission_percent, commission_amount, shipment_cost, shipment_space_m2)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (shipment_id) DO UPDATE SET
    total_shipment_price = EXCLUDED.total_shipment_price,
    commission_percent = EXCLUDED.commission_percent,
    commission_amount = EXCLUDED.commission_amount,
    shipment_cost = EXCLUDED.shipment_cost,
    shipment_space_m2 = EXCLUDED.shipment_space_m2,
    updated_at = NOW()
RETURNING `+importColumns,
		d.ShipmentID, d.TotalShipmentPrice, d.CommissionPercent, d.CommissionAmount, d.ShipmentCost, d.ShipmentSpaceM2))
}

func (q queries) GetCustoms(ctx context.Context, shipmentID int64) (Customs, bool, error) {
	c, err := scanCustoms(q.q.QueryRow(ctx, `SELECT `+customsColumns+` FROM customs WHERE shipment_id = $1`, shipmentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Customs{}, false, nil
	}
	if err != nil {
		return Customs{}, false, err
	}
	return c, true, nil
}

func (q queries) GetCustomsByID(ctx context.Context, id int64) (Customs, error) {
	c, err := scanCustoms(q.q.QueryRow(ctx, `SELECT `+customsColumns+` FROM customs WHERE id = $1`, id))
	return c, notFound(err, ErrCustomsNotFound)
}

func (q queries) CreateCustoms(ctx context.Context, c Customs) (Customs, error) {
	return scanCustoms(q.q.QueryRow(ctx, `INSERT INTO customs
    (shipment_id, bill_date, total_pieces_recorded, total_pieces_adjusted, loss_or_damage_pieces)
VALUES ($1, $2, $3, $4, $5) RETURNING `+customsColumns,
		c.ShipmentID, c.BillDate, c.TotalPiecesRecorded, c.TotalPiecesAdjusted, c.LossOrDamagePieces))
}

func (q queries) UpdateCustoms(ctx context.Context, c Customs) (Customs, error) {
	updated, err := scanCustoms(q.q.QueryRow(ctx, `UPDATE customs
SET bill_date = $2, total_pieces_adjusted = $3, loss_or_damage_pieces = $4, updated_at = NOW()
WHERE id = $1 RETURNING `+customsColumns, c.ID, c.BillDate, c.TotalPiecesAdjusted, c.LossOrDamagePieces))
	return updated, notFound(err, ErrCustomsNotFound)
}

func (q queries) ListPerType(ctx context.Context, customsID int64) ([]CustomsPerType, error) {
	rows, err := q.q.Query(ctx, `SELECT `+perTypeColumns+` FROM customs_per_type WHERE customs_id = $1 ORDER BY id`, customsID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CustomsPerType
	for rows.Next() {
		p, err := scanPerType(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (q queries) GetPerType(ctx context.Context, customsID, rowID int64) (CustomsPerType, error) {
	p, err := scanPerType(q.q.QueryRow(ctx, `SELECT `+perTypeColumns+` FROM customs_per_type WHERE id = $1 AND customs_id = $2`, rowID, customsID))
	return p, notFound(err, ErrPerTypeNotFound)
}

func (q queries) InsertPerType(ctx context.Context, p CustomsPerType) (CustomsPerType, error) {
	created, err := scanPerType(q.q.QueryRow(ctx, `INSERT INTO customs_per_type
    (customs_id, item_type_id, total_pcs_per_type, total_ctn_per_type, paid_customs, takhreg)
VALUES ($1, $2, $3, $4, $5, $6) RETURNING `+perTypeColumns,
		p.CustomsID, p.ItemTypeID, p.TotalPcsPerType, p.TotalCtnPerType, p.PaidCustoms, p.Takhreg))
	if err != nil {
		return CustomsPerType{}, referenceError(err)
	}
	return created, nil
}

func (q queries) UpdatePerType(ctx context.Context, p CustomsPerType) (CustomsPerType, error) {
	updated, err := scanPerType(q.q.QueryRow(ctx, `UPDATE customs_per_type
SET item_type_id = $3, total_pcs_per_type = $4, total_ctn_per_type = $5, paid_customs = $6, takhreg = $7, updated_at = NOW()
WHERE id = $1 AND customs_id = $2 RETURNING `+perTypeColumns,
		p.ID, p.CustomsID, p.ItemTypeID, p.TotalPcsPerType, p.TotalCtnPerType, p.PaidCustoms, p.Takhreg))
	if errors.Is(err, pgx.ErrNoRows) {
		return CustomsPerType{}, ErrPerTypeNotFound
	}
	if err != nil {
		return CustomsPerType{}, referenceError(err)
	}
	return updated, nil
}

func (q queries) DeletePerType(ctx context.Context, customsID, rowID int64) error {
	tag, err := q.q.Exec(ctx, `DELETE FROM customs_per_type WHERE id = $1 AND customs_id = $2`, rowID, customsID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPerTypeNotFound
	}
	return nil
}
