package suppliers

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odyssey-erp/shiptrack/internal/masterdata/shared"
	"github.com/odyssey-erp/shiptrack/internal/platform/db"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Supplier, int, error)
	Get(ctx context.Context, id int64) (Supplier, error)
	Create(ctx context.Context, in Input) (Supplier, error)
	Update(ctx context.Context, id int64, in Input) (Supplier, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const columns = `id, name, contact_info, default_country, created_at, updated_at`

var sortColumns = map[string]string{
	"name":       "name",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

func scan(row pgx.Row) (Supplier, error) {
	var s Supplier
	err := row.Scan(&s.ID, &s.Name, &s.ContactInfo, &s.DefaultCountry, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Supplier, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		where += ` AND (name ILIKE $1 OR contact_info ILIKE $1 OR default_country ILIKE $1)`
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM suppliers`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + columns + ` FROM suppliers` + where +
		` ORDER BY ` + shared.OrderBy(filters, sortColumns, "name")
	argCount := len(args)
	argCount++
	query += ` LIMIT $` + strconv.Itoa(argCount)
	argCount++
	query += ` OFFSET $` + strconv.Itoa(argCount)
	args = append(args, filters.Limit, filters.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var suppliers []Supplier
	for rows.Next() {
		s, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Supplier, error) {
	s, err := scan(r.db.QueryRow(ctx, `SELECT `+columns+` FROM suppliers WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Supplier{}, shared.NotFound("supplier")
	}
	return s, err
}

func (r *repository) Create(ctx context.Context, in Input) (Supplier, error) {
	return scan(r.db.QueryRow(ctx, `INSERT INTO suppliers (name, contact_info, default_country)
VALUES ($1, $2, $3) RETURNING `+columns, in.Name, in.ContactInfo, in.DefaultCountry))
}

func (r *repository) Update(ctx context.Context, id int64, in Input) (Supplier, error) {
	s, err := scan(r.db.QueryRow(ctx, `UPDATE suppliers SET name = $1, contact_info = $2, default_country = $3, updated_at = NOW()
WHERE id = $4 RETURNING `+columns, in.Name, in.ContactInfo, in.DefaultCountry, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Supplier{}, shared.NotFound("supplier")
	}
	return s, err
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return shared.ErrInUse
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.NotFound("supplier")
	}
	return nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM suppliers`).Scan(&total)
	return total, err
}
