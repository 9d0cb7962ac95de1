package itemtypes

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
	List(ctx context.Context, filters shared.ListFilters) ([]ItemType, int, error)
	Get(ctx context.Context, id int64) (ItemType, error)
	Create(ctx context.Context, in Input) (ItemType, error)
	Update(ctx context.Context, id int64, in Input) (ItemType, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const columns = `id, name, description, created_at, updated_at`

var sortColumns = map[string]string{
	"name":       "name",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

func scan(row pgx.Row) (ItemType, error) {
	var it ItemType
	err := row.Scan(&it.ID, &it.Name, &it.Description, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]ItemType, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		where += ` AND (name ILIKE $1 OR description ILIKE $1)`
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM item_types`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + columns + ` FROM item_types` + where +
		` ORDER BY ` + shared.OrderBy(filters, sortColumns, "name")
	argCount := len(args)
	query += ` LIMIT $` + strconv.Itoa(argCount+1) + ` OFFSET $` + strconv.Itoa(argCount+2)
	args = append(args, filters.Limit, filters.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []ItemType
	for rows.Next() {
		it, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, it)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (ItemType, error) {
	it, err := scan(r.db.QueryRow(ctx, `SELECT `+columns+` FROM item_types WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return ItemType{}, shared.NotFound("item type")
	}
	return it, err
}

func (r *repository) Create(ctx context.Context, in Input) (ItemType, error) {
	return scan(r.db.QueryRow(ctx, `INSERT INTO item_types (name, description) VALUES ($1, $2) RETURNING `+columns,
		in.Name, in.Description))
}

func (r *repository) Update(ctx context.Context, id int64, in Input) (ItemType, error) {
	it, err := scan(r.db.QueryRow(ctx, `UPDATE item_types SET name = $1, description = $2, updated_at = NOW()
WHERE id = $3 RETURNING `+columns, in.Name, in.Description, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return ItemType{}, shared.NotFound("item type")
	}
	return it, err
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM item_types WHERE id = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return shared.ErrInUse
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.NotFound("item type")
	}
	return nil
}
