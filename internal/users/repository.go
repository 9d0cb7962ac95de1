package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odyssey-erp/shiptrack/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, email, first_name, last_name, role, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var (
		u    User
		role string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return User{}, err
	}
	u.Role = shared.Role(role)
	return u, nil
}

// Upsert inserts the user on first login and refreshes the profile fields
// afterwards. The role column is never touched by this statement.
func (r *Repository) Upsert(ctx context.Context, p Profile, role shared.Role) (User, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO users (id, email, first_name, last_name, role)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, first_name = EXCLUDED.first_name,
    last_name = EXCLUDED.last_name, updated_at = NOW()
RETURNING `+userColumns, p.ID, p.Email, p.FirstName, p.LastName, string(role))
	u, err := scanUser(row)
	if err != nil {
		return User{}, fmt.Errorf("upsert user: %w", err)
	}
	return u, nil
}

// Get returns a single user.
func (r *Repository) Get(ctx context.Context, id string) (User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return u, err
}

// List returns one page of users ordered by email, plus the total count.
func (r *Repository) List(ctx context.Context, page shared.PageRequest) ([]User, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY email, id LIMIT $1 OFFSET $2`, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// SetRole updates the role of an existing user.
func (r *Repository) SetRole(ctx context.Context, id string, role shared.Role) (User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1 RETURNING `+userColumns, id, string(role)))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return u, err
}
