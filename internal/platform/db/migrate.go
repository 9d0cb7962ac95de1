package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrator applies the embedded SQL migrations in filename order and records
// each applied file in schema_migrations.
type Migrator struct {
	pool   *pgxpool.Pool
	files  fs.FS
	logger *slog.Logger
}

// NewMigrator creates a migrator over the embedded migrations.
func NewMigrator(pool *pgxpool.Pool, logger *slog.Logger) *Migrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Migrator{pool: pool, files: migrationFS, logger: logger}
}

// Pending lists migration files not yet applied.
func (m *Migrator) Pending(ctx context.Context) ([]string, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}
	applied, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}
	all, err := MigrationNames(m.files)
	if err != nil {
		return nil, err
	}
	pending := make([]string, 0, len(all))
	for _, name := range all {
		if _, ok := applied[name]; !ok {
			pending = append(pending, name)
		}
	}
	return pending, nil
}

// Run applies every pending migration, each inside its own transaction.
func (m *Migrator) Run(ctx context.Context) (int, error) {
	pending, err := m.Pending(ctx)
	if err != nil {
		return 0, err
	}
	for _, name := range pending {
		body, err := fs.ReadFile(m.files, "migrations/"+name)
		if err != nil {
			return 0, fmt.Errorf("platform/db: read migration %s: %w", name, err)
		}
		err = WithTx(ctx, m.pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, string(body)); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, name)
			return err
		})
		if err != nil {
			return 0, fmt.Errorf("platform/db: apply migration %s: %w", name, err)
		}
		m.logger.Info("applied migration", slog.String("name", name))
	}
	return len(pending), nil
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	_, err := m.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
	if err != nil {
		return fmt.Errorf("platform/db: create schema_migrations: %w", err)
	}
	return nil
}

func (m *Migrator) applied(ctx context.Context) (map[string]struct{}, error) {
	rows, err := m.pool.Query(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out[name] = struct{}{}
	}
	return out, rows.Err()
}

// MigrationNames returns the sorted .sql file names under migrations/.
func MigrationNames(files fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(files, "migrations")
	if err != nil {
		return nil, fmt.Errorf("platform/db: read migrations: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}
