// Package cli implements the shiptrackctl operator commands.
package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/odyssey-erp/shiptrack/internal/app"
	"github.com/odyssey-erp/shiptrack/internal/platform/db"
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	skipMark = color.New(color.FgYellow).Sprint("-")
)

// NewRootCmd assembles the command tree writing human output to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "shiptrackctl",
		Short:         "Operator tooling for the shiptrack service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	root.AddCommand(migrateCmd())
	root.AddCommand(usersCmd())
	root.AddCommand(tokenCmd())
	root.AddCommand(seedCmd())
	return root
}

// withPool loads configuration, opens the database and runs fn.
func withPool(ctx context.Context, fn func(cfg *app.Config, pool *pgxpool.Pool, logger *slog.Logger) error) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	logger := app.NewLogger(cfg)
	pool, err := db.New(ctx, cfg.PGDSN, db.Options{MaxConns: 2})
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(cfg, pool, logger)
}
