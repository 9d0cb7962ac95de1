package cli

import (
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/odyssey-erp/shiptrack/internal/app"
	"github.com/odyssey-erp/shiptrack/internal/platform/db"
)

func migrateCmd() *cobra.Command {
	var statusOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd.Context(), func(_ *app.Config, pool *pgxpool.Pool, logger *slog.Logger) error {
				migrator := db.NewMigrator(pool, logger)
				out := cmd.OutOrStdout()
				if statusOnly {
					pending, err := migrator.Pending(cmd.Context())
					if err != nil {
						return err
					}
					if len(pending) == 0 {
						fmt.Fprintf(out, "%s schema is up to date\n", okMark)
						return nil
					}
					for _, name := range pending {
						fmt.Fprintf(out, "%s pending %s\n", skipMark, name)
					}
					return nil
				}
				applied, err := migrator.Run(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s applied %d migration(s)\n", okMark, applied)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&statusOnly, "status", false, "list pending migrations without applying them")
	return cmd
}
