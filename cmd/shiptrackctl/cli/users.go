package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/odyssey-erp/shiptrack/internal/app"
	"github.com/odyssey-erp/shiptrack/internal/shared"
	"github.com/odyssey-erp/shiptrack/internal/users"
)

// RoleSetter assigns roles without an acting admin. It is used to bootstrap
// the first ADMIN, which the API cannot do.
type RoleSetter interface {
	SetRole(ctx context.Context, id string, role shared.Role) (users.User, error)
}

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage local user records",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set-role <user-id> <ADMIN|OPERATOR|VIEWER>",
		Short: "Change a user's role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, ok := shared.ParseRole(args[1])
			if !ok {
				return fmt.Errorf("unknown role %q", args[1])
			}
			return withPool(cmd.Context(), func(_ *app.Config, pool *pgxpool.Pool, _ *slog.Logger) error {
				return setRole(cmd, users.NewRepository(pool), args[0], role)
			})
		},
	})
	return cmd
}

func setRole(cmd *cobra.Command, repo RoleSetter, id string, role shared.Role) error {
	user, err := repo.SetRole(cmd.Context(), id, role)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s) is now %s\n", okMark, user.ID, user.Email, user.Role)
	return nil
}
