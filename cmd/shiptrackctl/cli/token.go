package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/odyssey-erp/shiptrack/internal/app"
	"github.com/odyssey-erp/shiptrack/internal/auth"
	"github.com/odyssey-erp/shiptrack/internal/users"
)

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Identity token helpers for local development",
	}

	var (
		profile users.Profile
		ttl     time.Duration
	)
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Sign an identity token with IDP_SIGNING_KEY",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			raw, err := auth.NewTokenManager(cfg.IDPSigningKey, cfg.IDPIssuer).Issue(profile, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), raw)
			return nil
		},
	}
	issue.Flags().StringVar(&profile.ID, "sub", "", "subject (user id)")
	issue.Flags().StringVar(&profile.Email, "email", "", "email claim")
	issue.Flags().StringVar(&profile.FirstName, "first", "", "given name claim")
	issue.Flags().StringVar(&profile.LastName, "last", "", "family name claim")
	issue.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = issue.MarkFlagRequired("sub")
	_ = issue.MarkFlagRequired("email")

	cmd.AddCommand(issue)
	return cmd
}
