package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/odyssey-erp/shiptrack/internal/app"
	"github.com/odyssey-erp/shiptrack/internal/masterdata/itemtypes"
	mdshared "github.com/odyssey-erp/shiptrack/internal/masterdata/shared"
	"github.com/odyssey-erp/shiptrack/internal/masterdata/suppliers"
	"github.com/odyssey-erp/shiptrack/internal/shared"
)

// SupplierStore is the part of the suppliers service used for seeding.
type SupplierStore interface {
	List(ctx context.Context, filters mdshared.ListFilters) ([]suppliers.Supplier, shared.Pagination, error)
	Create(ctx context.Context, in suppliers.Input) (suppliers.Supplier, error)
}

// ItemTypeStore is the part of the item types service used for seeding.
type ItemTypeStore interface {
	List(ctx context.Context, filters mdshared.ListFilters) ([]itemtypes.ItemType, shared.Pagination, error)
	Create(ctx context.Context, in itemtypes.Input) (itemtypes.ItemType, error)
}

// SeedSummary counts what a seed run created and skipped.
type SeedSummary struct {
	Created int
	Skipped int
}

func ptr(s string) *string { return &s }

var demoSuppliers = []suppliers.Input{
	{Name: "Acme Trading", ContactInfo: ptr("sales@acme.example"), DefaultCountry: ptr("CN")},
	{Name: "Blue Harbor Export", ContactInfo: ptr("+90 212 555 0101"), DefaultCountry: ptr("TR")},
}

var demoItemTypes = []itemtypes.Input{
	{Name: "Textiles", Description: ptr("Fabric and garments")},
	{Name: "Electronics", Description: ptr("Consumer electronics and parts")},
	{Name: "Toys"},
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo suppliers and item types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd.Context(), func(_ *app.Config, pool *pgxpool.Pool, logger *slog.Logger) error {
				audit := shared.NewAuditLogger(pool)
				sup := suppliers.NewService(suppliers.NewRepository(pool), audit, logger)
				types := itemtypes.NewService(itemtypes.NewRepository(pool), audit, logger)
				summary, err := Seed(cmd.Context(), cmd.OutOrStdout(), sup, types)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %d, skipped %d\n", summary.Created, summary.Skipped)
				return nil
			})
		},
	}
}

// Seed creates the demo master data, skipping names that already exist.
func Seed(ctx context.Context, out io.Writer, sup SupplierStore, types ItemTypeStore) (SeedSummary, error) {
	var summary SeedSummary
	for _, in := range demoSuppliers {
		existing, _, err := sup.List(ctx, mdshared.ListFilters{Search: in.Name, Limit: shared.MaxPerPage})
		if err != nil {
			return summary, err
		}
		if hasName(len(existing), func(i int) string { return existing[i].Name }, in.Name) {
			summary.Skipped++
			fmt.Fprintf(out, "%s supplier %s\n", skipMark, in.Name)
			continue
		}
		if _, err := sup.Create(ctx, in); err != nil {
			return summary, fmt.Errorf("seed supplier %s: %w", in.Name, err)
		}
		summary.Created++
		fmt.Fprintf(out, "%s supplier %s\n", okMark, in.Name)
	}
	for _, in := range demoItemTypes {
		existing, _, err := types.List(ctx, mdshared.ListFilters{Search: in.Name, Limit: shared.MaxPerPage})
		if err != nil {
			return summary, err
		}
		if hasName(len(existing), func(i int) string { return existing[i].Name }, in.Name) {
			summary.Skipped++
			fmt.Fprintf(out, "%s item type %s\n", skipMark, in.Name)
			continue
		}
		if _, err := types.Create(ctx, in); err != nil {
			return summary, fmt.Errorf("seed item type %s: %w", in.Name, err)
		}
		summary.Created++
		fmt.Fprintf(out, "%s item type %s\n", okMark, in.Name)
	}
	return summary, nil
}

func hasName(n int, name func(int) string, want string) bool {
	for i := 0; i < n; i++ {
		if strings.EqualFold(name(i), want) {
			return true
		}
	}
	return false
}
