package dashboard

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/odyssey-erp/shiptrack/internal/calc"
	"github.com/odyssey-erp/shiptrack/internal/workflow"
)

// RepositoryPort lists the aggregate queries the dashboard relies on.
type RepositoryPort interface {
	ShipmentsByStatus(ctx context.Context) (map[string]int, error)
	CountSuppliers(ctx context.Context) (int, error)
	CountItemTypes(ctx context.Context) (int, error)
	ImportingTotals(ctx context.Context) (ImportingTotals, error)
	CustomsTotals(ctx context.Context) (CustomsTotals, error)
	CustomsSummary(ctx context.Context) ([]SummaryRow, error)
}

// Service assembles dashboard payloads.
type Service struct {
	repo RepositoryPort
}

// NewService builds a dashboard service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Stats runs the independent aggregates concurrently.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var (
		byStatus  map[string]int
		suppliers int
		itemTypes int
		importing ImportingTotals
		customs   CustomsTotals
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		byStatus, err = s.repo.ShipmentsByStatus(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		suppliers, err = s.repo.CountSuppliers(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		itemTypes, err = s.repo.CountItemTypes(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		importing, err = s.repo.ImportingTotals(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		customs, err = s.repo.CustomsTotals(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	stats := Stats{
		ByStatus:           make(map[string]int, len(workflow.Statuses())),
		SupplierCount:      suppliers,
		ItemTypeCount:      itemTypes,
		TotalShipmentPrice: calc.Money(importing.ShipmentPrice),
		TotalCommission:    calc.Money(importing.Commission),
		TotalPaidCustoms:   calc.Money(customs.PaidCustoms),
		TotalTakhreg:       calc.Money(customs.Takhreg),
		TotalLossPieces:    customs.LossPieces,
	}
	for _, status := range workflow.Statuses() {
		n := byStatus[string(status)]
		stats.ByStatus[string(status)] = n
		stats.ShipmentCount += n
	}
	return stats, nil
}

// CustomsSummary returns one row per shipment with a customs record and the
// grand totals across them.
func (s *Service) CustomsSummary(ctx context.Context) (Summary, error) {
	rows, err := s.repo.CustomsSummary(ctx)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{
		Rows:   make([]SummaryRow, 0, len(rows)),
		Totals: SummaryRow{TotalPaidCustoms: decimal.Zero, TotalTakhreg: decimal.Zero},
	}
	for _, row := range rows {
		row.TotalPaidCustoms = calc.Money(row.TotalPaidCustoms)
		row.TotalTakhreg = calc.Money(row.TotalTakhreg)
		summary.Rows = append(summary.Rows, row)
		summary.Totals.TotalPiecesRecorded += row.TotalPiecesRecorded
		summary.Totals.TotalPiecesAdjusted += row.TotalPiecesAdjusted
		summary.Totals.LossOrDamagePieces += row.LossOrDamagePieces
		summary.Totals.TotalPaidCustoms = summary.Totals.TotalPaidCustoms.Add(row.TotalPaidCustoms)
		summary.Totals.TotalTakhreg = summary.Totals.TotalTakhreg.Add(row.TotalTakhreg)
	}
	return summary, nil
}
