package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/shiptrack/internal/rbac"
	"github.com/odyssey-erp/shiptrack/internal/shared"
)

type stubRepo struct {
	byStatus map[string]int
	rows     []SummaryRow
	failOn   string
}

func (s stubRepo) fail(name string) error {
	if s.failOn == name {
		return errors.New("boom")
	}
	return nil
}

func (s stubRepo) ShipmentsByStatus(context.Context) (map[string]int, error) {
	return s.byStatus, s.fail("status")
}

func (s stubRepo) CountSuppliers(context.Context) (int, error) { return 3, s.fail("suppliers") }

func (s stubRepo) CountItemTypes(context.Context) (int, error) { return 5, nil }

func (s stubRepo) ImportingTotals(context.Context) (ImportingTotals, error) {
	return ImportingTotals{ShipmentPrice: decimal.RequireFromString("600"), Commission: decimal.RequireFromString("30")}, nil
}

func (s stubRepo) CustomsTotals(context.Context) (CustomsTotals, error) {
	return CustomsTotals{PaidCustoms: decimal.RequireFromString("45.5"), Takhreg: decimal.Zero, LossPieces: 4}, nil
}

func (s stubRepo) CustomsSummary(context.Context) ([]SummaryRow, error) {
	return s.rows, s.fail("summary")
}

func TestStatsFillsEveryStatus(t *testing.T) {
	svc := NewService(stubRepo{byStatus: map[string]int{"CREATED": 2, "CUSTOMS_RECEIVED": 1}})
	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, stats.ShipmentCount)
	require.Len(t, stats.ByStatus, 4)
	require.Zero(t, stats.ByStatus["CUSTOMS_IN_PROGRESS"])
	require.Equal(t, 3, stats.SupplierCount)
	require.Equal(t, "30.00", stats.TotalCommission.StringFixed(2))
	require.EqualValues(t, 4, stats.TotalLossPieces)

	_, err = NewService(stubRepo{failOn: "suppliers"}).Stats(context.Background())
	require.Error(t, err)
}

func TestCustomsSummaryTotals(t *testing.T) {
	billDate := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	svc := NewService(stubRepo{rows: []SummaryRow{
		{ShipmentID: 1, ShipmentName: "Q4 Import", ShipmentNumber: "SHIP-001", BillDate: &billDate,
			TotalPiecesRecorded: 240, TotalPiecesAdjusted: 236, LossOrDamagePieces: 4,
			TotalPaidCustoms: decimal.RequireFromString("45.5"), TotalTakhreg: decimal.RequireFromString("10")},
		{ShipmentID: 2, ShipmentName: "Spring", ShipmentNumber: "SHIP-002",
			TotalPiecesRecorded: 100, TotalPiecesAdjusted: 101, LossOrDamagePieces: -1,
			TotalPaidCustoms: decimal.RequireFromString("4.5"), TotalTakhreg: decimal.Zero},
	}})

	r := chi.NewRouter()
	h := NewHandler(nil, svc, rbac.Middleware{})
	r.Route("/customs", h.MountCustomsRoutes)
	r.Route("/dashboard", h.MountRoutes)

	req := httptest.NewRequest(http.MethodGet, "/customs/summary", nil)
	req = req.WithContext(shared.ContextWithIdentity(req.Context(), shared.Identity{UserID: "v", Role: shared.RoleViewer}))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var body summaryResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	require.Equal(t, "2024-12-01", *body.Data[0].BillDate)
	require.Nil(t, body.Data[1].BillDate)
	require.EqualValues(t, 340, body.Totals.TotalPiecesRecorded)
	require.EqualValues(t, 3, body.Totals.LossOrDamagePieces)
	require.Equal(t, "50.00", body.Totals.TotalPaidCustoms)
	require.Equal(t, "10.00", body.Totals.TotalTakhreg)

	req = httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}
