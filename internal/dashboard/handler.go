package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/shiptrack/internal/calc"
	"github.com/odyssey-erp/shiptrack/internal/platform/httpx"
	"github.com/odyssey-erp/shiptrack/internal/rbac"
)

// Handler serves dashboard endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler constructs a dashboard handler.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers /dashboard endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.Require(rbac.ResourceDashboard, rbac.ActionRead)).Get("/stats", h.stats)
}

// MountCustomsRoutes registers the customs summary under /customs.
func (h *Handler) MountCustomsRoutes(r chi.Router) {
	r.With(h.rbac.Require(rbac.ResourceCustoms, rbac.ActionRead)).Get("/summary", h.customsSummary)
}

type statsResponse struct {
	ShipmentCount      int            `json:"shipmentCount"`
	ShipmentsByStatus  map[string]int `json:"shipmentsByStatus"`
	SupplierCount      int            `json:"supplierCount"`
	ItemTypeCount      int            `json:"itemTypeCount"`
	TotalShipmentPrice string         `json:"totalShipmentPrice"`
	TotalCommission    string         `json:"totalCommission"`
	TotalPaidCustoms   string         `json:"totalPaidCustoms"`
	TotalTakhreg       string         `json:"totalTakhreg"`
	TotalLossPieces    int64          `json:"totalLossPieces"`
}

type summaryRowResponse struct {
	ShipmentID          int64   `json:"shipmentId,omitempty"`
	ShipmentName        string  `json:"shipmentName,omitempty"`
	ShipmentNumber      string  `json:"shipmentNumber,omitempty"`
	BillDate            *string `json:"billDate,omitempty"`
	TotalPiecesRecorded int64   `json:"totalPiecesRecorded"`
	TotalPiecesAdjusted int64   `json:"totalPiecesAdjusted"`
	LossOrDamagePieces  int64   `json:"lossOrDamagePieces"`
	TotalPaidCustoms    string  `json:"totalPaidCustoms"`
	TotalTakhreg        string  `json:"totalTakhreg"`
}

type summaryResponse struct {
	Data   []summaryRowResponse `json:"data"`
	Totals summaryRowResponse   `json:"totals"`
}

func toSummaryRow(row SummaryRow) summaryRowResponse {
	out := summaryRowResponse{
		ShipmentID:          row.ShipmentID,
		ShipmentName:        row.ShipmentName,
		ShipmentNumber:      row.ShipmentNumber,
		TotalPiecesRecorded: row.TotalPiecesRecorded,
		TotalPiecesAdjusted: row.TotalPiecesAdjusted,
		LossOrDamagePieces:  row.LossOrDamagePieces,
		TotalPaidCustoms:    calc.FormatMoney(row.TotalPaidCustoms),
		TotalTakhreg:        calc.FormatMoney(row.TotalTakhreg),
	}
	if row.BillDate != nil {
		d := row.BillDate.Format("2006-01-02")
		out.BillDate = &d
	}
	return out
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, statsResponse{
		ShipmentCount:      stats.ShipmentCount,
		ShipmentsByStatus:  stats.ByStatus,
		SupplierCount:      stats.SupplierCount,
		ItemTypeCount:      stats.ItemTypeCount,
		TotalShipmentPrice: calc.FormatMoney(stats.TotalShipmentPrice),
		TotalCommission:    calc.FormatMoney(stats.TotalCommission),
		TotalPaidCustoms:   calc.FormatMoney(stats.TotalPaidCustoms),
		TotalTakhreg:       calc.FormatMoney(stats.TotalTakhreg),
		TotalLossPieces:    stats.TotalLossPieces,
	})
}

func (h *Handler) customsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.CustomsSummary(r.Context())
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	out := summaryResponse{Data: make([]summaryRowResponse, 0, len(summary.Rows)), Totals: toSummaryRow(summary.Totals)}
	for _, row := range summary.Rows {
		out.Data = append(out.Data, toSummaryRow(row))
	}
	httpx.JSON(w, http.StatusOK, out)
}
