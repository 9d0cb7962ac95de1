package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/shiptrack/internal/auth"
	"github.com/odyssey-erp/shiptrack/internal/dashboard"
	"github.com/odyssey-erp/shiptrack/internal/masterdata/itemtypes"
	"github.com/odyssey-erp/shiptrack/internal/masterdata/suppliers"
	"github.com/odyssey-erp/shiptrack/internal/observability"
	"github.com/odyssey-erp/shiptrack/internal/platform/httpx"
	"github.com/odyssey-erp/shiptrack/internal/shared"
	"github.com/odyssey-erp/shiptrack/internal/shipments"
	"github.com/odyssey-erp/shiptrack/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	SessionManager   *shared.SessionManager
	CSRFManager      *shared.CSRFManager
	AuthMiddleware   *auth.Middleware
	AuthHandler      *auth.Handler
	UsersHandler     *users.Handler
	SuppliersHandler *suppliers.Handler
	ItemTypesHandler *itemtypes.Handler
	ShipmentsHandler *shipments.Handler
	DashboardHandler *dashboard.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with shiptrack defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Auth:           params.AuthMiddleware,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Problem(w, http.StatusMethodNotAllowed, "Method Not Allowed", r.Method+" is not supported here")
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	if params.AuthHandler != nil {
		r.Route("/auth", params.AuthHandler.MountRoutes)
	}
	if params.UsersHandler != nil {
		r.Route("/users", params.UsersHandler.MountRoutes)
	}
	if params.SuppliersHandler != nil {
		r.Route("/suppliers", params.SuppliersHandler.MountRoutes)
	}
	if params.ItemTypesHandler != nil {
		r.Route("/item-types", params.ItemTypesHandler.MountRoutes)
	}
	if params.ShipmentsHandler != nil {
		r.Route("/shipments", params.ShipmentsHandler.MountRoutes)
	}
	r.Route("/customs", func(r chi.Router) {
		if params.ShipmentsHandler != nil {
			params.ShipmentsHandler.MountCustomsRoutes(r)
		}
		if params.DashboardHandler != nil {
			params.DashboardHandler.MountCustomsRoutes(r)
		}
	})
	if params.DashboardHandler != nil {
		r.Route("/dashboard", params.DashboardHandler.MountRoutes)
	}

	return r
}
