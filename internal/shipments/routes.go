package shipments

import (
	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/shiptrack/internal/rbac"
)

// MountRoutes registers the /shipments endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	require := h.rbac.Require

	r.With(require(rbac.ResourceShipments, rbac.ActionRead)).Get("/", h.list)
	r.With(require(rbac.ResourceShipments, rbac.ActionCreate)).Post("/", h.create)

	r.Route("/{id}", func(r chi.Router) {
		r.With(require(rbac.ResourceShipments, rbac.ActionRead)).Get("/", h.show)
		r.With(require(rbac.ResourceShipments, rbac.ActionUpdate)).Patch("/", h.update)
		r.With(require(rbac.ResourceShipments, rbac.ActionDelete)).Delete("/", h.delete)
		r.With(require(rbac.ResourceShipments, rbac.ActionAdvance)).Post("/advance", h.advance)
		r.With(require(rbac.ResourceShipments, rbac.ActionOverwriteStatus)).Patch("/status", h.setStatus)

		r.With(require(rbac.ResourceItems, rbac.ActionRead)).Get("/items", h.listItems)
		r.With(require(rbac.ResourceItems, rbac.ActionCreate)).Post("/items", h.addItem)
		r.With(require(rbac.ResourceItems, rbac.ActionUpdate)).Put("/items", h.replaceItems)

		r.With(require(rbac.ResourceImporting, rbac.ActionRead)).Get("/importing-details", h.showImporting)
		r.With(require(rbac.ResourceImporting, rbac.ActionUpdate)).Put("/importing-details", h.saveImporting)

		r.With(require(rbac.ResourceCustoms, rbac.ActionRead)).Get("/customs", h.showCustoms)
		r.With(require(rbac.ResourceCustoms, rbac.ActionUpdate)).Put("/customs", h.saveCustoms)
	})
}

// MountCustomsRoutes registers the per-type endpoints under /customs.
func (h *Handler) MountCustomsRoutes(r chi.Router) {
	require := h.rbac.Require

	r.With(require(rbac.ResourceCustomsPerType, rbac.ActionCreate)).Post("/{id}/per-type", h.addPerType)
	r.With(require(rbac.ResourceCustomsPerType, rbac.ActionUpdate)).Patch("/{id}/per-type/{rowId}", h.updatePerType)
	r.With(require(rbac.ResourceCustomsPerType, rbac.ActionDelete)).Delete("/{id}/per-type/{rowId}", h.deletePerType)
}
