package suppliers

import (
	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/shiptrack/internal/rbac"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.ResourceSuppliers, rbac.ActionRead))
		r.Get("/", h.List)
		r.Get("/{id}", h.Show)
	})
	r.With(h.rbac.Require(rbac.ResourceSuppliers, rbac.ActionCreate)).Post("/", h.Create)
	r.With(h.rbac.Require(rbac.ResourceSuppliers, rbac.ActionUpdate)).Patch("/{id}", h.Update)
	r.With(h.rbac.Require(rbac.ResourceSuppliers, rbac.ActionDelete)).Delete("/{id}", h.Delete)
}
