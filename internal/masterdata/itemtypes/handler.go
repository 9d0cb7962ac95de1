package itemtypes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/shiptrack/internal/masterdata/shared"
	"github.com/odyssey-erp/shiptrack/internal/platform/httpx"
	"github.com/odyssey-erp/shiptrack/internal/rbac"
	root "github.com/odyssey-erp/shiptrack/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.ResourceItemTypes, rbac.ActionRead))
		r.Get("/", h.list)
		r.Get("/{id}", h.show)
	})
	r.With(h.rbac.Require(rbac.ResourceItemTypes, rbac.ActionCreate)).Post("/", h.create)
	r.With(h.rbac.Require(rbac.ResourceItemTypes, rbac.ActionUpdate)).Patch("/{id}", h.update)
	r.With(h.rbac.Require(rbac.ResourceItemTypes, rbac.ActionDelete)).Delete("/{id}", h.delete)
}

type createRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

type updateRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

type response struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toResponse(it ItemType) response {
	return response{ID: it.ID, Name: it.Name, Description: it.Description, CreatedAt: it.CreatedAt, UpdatedAt: it.UpdatedAt}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, page, err := h.service.List(r.Context(), shared.FiltersFromQuery(r.URL.Query()))
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	data := make([]response, 0, len(list))
	for _, it := range list {
		data = append(data, toResponse(it))
	}
	httpx.JSON(w, http.StatusOK, struct {
		Data       []response      `json:"data"`
		Pagination root.Pagination `json:"pagination"`
	}{data, page})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	it, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(it))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	it, err := h.service.Create(r.Context(), Input{Name: req.Name, Description: req.Description})
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(it))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	it, err := h.service.Update(r.Context(), id, Patch{Name: req.Name, Description: req.Description})
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(it))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.NoContent(w)
}
