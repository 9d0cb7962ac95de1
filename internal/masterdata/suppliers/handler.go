package suppliers

import (
	"log/slog"
	"net/http"
	"time"

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

type createRequest struct {
	Name           string  `json:"name" validate:"required,max=200"`
	ContactInfo    *string `json:"contactInfo" validate:"omitempty,max=500"`
	DefaultCountry *string `json:"defaultCountry" validate:"omitempty,max=100"`
}

type updateRequest struct {
	Name           *string `json:"name" validate:"omitempty,max=200"`
	ContactInfo    *string `json:"contactInfo" validate:"omitempty,max=500"`
	DefaultCountry *string `json:"defaultCountry" validate:"omitempty,max=100"`
}

type response struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	ContactInfo    *string   `json:"contactInfo"`
	DefaultCountry *string   `json:"defaultCountry"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type listResponse struct {
	Data       []response      `json:"data"`
	Pagination root.Pagination `json:"pagination"`
}

func toResponse(s Supplier) response {
	return response{
		ID:             s.ID,
		Name:           s.Name,
		ContactInfo:    s.ContactInfo,
		DefaultCountry: s.DefaultCountry,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, page, err := h.service.List(r.Context(), shared.FiltersFromQuery(r.URL.Query()))
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	out := listResponse{Data: make([]response, 0, len(list)), Pagination: page}
	for _, s := range list {
		out.Data = append(out.Data, toResponse(s))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	supplier, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(supplier))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	created, err := h.service.Create(r.Context(), Input{
		Name:           req.Name,
		ContactInfo:    req.ContactInfo,
		DefaultCountry: req.DefaultCountry,
	})
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(created))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
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
	updated, err := h.service.Update(r.Context(), id, Patch{
		Name:           req.Name,
		ContactInfo:    req.ContactInfo,
		DefaultCountry: req.DefaultCountry,
	})
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(updated))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
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
