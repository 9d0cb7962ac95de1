package users

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/shiptrack/internal/platform/httpx"
	"github.com/odyssey-erp/shiptrack/internal/rbac"
	"github.com/odyssey-erp/shiptrack/internal/shared"
)

// Handler manages user management endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.Require(rbac.ResourceUsers, rbac.ActionRead)).Get("/", h.listUsers)
	r.With(h.rbac.Require(rbac.ResourceUsers, rbac.ActionUpdate)).Patch("/{id}/role", h.changeRole)
}

// Response is the JSON representation of a user.
type Response struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToResponse converts a User for JSON output.
func ToResponse(u User) Response {
	return Response{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type listResponse struct {
	Data       []Response        `json:"data"`
	Pagination shared.Pagination `json:"pagination"`
}

type roleRequest struct {
	Role string `json:"role" validate:"required"`
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	list, page, err := h.service.List(r.Context(), shared.PageFromQuery(r.URL.Query()))
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	out := listResponse{Data: make([]Response, 0, len(list)), Pagination: page}
	for _, u := range list {
		out.Data = append(out.Data, ToResponse(u))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) changeRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	actor, _ := shared.IdentityFromContext(r.Context())
	user, err := h.service.ChangeRole(r.Context(), actor, chi.URLParam(r, "id"), req.Role)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ToResponse(user))
}
