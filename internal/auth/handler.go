package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/shiptrack/internal/platform/httpx"
	"github.com/odyssey-erp/shiptrack/internal/shared"
	"github.com/odyssey-erp/shiptrack/internal/users"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	sessionManager *shared.SessionManager
	csrfManager    *shared.CSRFManager
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager, csrf *shared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:         logger,
		service:        service,
		sessionManager: sessions,
		csrfManager:    csrf,
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Get("/user", h.currentUser)
}

type loginRequest struct {
	Token string `json:"token" validate:"required"`
}

type sessionResponse struct {
	User      users.Response `json:"user"`
	CSRFToken string         `json:"csrfToken,omitempty"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	user, err := h.service.Authenticate(r.Context(), req.Token)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}

	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing during login")
		httpx.RespondError(w, r, h.logger, shared.ErrUnauthorized)
		return
	}
	sess.SetUser(user.ID)
	csrfToken, err := h.csrfManager.EnsureToken(sess)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	h.logger.Info("user signed in", slog.String("user_id", user.ID), slog.String("role", string(user.Role)))
	httpx.JSON(w, http.StatusOK, sessionResponse{User: users.ToResponse(user), CSRFToken: csrfToken})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		h.sessionManager.Destroy(sess)
	}
	httpx.NoContent(w)
}

func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, r, h.logger, shared.ErrUnauthorized)
		return
	}
	user, err := h.service.Resolve(r.Context(), id.UserID)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	out := sessionResponse{User: users.ToResponse(user)}
	if id.Method == shared.AuthSession {
		token, err := h.csrfManager.EnsureToken(shared.SessionFromContext(r.Context()))
		if err != nil {
			httpx.RespondError(w, r, h.logger, err)
			return
		}
		out.CSRFToken = token
	}
	httpx.JSON(w, http.StatusOK, out)
}
