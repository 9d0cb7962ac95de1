package rbac

import (
	"log/slog"
	"net/http"

	"github.com/odyssey-erp/shiptrack/internal/platform/httpx"
	"github.com/odyssey-erp/shiptrack/internal/shared"
)

// Middleware wires RBAC authorization helpers for HTTP handlers.
type Middleware struct {
	Logger *slog.Logger
}

// Require ensures the request identity may perform action on resource.
func (m Middleware) Require(resource Resource, action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := shared.IdentityFromContext(r.Context())
			if err := Authorize(id, ok, resource, action); err != nil {
				if ok && m.Logger != nil {
					m.Logger.Warn("rbac denied",
						slog.String("user_id", id.UserID),
						slog.String("role", string(id.Role)),
						slog.String("resource", string(resource)),
						slog.String("action", string(action)),
					)
				}
				httpx.RespondError(w, r, m.Logger, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
