package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/odyssey-erp/shiptrack/internal/platform/httpx"
	"github.com/odyssey-erp/shiptrack/internal/shared"
)

// Middleware resolves the caller identity from a bearer token or the
// session cookie and stores it in the request context.
type Middleware struct {
	logger  *slog.Logger
	service *Service
}

// NewMiddleware constructs the identity middleware.
func NewMiddleware(logger *slog.Logger, service *Service) *Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &Middleware{logger: logger, service: service}
}

// Identity attaches shared.Identity to the request when the caller is
// authenticated. Anonymous requests pass through untouched; route level RBAC
// turns them into 401 where needed.
func (m *Middleware) Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if raw, ok := bearerToken(r); ok {
			user, err := m.service.Authenticate(ctx, raw)
			if err != nil {
				httpx.RespondError(w, r, m.logger, err)
				return
			}
			ctx = shared.ContextWithIdentity(ctx, IdentityOf(user, shared.AuthBearer))
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		if sess := shared.SessionFromContext(ctx); sess != nil && sess.User() != "" {
			user, err := m.service.Resolve(ctx, sess.User())
			switch {
			case err == nil:
				ctx = shared.ContextWithIdentity(ctx, IdentityOf(user, shared.AuthSession))
			case errors.Is(err, shared.ErrUnauthorized):
				m.logger.Info("session user no longer exists", slog.String("user_id", sess.User()))
			default:
				httpx.RespondError(w, r, m.logger, err)
				return
			}
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	return strings.TrimSpace(token), true
}
