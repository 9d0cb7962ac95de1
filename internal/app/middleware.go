package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/cors"
	"github.com/unrolled/secure"

	"github.com/odyssey-erp/shiptrack/internal/auth"
	"github.com/odyssey-erp/shiptrack/internal/observability"
	"github.com/odyssey-erp/shiptrack/internal/platform/httpx"
	"github.com/odyssey-erp/shiptrack/internal/shared"
)

// MiddlewareConfig aggregates dependencies shared by the middleware stack.
type MiddlewareConfig struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Auth           *auth.Middleware
	Metrics        *observability.Metrics
}

type responseWriterWithCommit struct {
	http.ResponseWriter
	sess          *shared.Session
	manager       *shared.SessionManager
	ctx           context.Context
	logger        *slog.Logger
	headerWritten bool
}

func (w *responseWriterWithCommit) commit() {
	if err := w.manager.Commit(w.ctx, w.ResponseWriter, w.sess); err != nil {
		w.logger.Error("commit session", slog.Any("error", err))
	}
}

func (w *responseWriterWithCommit) WriteHeader(statusCode int) {
	if !w.headerWritten {
		w.headerWritten = true
		w.commit()
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriterWithCommit) Write(data []byte) (int, error) {
	if !w.headerWritten {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(data)
}

// sessionMiddleware loads the cookie session and commits it before the first
// byte of the response is written.
func sessionMiddleware(logger *slog.Logger, manager *shared.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sess, err := manager.Load(ctx, r)
			if err != nil {
				logger.Error("failed to load session", slog.Any("error", err))
				httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "unexpected failure")
				return
			}
			ctx = shared.ContextWithSession(ctx, sess)
			wrapped := &responseWriterWithCommit{
				ResponseWriter: w,
				sess:           sess,
				manager:        manager,
				ctx:            ctx,
				logger:         logger,
			}
			next.ServeHTTP(wrapped, r.WithContext(ctx))
			if !wrapped.headerWritten {
				wrapped.commit()
			}
		})
	}
}

// csrfMiddleware requires X-CSRF-Token on unsafe requests authenticated by
// the session cookie. Bearer and anonymous requests are exempt.
func csrfMiddleware(logger *slog.Logger, manager *shared.CSRFManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}
			id, ok := shared.IdentityFromContext(r.Context())
			if !ok || id.Method != shared.AuthSession {
				next.ServeHTTP(w, r)
				return
			}
			sess := shared.SessionFromContext(r.Context())
			if err := manager.VerifyToken(sess, r.Header.Get(shared.CSRFHeader)); err != nil {
				logger.Warn("csrf validation failed", slog.String("path", r.URL.Path), slog.String("user_id", id.UserID))
				httpx.RespondError(w, r, logger, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func corsOptions(cfg *Config) cors.Options {
	var origins []string
	if cfg != nil {
		origins = cfg.CORSAllowedOrigins
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type", shared.CSRFHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

// MiddlewareStack installs the shiptrack middleware chain.
func MiddlewareStack(cfg MiddlewareConfig) []func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		SSLRedirect:           cfg.Config.IsProduction(),
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
	})

	timeout := 30 * time.Second
	if cfg.Config != nil && cfg.Config.AppRequestTimeout > 0 {
		timeout = cfg.Config.AppRequestTimeout
	}
	perMinute := 120
	if cfg.Config != nil && cfg.Config.RateLimitPerMinute > 0 {
		perMinute = cfg.Config.RateLimitPerMinute
	}

	middlewares := []func(http.Handler) http.Handler{
		middleware.RealIP,
		middleware.RequestID,
		middleware.Recoverer,
	}
	if cfg.Metrics != nil {
		middlewares = append(middlewares, cfg.Metrics.Middleware)
	}
	middlewares = append(middlewares,
		middleware.Timeout(timeout),
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if err := secureMiddleware.Process(w, r); err != nil {
					logger.Warn("secure headers blocked request", slog.Any("error", err))
					return
				}
				next.ServeHTTP(w, r)
			})
		},
		cors.New(corsOptions(cfg.Config)).Handler,
		httprate.Limit(perMinute, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)),
	)
	if cfg.SessionManager != nil {
		middlewares = append(middlewares, sessionMiddleware(logger, cfg.SessionManager))
	}
	if cfg.Auth != nil {
		middlewares = append(middlewares, cfg.Auth.Identity)
	}
	if cfg.CSRFManager != nil {
		middlewares = append(middlewares, csrfMiddleware(logger, cfg.CSRFManager))
	}
	return middlewares
}
