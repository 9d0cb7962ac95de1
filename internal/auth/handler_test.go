package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/shiptrack/internal/auth"
	"github.com/odyssey-erp/shiptrack/internal/shared"
	"github.com/odyssey-erp/shiptrack/internal/users"
	_ "github.com/odyssey-erp/shiptrack/testing"
)

type stubUsers struct {
	byID map[string]users.User
}

func (s *stubUsers) SyncProfile(_ context.Context, p users.Profile) (users.User, error) {
	u, ok := s.byID[p.ID]
	if !ok {
		u = users.User{ID: p.ID, Role: shared.DefaultRole}
	}
	u.Email, u.FirstName, u.LastName = p.Email, p.FirstName, p.LastName
	s.byID[p.ID] = u
	return u, nil
}

func (s *stubUsers) Get(_ context.Context, id string) (users.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return users.User{}, users.ErrUserNotFound
	}
	return u, nil
}

type harness struct {
	router   http.Handler
	sessions *shared.SessionManager
	tokens   *auth.TokenManager
	store    *stubUsers
	last     *shared.Session
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	h := &harness{
		sessions: shared.NewSessionManager(client, "test_session", time.Hour, false),
		tokens:   auth.NewTokenManager("idp-secret", "test-idp"),
		store:    &stubUsers{byID: make(map[string]users.User)},
	}
	service := auth.NewService(h.tokens, h.store)
	handler := auth.NewHandler(nil, service, h.sessions, shared.NewCSRFManager("csrfsecret"))
	identity := auth.NewMiddleware(nil, service)

	r := chi.NewRouter()
	r.Use(identity.Identity)
	r.Route("/auth", handler.MountRoutes)
	h.router = r
	return h
}

func (h *harness) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	sess, err := h.sessions.Load(req.Context(), req)
	require.NoError(t, err)
	ctx := shared.ContextWithSession(req.Context(), sess)
	rr := httptest.NewRecorder()
	h.router.ServeHTTP(rr, req.WithContext(ctx))
	require.NoError(t, h.sessions.Commit(ctx, rr, sess))
	h.last = sess
	return rr
}

func (h *harness) token(t *testing.T, sub string) string {
	t.Helper()
	raw, err := h.tokens.Issue(users.Profile{ID: sub, Email: sub + "@example.com"}, time.Hour)
	require.NoError(t, err)
	return raw
}

type sessionBody struct {
	User      users.Response `json:"user"`
	CSRFToken string         `json:"csrfToken"`
}

func TestLoginCreatesViewerSession(t *testing.T) {
	h := newHarness(t)

	body := `{"token":"` + h.token(t, "kc-1") + `"}`
	rr := h.do(t, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rr.Code)

	var out sessionBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Equal(t, "kc-1", out.User.ID)
	require.Equal(t, "VIEWER", out.User.Role)
	require.NotEmpty(t, out.CSRFToken)

	sessionID := h.last.ID
	req := httptest.NewRequest(http.MethodGet, "/auth/user", nil)
	req.AddCookie(&http.Cookie{Name: h.sessions.CookieName(), Value: sessionID})
	rr = h.do(t, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Equal(t, "kc-1@example.com", out.User.Email)
}

func TestRoleChangeAppliesToExistingSession(t *testing.T) {
	h := newHarness(t)
	rr := h.do(t, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"token":"`+h.token(t, "kc-2")+`"}`)))
	require.Equal(t, http.StatusOK, rr.Code)
	sessionID := h.last.ID

	u := h.store.byID["kc-2"]
	u.Role = shared.RoleAdmin
	h.store.byID["kc-2"] = u

	req := httptest.NewRequest(http.MethodGet, "/auth/user", nil)
	req.AddCookie(&http.Cookie{Name: h.sessions.CookieName(), Value: sessionID})
	rr = h.do(t, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"role":"ADMIN"`)
}

func TestLoginRejectsBadToken(t *testing.T) {
	h := newHarness(t)

	rr := h.do(t, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"token":"garbage"}`)))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = h.do(t, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Empty(t, h.store.byID)
}

func TestBearerAuthentication(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/user", nil)
	req.Header.Set("Authorization", "Bearer "+h.token(t, "kc-3"))
	rr := h.do(t, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var out sessionBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Equal(t, "kc-3", out.User.ID)
	require.Empty(t, out.CSRFToken)

	req = httptest.NewRequest(http.MethodGet, "/auth/user", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rr = h.do(t, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAnonymousUserAndLogout(t *testing.T) {
	h := newHarness(t)

	rr := h.do(t, httptest.NewRequest(http.MethodGet, "/auth/user", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = h.do(t, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"token":"`+h.token(t, "kc-4")+`"}`)))
	require.Equal(t, http.StatusOK, rr.Code)
	sessionID := h.last.ID

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: h.sessions.CookieName(), Value: sessionID})
	rr = h.do(t, req)
	require.Equal(t, http.StatusNoContent, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/auth/user", nil)
	req.AddCookie(&http.Cookie{Name: h.sessions.CookieName(), Value: sessionID})
	rr = h.do(t, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}
