package users

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/shiptrack/internal/rbac"
	"github.com/odyssey-erp/shiptrack/internal/shared"
)

func newTestRouter(repo *memoryRepo) http.Handler {
	handler := NewHandler(nil, NewService(repo, nil, nil), rbac.Middleware{})
	r := chi.NewRouter()
	r.Route("/users", handler.MountRoutes)
	return r
}

func asUser(req *http.Request, id string, role shared.Role) *http.Request {
	return req.WithContext(shared.ContextWithIdentity(req.Context(), shared.Identity{UserID: id, Role: role}))
}

func TestListUsersRequiresAdmin(t *testing.T) {
	router := newTestRouter(newMemoryRepo(User{ID: "a", Email: "a@example.com", Role: shared.RoleAdmin}))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, asUser(httptest.NewRequest(http.MethodGet, "/users", nil), "op", shared.RoleOperator))
	require.Equal(t, http.StatusForbidden, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, asUser(httptest.NewRequest(http.MethodGet, "/users", nil), "a", shared.RoleAdmin))
	require.Equal(t, http.StatusOK, rr.Code)

	var body listResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	require.Equal(t, "ADMIN", body.Data[0].Role)
}

func TestChangeRoleEndpoint(t *testing.T) {
	repo := newMemoryRepo(
		User{ID: "a", Role: shared.RoleAdmin},
		User{ID: "v", Role: shared.RoleViewer},
	)
	router := newTestRouter(repo)

	req := asUser(httptest.NewRequest(http.MethodPatch, "/users/v/role", strings.NewReader(`{"role":"OPERATOR"}`)), "a", shared.RoleAdmin)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, shared.RoleOperator, repo.users["v"].Role)

	req = asUser(httptest.NewRequest(http.MethodPatch, "/users/a/role", strings.NewReader(`{"role":"VIEWER"}`)), "a", shared.RoleAdmin)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusConflict, rr.Code)

	req = asUser(httptest.NewRequest(http.MethodPatch, "/users/v/role", strings.NewReader(`{}`)), "a", shared.RoleAdmin)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), `"role"`)
}
