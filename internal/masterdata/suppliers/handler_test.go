package suppliers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/shiptrack/internal/rbac"
	root "github.com/odyssey-erp/shiptrack/internal/shared"
)

func newRouter(repo *memoryRepo) http.Handler {
	h := NewHandler(nil, NewService(repo, nil, nil), rbac.Middleware{})
	r := chi.NewRouter()
	r.Route("/suppliers", h.MountRoutes)
	return r
}

func call(t *testing.T, router http.Handler, role root.Role, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if role != "" {
		req = req.WithContext(root.ContextWithIdentity(req.Context(), root.Identity{UserID: "u-" + string(role), Role: role}))
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestSupplierRoleMatrix(t *testing.T) {
	repo := newMemoryRepo()
	router := newRouter(repo)

	rr := call(t, router, root.RoleViewer, http.MethodPost, "/suppliers", `{"name":"Acme"}`)
	require.Equal(t, http.StatusForbidden, rr.Code)

	rr = call(t, router, root.RoleOperator, http.MethodPost, "/suppliers", `{"name":"Acme","defaultCountry":"CN"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	require.Equal(t, "CN", *created.DefaultCountry)

	rr = call(t, router, root.RoleViewer, http.MethodGet, "/suppliers", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var list listResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)

	rr = call(t, router, root.RoleOperator, http.MethodPatch, "/suppliers/1", `{"contactInfo":"+90 555"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = call(t, router, root.RoleOperator, http.MethodDelete, "/suppliers/1", "")
	require.Equal(t, http.StatusForbidden, rr.Code)

	repo.inUse[1] = true
	rr = call(t, router, root.RoleAdmin, http.MethodDelete, "/suppliers/1", "")
	require.Equal(t, http.StatusConflict, rr.Code)

	repo.inUse[1] = false
	rr = call(t, router, root.RoleAdmin, http.MethodDelete, "/suppliers/1", "")
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = call(t, router, root.RoleViewer, http.MethodGet, "/suppliers/1", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSupplierValidationResponses(t *testing.T) {
	router := newRouter(newMemoryRepo())

	rr := call(t, router, root.RoleOperator, http.MethodPost, "/suppliers", `{"name":""}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), `"name":"is required"`)

	rr = call(t, router, root.RoleOperator, http.MethodGet, "/suppliers/abc", "")
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = call(t, router, "", http.MethodGet, "/suppliers", "")
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}
