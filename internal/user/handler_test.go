// AngelaMos | 2026
// handler_test.go

package user

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/saas-backend/internal/access"
	"github.com/carterperez-dev/templates/saas-backend/internal/access/accesstest"
	"github.com/carterperez-dev/templates/saas-backend/internal/core"
	"github.com/carterperez-dev/templates/saas-backend/internal/middleware"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func withSubject(s access.Subject) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middleware.WithClaims(r.Context(), &middleware.AccessTokenClaims{
				UserID:   s.UserID,
				TenantID: s.TenantID,
				Role:     s.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func serve(t *testing.T, f *fixture, s access.Subject, method, path, body string) (int, envelope) {
	t.Helper()

	r := chi.NewRouter()
	NewHandler(f.svc).RegisterRoutes(r, withSubject(s))

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestCreateUserHandler(t *testing.T) {
	f := newFixture(t)
	admin := access.Subject{UserID: adminA, TenantID: tenantA, Role: access.RoleTenantAdmin}

	code, env := serve(t, f, admin, http.MethodPost, "/tenants/"+tenantA+"/users",
		`{"email":"n@a.com","password":"password123","fullName":"N","role":"tenant_admin"}`)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "User created successfully", env.Message)

	var got UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, access.RoleTenantAdmin, got.Role)
	require.NotNil(t, got.TenantID)
	assert.Equal(t, tenantA, *got.TenantID)

	code, _ = serve(t, f, admin, http.MethodPost, "/tenants/"+tenantA+"/users",
		`{"email":"n2@a.com","password":"password123","fullName":"N","role":"super_admin"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = serve(t, f, admin, http.MethodPost, "/tenants/"+tenantA+"/users", `{`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestListUsersHandlerClampsLimit(t *testing.T) {
	f := newFixture(t)
	member := access.Subject{UserID: memberA, TenantID: tenantA, Role: access.RoleUser}

	code, env := serve(t, f, member, http.MethodGet, "/tenants/"+tenantA+"/users?limit=500", "")
	require.Equal(t, http.StatusOK, code)

	var page core.PageData
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, core.MaxPageLimit, page.Pagination.Limit)
	assert.Equal(t, 1, page.Pagination.TotalPages)
}

func TestUserRoutesRequireTenant(t *testing.T) {
	f := newFixture(t)
	root := access.Subject{UserID: missing, Role: access.RoleSuperAdmin}

	code, env := serve(t, f, root, http.MethodDelete, "/users/"+memberA, "")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Tenant context required", env.Message)
}

func TestUpdateAndDeleteUserHandlers(t *testing.T) {
	f := newFixture(t)
	admin := access.Subject{UserID: adminA, TenantID: tenantA, Role: access.RoleTenantAdmin}

	code, env := serve(t, f, admin, http.MethodPut, "/users/"+memberA, `{"isActive":false}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "User updated successfully", env.Message)

	code, env = serve(t, f, admin, http.MethodPut, "/users/"+memberA, `{}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "No valid fields to update", env.Message)

	code, env = serve(t, f, admin, http.MethodDelete, "/users/"+memberA, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "User deleted successfully", env.Message)
}

func TestUserHandlersRejectBlankFullName(t *testing.T) {
	f := newFixture(t)
	admin := access.Subject{UserID: adminA, TenantID: tenantA, Role: access.RoleTenantAdmin}

	code, env := serve(t, f, admin, http.MethodPost, "/tenants/"+tenantA+"/users",
		`{"email":"blank@a.com","password":"password123","fullName":"   "}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "fullName must not be blank", env.Message)

	code, env = serve(t, f, admin, http.MethodPut, "/users/"+adminA, `{"fullName":" "}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "fullName must not be blank", env.Message)
}

func TestSuperAdminRenamesSelfOverHTTP(t *testing.T) {
	f := newFixture(t)
	f.seedSystemAdmin(t, root)

	code, env := serve(t, f, accesstest.SuperAdmin(root), http.MethodPut, "/users/"+root, `{"fullName":"Root"}`)
	require.Equal(t, http.StatusOK, code)

	var got UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Root", got.FullName)
	assert.Nil(t, got.TenantID)
}
