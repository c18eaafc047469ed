// AngelaMos | 2026
// handler_test.go

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/saas-backend/internal/middleware"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
}

func newAuthRouter(t *testing.T) (*chi.Mux, *fixture) {
	t.Helper()

	f := newFixture(t)
	r := chi.NewRouter()
	NewHandler(f.svc).RegisterRoutes(r, middleware.Authenticator(f.jwt), nil)
	return r, f
}

func do(t *testing.T, r http.Handler, method, path, body, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestLoginHandler(t *testing.T) {
	r, _ := newAuthRouter(t)

	rec, env := do(t, r, http.MethodPost, "/auth/login",
		`{"email":"admin@acme.com","password":"password123","tenantSubdomain":"acme"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var data AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "admin@acme.com", data.User.Email)
	assert.NotEmpty(t, data.Token)

	rec, env = do(t, r, http.MethodGet, "/auth/me", "", data.Token)
	require.Equal(t, http.StatusOK, rec.Code)

	var me MeResponse
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, adminID, me.User.ID)
}

func TestLoginHandlerRejectsBadInput(t *testing.T) {
	r, _ := newAuthRouter(t)

	rec, env := do(t, r, http.MethodPost, "/auth/login", `{`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)

	rec, _ = do(t, r, http.MethodPost, "/auth/login", `{"email":"not-an-email","password":"x"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = do(t, r, http.MethodPost, "/auth/login",
		`{"email":"admin@acme.com","password":"wrong","tenantSubdomain":"acme"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", env.Message)
}

func TestMeRequiresToken(t *testing.T) {
	r, _ := newAuthRouter(t)

	rec, env := do(t, r, http.MethodGet, "/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authorization token missing", env.Message)

	rec, _ = do(t, r, http.MethodGet, "/auth/me", "", "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterTenantHandlerValidates(t *testing.T) {
	r, _ := newAuthRouter(t)

	rec, _ := do(t, r, http.MethodPost, "/auth/register-tenant",
		`{"tenantName":"Acme","subdomain":"ac-me","adminEmail":"a@b.co","adminPassword":"password123","adminFullName":"A"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, r, http.MethodPost, "/auth/register-tenant",
		`{"tenantName":"Acme","subdomain":"acme2","adminEmail":"a@b.co","adminPassword":"short","adminFullName":"A"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterTenantHandlerRejectsBlankNames(t *testing.T) {
	r, _ := newAuthRouter(t)

	rec, env := do(t, r, http.MethodPost, "/auth/register-tenant",
		`{"tenantName":"   ","subdomain":"acme","adminEmail":"a@b.co","adminPassword":"password123","adminFullName":"A"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "tenantName must not be blank", env.Message)

	rec, env = do(t, r, http.MethodPost, "/auth/register-tenant",
		`{"tenantName":"Acme","subdomain":"acme","adminEmail":"a@b.co","adminPassword":"password123","adminFullName":"\t"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "adminFullName must not be blank", env.Message)
}
