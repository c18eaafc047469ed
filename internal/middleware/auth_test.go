// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/saas-backend/internal/core"
)

type stubVerifier struct {
	claims *AccessTokenClaims
	err    error
}

func (s stubVerifier) VerifyAccessToken(context.Context, string) (*AccessTokenClaims, error) {
	return s.claims, s.err
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc.def", "abc.def"},
		{"bearer  abc.def ", "abc.def"},
		{"Basic dXNlcg==", ""},
		{"Bearer", ""},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, ExtractToken(req))
		})
	}
}

func TestAuthenticator(t *testing.T) {
	claims := &AccessTokenClaims{UserID: "u1", TenantID: "t1", Role: "user", Plan: "free"}

	tests := []struct {
		name     string
		header   string
		verifier stubVerifier
		code     int
		errCode  string
	}{
		{"missing token", "", stubVerifier{claims: claims}, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"expired token", "Bearer x", stubVerifier{err: fmt.Errorf("verify: %w", core.ErrTokenExpired)}, http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"garbage token", "Bearer x", stubVerifier{err: fmt.Errorf("parse failed")}, http.StatusUnauthorized, "TOKEN_INVALID"},
		{"valid token", "Bearer x", stubVerifier{claims: claims}, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *AccessTokenClaims
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = GetClaims(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			Authenticator(tt.verifier)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.code, rec.Code)
			if tt.errCode != "" {
				assert.Equal(t, tt.errCode, decodeError(t, rec).Code)
				assert.Nil(t, seen)
				return
			}
			require.NotNil(t, seen)
			assert.Equal(t, "t1", seen.TenantID)
		})
	}
}

func TestRequireTenant(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name    string
		claims  *AccessTokenClaims
		code    int
		message string
	}{
		{"anonymous", nil, http.StatusUnauthorized, "Authentication required"},
		{"system account", &AccessTokenClaims{UserID: "sa", Role: "super_admin"}, http.StatusForbidden, "Tenant context required"},
		{"tenant member", &AccessTokenClaims{UserID: "u1", TenantID: "t1", Role: "user"}, http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.claims != nil {
				req = req.WithContext(WithClaims(req.Context(), tt.claims))
			}
			rec := httptest.NewRecorder()
			RequireTenant(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.code, rec.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, decodeError(t, rec).Message)
			}
		})
	}
}

func TestClaimsHolderSeesInnerClaims(t *testing.T) {
	holder := &claimsHolder{}
	ctx := withClaimsHolder(context.Background(), holder)

	ctx = WithClaims(ctx, &AccessTokenClaims{UserID: "u1", TenantID: "t1"})

	require.NotNil(t, holder.claims)
	assert.Equal(t, "u1", GetUserID(ctx))
	assert.Equal(t, "t1", GetTenantID(ctx))
	assert.Empty(t, GetTenantID(context.Background()))
}
