// AngelaMos | 2026
// handler_test.go

package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/saas-backend/internal/access"
	"github.com/carterperez-dev/templates/saas-backend/internal/access/accesstest"
	"github.com/carterperez-dev/templates/saas-backend/internal/middleware"
)

type stubRepo struct {
	counts Counts
	plans  []PlanCount
	calls  int
}

func (s *stubRepo) Counts(context.Context) (*Counts, error) {
	s.calls++
	c := s.counts
	return &c, nil
}

func (s *stubRepo) TenantsByPlan(context.Context) ([]PlanCount, error) {
	return s.plans, nil
}

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

func newRouter(repo Repository, s access.Subject, redisErr error) chi.Router {
	policy := access.NewPolicy()
	h := NewHandler(HandlerConfig{
		Service: NewService(repo, policy),
		DBStats: func() sql.DBStats {
			return sql.DBStats{MaxOpenConnections: 25, OpenConnections: 3, InUse: 1, Idle: 2}
		},
		RedisStats: func() *redis.PoolStats {
			return &redis.PoolStats{Hits: 7, TotalConns: 4}
		},
		DBPing:    func(context.Context) error { return nil },
		RedisPing: func(context.Context) error { return redisErr },
	})

	r := chi.NewRouter()
	h.RegisterRoutes(r, withSubject(s), policy.Require(access.ActionPlatformStats))
	return r
}

func get(t *testing.T, r chi.Router, path string) (int, envelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestSystemStats(t *testing.T) {
	repo := &stubRepo{
		counts: Counts{Tenants: 3, ActiveTenants: 2, TrialTenants: 1, Users: 12, Projects: 5, Tasks: 40, CompletedTasks: 9},
		plans:  []PlanCount{{Plan: "free", Tenants: 2}, {Plan: "pro", Tenants: 1}},
	}
	r := newRouter(repo, accesstest.SuperAdmin("root"), errors.New("redis down"))

	code, env := get(t, r, "/admin/stats")
	require.Equal(t, http.StatusOK, code)

	var resp SystemStatsResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))

	assert.Equal(t, 3, resp.Platform.Tenants)
	assert.Equal(t, 1, resp.Platform.TrialTenants)
	assert.Equal(t, map[string]int{"free": 2, "pro": 1}, resp.Platform.TenantsByPlan)
	assert.Equal(t, 40, resp.Platform.Tasks)
	assert.Equal(t, 9, resp.Platform.CompletedTasks)

	assert.True(t, resp.Database.Healthy)
	require.NotNil(t, resp.Database.Stats)
	assert.Equal(t, 25, resp.Database.Stats.MaxOpenConnections)
	assert.False(t, resp.Redis.Healthy)
	require.NotNil(t, resp.Redis.Stats)
	assert.Equal(t, uint32(7), resp.Redis.Stats.Hits)
	assert.NotEmpty(t, resp.Runtime.GoVersion)
}

func TestStatsRequireSuperAdmin(t *testing.T) {
	tests := []struct {
		name    string
		subject access.Subject
	}{
		{"tenant admin", accesstest.Admin("admin-a", "tenant-a")},
		{"member", accesstest.Member("member-a", "tenant-a")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubRepo{}
			r := newRouter(repo, tt.subject, nil)

			for _, path := range []string{"/admin/stats", "/admin/stats/db", "/admin/stats/runtime"} {
				code, env := get(t, r, path)
				assert.Equal(t, http.StatusForbidden, code, path)
				assert.False(t, env.Success)
			}
			assert.Zero(t, repo.calls)
		})
	}
}

func TestServiceAuthorizesWithoutMiddleware(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo, access.NewPolicy())

	_, err := svc.Platform(context.Background(), accesstest.Admin("admin-a", "tenant-a"))
	assert.Equal(t, http.StatusForbidden, accesstest.StatusOf(err))
	assert.Zero(t, repo.calls)

	p, err := svc.Platform(context.Background(), accesstest.SuperAdmin("root"))
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)
	assert.Empty(t, p.Plans)
}
