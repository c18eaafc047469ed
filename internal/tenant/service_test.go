// AngelaMos | 2026
// service_test.go

package tenant

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/saas-backend/internal/access"
	"github.com/carterperez-dev/templates/saas-backend/internal/access/accesstest"
	"github.com/carterperez-dev/templates/saas-backend/internal/audit"
	"github.com/carterperez-dev/templates/saas-backend/internal/auth"
	"github.com/carterperez-dev/templates/saas-backend/internal/config"
	"github.com/carterperez-dev/templates/saas-backend/internal/core"
	"github.com/carterperez-dev/templates/saas-backend/internal/user"
)

const (
	tenantA = "11111111-1111-4111-8111-111111111111"
	tenantB = "22222222-2222-4222-8222-222222222222"
	missing = "f0000000-0000-4000-8000-00000000000f"

	adminA  = "a0000000-0000-4000-8000-00000000000a"
	memberA = "a0000000-0000-4000-8000-00000000000b"
	adminB  = "b0000000-0000-4000-8000-00000000000a"
	root    = "c0000000-0000-4000-8000-00000000000c"
)

func init() {
	core.SetPasswordParams(core.PasswordParams{Memory: 1024, Time: 1, Threads: 1, KeyLen: 32})
}

var testPlans = config.TenancyConfig{
	DefaultPlan: "free",
	Plans: map[string]config.PlanConfig{
		"free": {MaxUsers: 5, MaxProjects: 3},
		"pro":  {MaxUsers: 25, MaxProjects: 15},
	},
}

type memRepo struct {
	mu      sync.Mutex
	tenants map[string]*Tenant
	stats   map[string]Stats
}

func newMemRepo() *memRepo {
	return &memRepo{tenants: map[string]*Tenant{}, stats: map[string]Stats{}}
}

func (m *memRepo) WithTx(core.DBTX) Repository { return m }

func (m *memRepo) Create(_ context.Context, t *Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.tenants {
		if existing.Subdomain == t.Subdomain {
			return core.ErrDuplicateKey
		}
	}
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	cp := *t
	m.tenants[t.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tenants[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memRepo) GetBySubdomain(_ context.Context, subdomain string) (*Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tenants {
		if t.Subdomain == subdomain {
			cp := *t
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memRepo) Update(_ context.Context, id string, p Patch) (*Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tenants[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.SubscriptionPlan != nil {
		t.SubscriptionPlan = *p.SubscriptionPlan
	}
	if p.MaxUsers != nil {
		t.MaxUsers = *p.MaxUsers
	}
	if p.MaxProjects != nil {
		t.MaxProjects = *p.MaxProjects
	}
	cp := *t
	return &cp, nil
}

func (m *memRepo) Stats(_ context.Context, id string) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats[id], nil
}

func (m *memRepo) List(_ context.Context, params ListParams) ([]Summary, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Summary
	for _, t := range m.tenants {
		if params.Status != "" && t.Status != params.Status {
			continue
		}
		if params.SubscriptionPlan != "" && t.SubscriptionPlan != params.SubscriptionPlan {
			continue
		}
		out = append(out, Summary{
			Tenant:        *t,
			TotalUsers:    m.stats[t.ID].TotalUsers,
			TotalProjects: m.stats[t.ID].TotalProjects,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := len(out)
	if params.Offset >= total {
		return []Summary{}, total, nil
	}
	end := params.Offset + params.Limit
	if end > total {
		end = total
	}
	return out[params.Offset:end], total, nil
}

// memUsers records the admins created during registration.
type memUsers struct {
	mu      sync.Mutex
	created []*user.User
}

func (m *memUsers) WithTx(core.DBTX) user.Repository { return m }

func (m *memUsers) Create(_ context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.created = append(m.created, &cp)
	return nil
}

func (m *memUsers) GetByID(context.Context, string) (*user.User, error) {
	return nil, core.ErrNotFound
}

func (m *memUsers) GetByEmail(context.Context, string, string) (*user.User, error) {
	return nil, core.ErrNotFound
}

func (m *memUsers) Update(context.Context, string, user.Patch) (*user.User, error) {
	return nil, core.ErrNotFound
}

func (m *memUsers) UpdatePassword(context.Context, string, string) error {
	return core.ErrNotFound
}

func (m *memUsers) Delete(context.Context, string) error {
	return core.ErrNotFound
}

func (m *memUsers) List(context.Context, string, user.ListParams) ([]user.User, int, error) {
	return nil, 0, nil
}

type fixture struct {
	env   *accesstest.Env
	repo  *memRepo
	users *memUsers
	svc   *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	env := accesstest.New()
	repo := newMemRepo()
	users := &memUsers{}

	now := time.Now()
	seed := []*Tenant{
		{ID: tenantA, Name: "Acme", Subdomain: "acme", Status: StatusActive,
			SubscriptionPlan: "free", MaxUsers: 5, MaxProjects: 3, CreatedAt: now.Add(-time.Hour)},
		{ID: tenantB, Name: "Globex", Subdomain: "globex", Status: StatusTrial,
			SubscriptionPlan: "pro", MaxUsers: 25, MaxProjects: 15, CreatedAt: now},
	}
	for _, tn := range seed {
		repo.tenants[tn.ID] = tn
		env.Locator.Put(access.KindTenant, access.Ownership{ID: tn.ID, TenantID: tn.ID})
	}
	repo.stats[tenantA] = Stats{TotalUsers: 2, TotalProjects: 1, TotalTasks: 4}

	return &fixture{
		env:   env,
		repo:  repo,
		users: users,
		svc: NewService(
			repo,
			users,
			env.Pipeline,
			env.Resolver,
			env.Policy,
			testPlans,
			nil,
		),
	}
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int { return &i }

func TestRegisterCreatesTenantAndAdmin(t *testing.T) {
	f := newFixture(t)

	reg, err := f.svc.Register(context.Background(), auth.Registration{
		TenantName:    "Initech",
		Subdomain:     "initech",
		AdminEmail:    "boss@initech.com",
		AdminPassword: "password123",
		AdminFullName: "Bill Lumbergh",
	})
	require.NoError(t, err)

	stored, err := f.repo.GetBySubdomain(context.Background(), "initech")
	require.NoError(t, err)
	assert.Equal(t, reg.Tenant.ID, stored.ID)
	assert.Equal(t, "free", stored.SubscriptionPlan)
	assert.Equal(t, StatusActive, stored.Status)
	assert.Equal(t, 5, stored.MaxUsers)
	assert.Equal(t, 3, stored.MaxProjects)

	require.Len(t, f.users.created, 1)
	admin := f.users.created[0]
	assert.Equal(t, access.RoleTenantAdmin, admin.Role)
	assert.Equal(t, stored.ID, admin.TenantIDOrEmpty())
	assert.Equal(t, reg.Admin.ID, admin.ID)

	ok, err := core.VerifyPassword("password123", admin.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	entries := f.env.Recorder.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionRegisterTenant, entries[0].Action)
	assert.Equal(t, string(access.KindTenant), entries[0].EntityType)
	require.NotNil(t, entries[0].TenantID)
	assert.Equal(t, stored.ID, *entries[0].TenantID)
	require.NotNil(t, entries[0].UserID)
	assert.Equal(t, admin.ID, *entries[0].UserID)
}

func TestRegisterTakesPlanLimits(t *testing.T) {
	f := newFixture(t)

	reg, err := f.svc.Register(context.Background(), auth.Registration{
		TenantName:       "Hooli",
		Subdomain:        "hooli",
		SubscriptionPlan: "pro",
		AdminEmail:       "gavin@hooli.com",
		AdminPassword:    "password123",
		AdminFullName:    "Gavin Belson",
	})
	require.NoError(t, err)

	stored, err := f.repo.GetByID(context.Background(), reg.Tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, stored.MaxUsers)
	assert.Equal(t, 15, stored.MaxProjects)
	assert.Equal(t, "pro", reg.Tenant.SubscriptionPlan)
}

func TestRegisterRejections(t *testing.T) {
	tests := []struct {
		name    string
		reg     auth.Registration
		status  int
		message string
	}{
		{
			name: "unknown plan",
			reg: auth.Registration{
				TenantName: "X", Subdomain: "xcorp", SubscriptionPlan: "platinum",
				AdminEmail: "a@x.com", AdminPassword: "password123", AdminFullName: "A",
			},
			status:  http.StatusBadRequest,
			message: "Unknown subscription plan",
		},
		{
			name: "subdomain taken",
			reg: auth.Registration{
				TenantName: "Acme Two", Subdomain: "acme",
				AdminEmail: "a@acme.com", AdminPassword: "password123", AdminFullName: "A",
			},
			status:  http.StatusConflict,
			message: "Subdomain already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.svc.Register(context.Background(), tt.reg)
			require.Error(t, err)
			assert.Equal(t, tt.status, accesstest.StatusOf(err))
			assert.Equal(t, tt.message, accesstest.MessageOf(err))

			assert.Empty(t, f.users.created)
			assert.Empty(t, f.env.Recorder.Entries())
			assert.Len(t, f.repo.tenants, 2)
		})
	}
}

func TestGetTenant(t *testing.T) {
	tests := []struct {
		name     string
		subject  access.Subject
		tenantID string
		status   int
		message  string
	}{
		{name: "member reads own", subject: accesstest.Member(memberA, tenantA), tenantID: tenantA},
		{name: "super admin reads any", subject: accesstest.SuperAdmin(root), tenantID: tenantA},
		{
			name:     "member of other tenant",
			subject:  accesstest.Admin(adminB, tenantB),
			tenantID: tenantA,
			status:   http.StatusForbidden,
			message:  "Unauthorized access",
		},
		{
			name:     "absent tenant",
			subject:  accesstest.SuperAdmin(root),
			tenantID: missing,
			status:   http.StatusNotFound,
			message:  "Tenant not found",
		},
		{
			name:     "malformed id",
			subject:  accesstest.Member(memberA, tenantA),
			tenantID: "not-a-uuid",
			status:   http.StatusNotFound,
			message:  "Tenant not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			details, err := f.svc.Get(context.Background(), tt.subject, tt.tenantID)
			if tt.status == 0 {
				require.NoError(t, err)
				assert.Equal(t, "Acme", details.Name)
				assert.Equal(t, Stats{TotalUsers: 2, TotalProjects: 1, TotalTasks: 4}, details.Stats)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.status, accesstest.StatusOf(err))
			assert.Equal(t, tt.message, accesstest.MessageOf(err))
		})
	}
}

func TestUpdateTenantPolicy(t *testing.T) {
	tests := []struct {
		name     string
		subject  access.Subject
		tenantID string
		patch    Patch
		status   int
		message  string
	}{
		{
			name:     "admin renames own tenant",
			subject:  accesstest.Admin(adminA, tenantA),
			tenantID: tenantA,
			patch:    Patch{Name: strPtr("Acme Corp")},
		},
		{
			name:     "admin changes status",
			subject:  accesstest.Admin(adminA, tenantA),
			tenantID: tenantA,
			patch:    Patch{Name: strPtr("Acme Corp"), Status: strPtr(StatusSuspended)},
			status:   http.StatusForbidden,
			message:  "Tenant admin cannot update subscription or status fields",
		},
		{
			name:     "admin raises limits",
			subject:  accesstest.Admin(adminA, tenantA),
			tenantID: tenantA,
			patch:    Patch{MaxProjects: intPtr(100)},
			status:   http.StatusForbidden,
			message:  "Tenant admin cannot update subscription or status fields",
		},
		{
			name:     "member renames",
			subject:  accesstest.Member(memberA, tenantA),
			tenantID: tenantA,
			patch:    Patch{Name: strPtr("Mine")},
			status:   http.StatusForbidden,
			message:  "Not authorized",
		},
		{
			name:     "admin of other tenant",
			subject:  accesstest.Admin(adminB, tenantB),
			tenantID: tenantA,
			patch:    Patch{Name: strPtr("Taken")},
			status:   http.StatusForbidden,
			message:  "Not authorized",
		},
		{
			name:     "super admin suspends",
			subject:  accesstest.SuperAdmin(root),
			tenantID: tenantA,
			patch:    Patch{Status: strPtr(StatusSuspended)},
		},
		{
			name:     "unknown plan",
			subject:  accesstest.SuperAdmin(root),
			tenantID: tenantA,
			patch:    Patch{SubscriptionPlan: strPtr("platinum")},
			status:   http.StatusBadRequest,
			message:  "Unknown subscription plan",
		},
		{
			name:     "empty patch",
			subject:  accesstest.Admin(adminA, tenantA),
			tenantID: tenantA,
			status:   http.StatusBadRequest,
			message:  "No valid fields to update",
		},
		{
			name:     "absent tenant",
			subject:  accesstest.SuperAdmin(root),
			tenantID: missing,
			patch:    Patch{Name: strPtr("Ghost")},
			status:   http.StatusNotFound,
			message:  "Tenant not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.svc.Update(context.Background(), tt.subject, tt.tenantID, tt.patch)
			if tt.status == 0 {
				require.NoError(t, err)
				assert.Equal(t, []audit.Action{audit.ActionUpdateTenant}, f.env.Recorder.Actions())
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.status, accesstest.StatusOf(err))
			assert.Equal(t, tt.message, accesstest.MessageOf(err))
			assert.Empty(t, f.env.Recorder.Entries())
			assert.Zero(t, f.env.Tx.Committed)
		})
	}
}

func TestUpdatePlanAppliesPlanLimits(t *testing.T) {
	f := newFixture(t)

	updated, err := f.svc.Update(
		context.Background(),
		accesstest.SuperAdmin(root),
		tenantA,
		Patch{SubscriptionPlan: strPtr("pro"), MaxUsers: intPtr(40)},
	)
	require.NoError(t, err)

	assert.Equal(t, "pro", updated.SubscriptionPlan)
	assert.Equal(t, 40, updated.MaxUsers)
	assert.Equal(t, 15, updated.MaxProjects)
}

func TestListTenants(t *testing.T) {
	f := newFixture(t)

	items, total, err := f.svc.List(
		context.Background(),
		accesstest.SuperAdmin(root),
		"", "",
		core.NewPageParams(1, 0, DefaultListLimit),
	)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, tenantB, items[0].ID)
	assert.Equal(t, 2, items[1].TotalUsers)

	items, total, err = f.svc.List(
		context.Background(),
		accesstest.SuperAdmin(root),
		StatusTrial, "pro",
		core.NewPageParams(1, 0, DefaultListLimit),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "globex", items[0].Subdomain)

	_, _, err = f.svc.List(
		context.Background(),
		accesstest.Admin(adminA, tenantA),
		"", "",
		core.NewPageParams(1, 0, DefaultListLimit),
	)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, accesstest.StatusOf(err))
	assert.Equal(t, "Not authorized", accesstest.MessageOf(err))
}

func TestProviderView(t *testing.T) {
	f := newFixture(t)

	info, err := f.svc.GetBySubdomain(context.Background(), " ACME ")
	require.NoError(t, err)
	assert.Equal(t, tenantA, info.ID)
	assert.True(t, info.CanSignIn())

	_, err = f.svc.GetByID(context.Background(), missing)
	assert.ErrorIs(t, err, core.ErrNotFound)
}
