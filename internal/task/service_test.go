// AngelaMos | 2026
// service_test.go

package task

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/saas-backend/internal/access"
	"github.com/carterperez-dev/templates/saas-backend/internal/access/accesstest"
	"github.com/carterperez-dev/templates/saas-backend/internal/audit"
	"github.com/carterperez-dev/templates/saas-backend/internal/core"
)

const (
	tenantA = "11111111-1111-4111-8111-111111111111"
	tenantB = "22222222-2222-4222-8222-222222222222"

	memberA  = "a0000000-0000-4000-8000-00000000000b"
	memberA2 = "a0000000-0000-4000-8000-00000000000c"
	memberB  = "b0000000-0000-4000-8000-00000000000b"

	projectA = "a1000000-0000-4000-8000-000000000001"
	projectB = "b1000000-0000-4000-8000-000000000001"

	taskA   = "a2000000-0000-4000-8000-000000000001"
	taskB   = "b2000000-0000-4000-8000-000000000001"
	missing = "f0000000-0000-4000-8000-00000000000f"
)

type memRepo struct {
	mu      sync.Mutex
	tasks   map[string]*Task
	locator *accesstest.Locator
	listed  []ListParams
}

func (m *memRepo) WithTx(core.DBTX) Repository { return m }

func (m *memRepo) Create(_ context.Context, t *Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	cp := *t
	m.tasks[t.ID] = &cp
	m.locator.Put(access.KindTask, access.Ownership{ID: t.ID, TenantID: t.TenantID})
	return nil
}

func (m *memRepo) UpdateStatus(_ context.Context, id, status string) (*Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	t.Status = status
	cp := *t
	return &cp, nil
}

func (m *memRepo) Update(_ context.Context, id string, p Patch) (*Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.AssignedTo.Set {
		t.AssignedTo = p.AssignedTo.Value
	}
	if p.DueDate.Set {
		t.DueDate = p.DueDate.Value
	}
	cp := *t
	return &cp, nil
}

func (m *memRepo) List(_ context.Context, tenantID string, params ListParams) ([]View, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listed = append(m.listed, params)
	var out []View
	for _, t := range m.tasks {
		if t.TenantID != tenantID {
			continue
		}
		if params.ProjectID != "" && t.ProjectID != params.ProjectID {
			continue
		}
		if params.AssignedTo != "" && (t.AssignedTo == nil || *t.AssignedTo != params.AssignedTo) {
			continue
		}
		out = append(out, View{Task: *t})
	}
	return out, len(out), nil
}

type fixture struct {
	env  *accesstest.Env
	repo *memRepo
	svc  *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	env := accesstest.New()
	repo := &memRepo{tasks: map[string]*Task{}, locator: env.Locator}

	env.Locator.Put(access.KindProject, access.Ownership{ID: projectA, TenantID: tenantA})
	env.Locator.Put(access.KindProject, access.Ownership{ID: projectB, TenantID: tenantB})
	for _, u := range []access.Ownership{
		{ID: memberA, TenantID: tenantA, OwnerID: memberA},
		{ID: memberA2, TenantID: tenantA, OwnerID: memberA2},
		{ID: memberB, TenantID: tenantB, OwnerID: memberB},
	} {
		env.Locator.Put(access.KindUser, u)
	}

	assignee := memberA
	for _, tk := range []*Task{
		{ID: taskA, ProjectID: projectA, TenantID: tenantA, Title: "Design",
			Status: StatusTodo, Priority: PriorityHigh, AssignedTo: &assignee},
		{ID: taskB, ProjectID: projectB, TenantID: tenantB, Title: "Ship",
			Status: StatusTodo, Priority: PriorityLow},
	} {
		repo.tasks[tk.ID] = tk
		env.Locator.Put(access.KindTask, access.Ownership{ID: tk.ID, TenantID: tk.TenantID})
	}

	return &fixture{
		env:  env,
		repo: repo,
		svc:  NewService(repo, env.Pipeline, env.Resolver, env.Policy),
	}
}

func strPtr(s string) *string { return &s }

func TestCreateTaskTakesProjectTenant(t *testing.T) {
	f := newFixture(t)

	req := CreateTaskRequest{Title: " Review ", AssignedTo: memberA2, DueDate: "2026-11-01"}
	draft, err := req.Task(projectA)
	require.NoError(t, err)

	created, err := f.svc.Create(context.Background(), accesstest.Member(memberA, tenantA), projectA, draft)
	require.NoError(t, err)

	assert.Equal(t, tenantA, created.TenantID)
	assert.Equal(t, projectA, created.ProjectID)
	assert.Equal(t, "Review", created.Title)
	assert.Equal(t, StatusTodo, created.Status)
	assert.Equal(t, PriorityMedium, created.Priority)
	require.NotNil(t, created.AssignedTo)
	assert.Equal(t, memberA2, *created.AssignedTo)
	require.NotNil(t, created.DueDate)
	assert.Equal(t, "2026-11-01", created.DueDate.Format(DateLayout))

	assert.Equal(t, []audit.Action{audit.ActionCreateTask}, f.env.Recorder.Actions())
	assert.Zero(t, f.env.Quota.Calls)
}

func TestCreateTaskRejections(t *testing.T) {
	tests := []struct {
		name      string
		projectID string
		assignee  string
		status    int
		message   string
	}{
		{
			name:      "foreign project",
			projectID: projectB,
			status:    http.StatusForbidden,
			message:   "Project does not belong to tenant",
		},
		{
			name:      "absent project",
			projectID: missing,
			status:    http.StatusForbidden,
			message:   "Project does not belong to tenant",
		},
		{
			name:      "foreign assignee",
			projectID: projectA,
			assignee:  memberB,
			status:    http.StatusBadRequest,
			message:   "Assigned user does not belong to tenant",
		},
		{
			name:      "unknown assignee",
			projectID: projectA,
			assignee:  missing,
			status:    http.StatusBadRequest,
			message:   "Assigned user does not belong to tenant",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			draft, err := CreateTaskRequest{Title: "Task", AssignedTo: tt.assignee}.Task(tt.projectID)
			require.NoError(t, err)

			_, err = f.svc.Create(context.Background(), accesstest.Member(memberA, tenantA), tt.projectID, draft)
			require.Error(t, err)
			assert.Equal(t, tt.status, accesstest.StatusOf(err))
			assert.Equal(t, tt.message, accesstest.MessageOf(err))
			assert.Len(t, f.repo.tasks, 2)
			assert.Empty(t, f.env.Recorder.Entries())
		})
	}
}

func TestUpdateTaskStatus(t *testing.T) {
	tests := []struct {
		name   string
		taskID string
		status int
	}{
		{name: "own tenant", taskID: taskA},
		{name: "foreign task", taskID: taskB, status: http.StatusForbidden},
		{name: "absent task", taskID: missing, status: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			updated, err := f.svc.UpdateStatus(
				context.Background(),
				accesstest.Member(memberA2, tenantA),
				tt.taskID,
				StatusInProgress,
			)
			if tt.status == 0 {
				require.NoError(t, err)
				assert.Equal(t, StatusInProgress, updated.Status)
				assert.Equal(t, []audit.Action{audit.ActionUpdateTaskStatus}, f.env.Recorder.Actions())
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.status, accesstest.StatusOf(err))
			assert.Equal(t, "Task not found or unauthorized", accesstest.MessageOf(err))
			assert.Equal(t, StatusTodo, f.repo.tasks[taskB].Status)
		})
	}
}

func TestTaskTenantDriftIsForbidden(t *testing.T) {
	f := newFixture(t)
	f.env.Locator.Put(access.KindTask, access.Ownership{
		ID:             taskA,
		TenantID:       tenantA,
		ParentTenantID: tenantB,
	})

	_, err := f.svc.UpdateStatus(
		context.Background(),
		accesstest.Member(memberA, tenantA),
		taskA,
		StatusCompleted,
	)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, accesstest.StatusOf(err))
	assert.Equal(t, StatusTodo, f.repo.tasks[taskA].Status)
}

func TestUpdateTask(t *testing.T) {
	t.Run("unassign with null", func(t *testing.T) {
		f := newFixture(t)

		updated, err := f.svc.Update(
			context.Background(),
			accesstest.Member(memberA2, tenantA),
			taskA,
			Patch{AssignedTo: core.NullOf[string]()},
		)
		require.NoError(t, err)
		assert.Nil(t, updated.AssignedTo)
		assert.Equal(t, []audit.Action{audit.ActionUpdateTask}, f.env.Recorder.Actions())
	})

	t.Run("reassign in tenant", func(t *testing.T) {
		f := newFixture(t)

		updated, err := f.svc.Update(
			context.Background(),
			accesstest.Member(memberA, tenantA),
			taskA,
			Patch{AssignedTo: core.NullableOf(memberA2), Title: strPtr("Design v2")},
		)
		require.NoError(t, err)
		require.NotNil(t, updated.AssignedTo)
		assert.Equal(t, memberA2, *updated.AssignedTo)
		assert.Equal(t, "Design v2", updated.Title)
	})

	rejections := []struct {
		name    string
		taskID  string
		patch   Patch
		status  int
		message string
	}{
		{
			name:    "foreign assignee",
			taskID:  taskA,
			patch:   Patch{AssignedTo: core.NullableOf(memberB)},
			status:  http.StatusBadRequest,
			message: "Assigned user does not belong to tenant",
		},
		{
			name:    "foreign task",
			taskID:  taskB,
			patch:   Patch{Title: strPtr("Mine")},
			status:  http.StatusNotFound,
			message: "Task not found",
		},
		{
			name:    "empty patch",
			taskID:  taskA,
			status:  http.StatusBadRequest,
			message: "No valid fields to update",
		},
	}

	for _, tt := range rejections {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.svc.Update(context.Background(), accesstest.Member(memberA, tenantA), tt.taskID, tt.patch)
			require.Error(t, err)
			assert.Equal(t, tt.status, accesstest.StatusOf(err))
			assert.Equal(t, tt.message, accesstest.MessageOf(err))
			assert.Zero(t, f.env.Tx.Committed)
		})
	}
}

func TestListTasks(t *testing.T) {
	f := newFixture(t)
	member := accesstest.Member(memberA2, tenantA)

	views, total, err := f.svc.ListForProject(context.Background(), member, projectA, ListParams{Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, views, 1)
	assert.Equal(t, taskA, views[0].ID)

	_, _, err = f.svc.ListForProject(context.Background(), member, projectB, ListParams{Limit: 50})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, accesstest.StatusOf(err))
	assert.Equal(t, "Unauthorized project access", accesstest.MessageOf(err))

	views, total, err = f.svc.List(context.Background(), member, ListParams{AssignedTo: memberA, Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, views, 1)

	_, _, err = f.svc.List(context.Background(), member, ListParams{AssignedTo: "someone", Limit: 50})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, accesstest.StatusOf(err))

	last := f.repo.listed[len(f.repo.listed)-1]
	assert.Empty(t, last.ProjectID)
}
