// AngelaMos | 2026
// integration_test.go

package task

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/saas-backend/internal/access"
	"github.com/carterperez-dev/templates/saas-backend/internal/core"
	"github.com/carterperez-dev/templates/saas-backend/internal/core/pgtest"
)

func TestTaskTenantMustMatchProject(t *testing.T) {
	t.Parallel()

	db := pgtest.New(t)
	tenantA := pgtest.Tenant(t, db, "alpha", 5, 5)
	tenantB := pgtest.Tenant(t, db, "bravo", 5, 5)
	projectA := pgtest.Project(t, db, tenantA, "Alpha", nil)
	repo := NewRepository(db.DB)

	drifted := &Task{
		ID:        "5f7a3c52-9a0d-4a53-9a43-5b0a1bd0b001",
		ProjectID: projectA,
		TenantID:  tenantB,
		Title:     "Drifted",
		Status:    StatusTodo,
		Priority:  PriorityMedium,
	}
	err := repo.Create(context.Background(), drifted)
	require.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Zero(t, pgtest.Count(t, db, "SELECT COUNT(*) FROM tasks"))
}

func TestTaskAssigneeMustShareTenant(t *testing.T) {
	t.Parallel()

	db := pgtest.New(t)
	tenantA := pgtest.Tenant(t, db, "alpha", 5, 5)
	tenantB := pgtest.Tenant(t, db, "bravo", 5, 5)
	projectA := pgtest.Project(t, db, tenantA, "Alpha", nil)
	memberA := pgtest.User(t, db, tenantA, "a@alpha.io", access.RoleUser)
	memberB := pgtest.User(t, db, tenantB, "b@bravo.io", access.RoleUser)
	repo := NewRepository(db.DB)
	ctx := context.Background()

	task := &Task{
		ID:         "5f7a3c52-9a0d-4a53-9a43-5b0a1bd0b002",
		ProjectID:  projectA,
		TenantID:   tenantA,
		Title:      "Cross tenant",
		Status:     StatusTodo,
		Priority:   PriorityMedium,
		AssignedTo: &memberB,
	}
	require.ErrorIs(t, repo.Create(ctx, task), core.ErrInvalidInput)

	task.AssignedTo = &memberA
	require.NoError(t, repo.Create(ctx, task))

	_, err := repo.Update(ctx, task.ID, Patch{AssignedTo: core.Nullable[string]{Set: true, Value: &memberB}})
	require.ErrorIs(t, err, core.ErrInvalidInput)

	updated, err := repo.Update(ctx, task.ID, Patch{AssignedTo: core.Nullable[string]{Set: true}})
	require.NoError(t, err)
	assert.Nil(t, updated.AssignedTo)
}

func TestTaskListOrderAgainstPostgres(t *testing.T) {
	t.Parallel()

	db := pgtest.New(t)
	tenantID := pgtest.Tenant(t, db, "order", 5, 5)
	projectID := pgtest.Project(t, db, tenantID, "Ordered", nil)
	repo := NewRepository(db.DB)
	ctx := context.Background()

	day := func(d int) *time.Time {
		v := time.Date(2026, time.November, d, 0, 0, 0, 0, time.UTC)
		return &v
	}

	for _, tc := range []struct {
		id       string
		title    string
		priority string
		due      *time.Time
	}{
		{"5f7a3c52-9a0d-4a53-9a43-5b0a1bd0c001", "low", PriorityLow, day(1)},
		{"5f7a3c52-9a0d-4a53-9a43-5b0a1bd0c002", "high undated", PriorityHigh, nil},
		{"5f7a3c52-9a0d-4a53-9a43-5b0a1bd0c003", "high late", PriorityHigh, day(20)},
		{"5f7a3c52-9a0d-4a53-9a43-5b0a1bd0c004", "high soon", PriorityHigh, day(2)},
		{"5f7a3c52-9a0d-4a53-9a43-5b0a1bd0c005", "medium", PriorityMedium, nil},
	} {
		require.NoError(t, repo.Create(ctx, &Task{
			ID:        tc.id,
			ProjectID: projectID,
			TenantID:  tenantID,
			Title:     tc.title,
			Status:    StatusTodo,
			Priority:  tc.priority,
			DueDate:   tc.due,
		}))
	}

	views, total, err := repo.List(ctx, tenantID, ListParams{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 5, total)

	titles := make([]string, 0, len(views))
	for _, v := range views {
		titles = append(titles, v.Title)
	}
	assert.Equal(t, []string{"high soon", "high late", "high undated", "medium", "low"}, titles)

	views, total, err = repo.List(ctx, tenantID, ListParams{Priority: PriorityHigh, Search: "SOON", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, views, 1)
	assert.Equal(t, "high soon", views[0].Title)
}
