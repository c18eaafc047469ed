// AngelaMos | 2026
// integration_test.go

package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/saas-backend/internal/access"
	"github.com/carterperez-dev/templates/saas-backend/internal/core"
	"github.com/carterperez-dev/templates/saas-backend/internal/core/pgtest"
)

func TestDeleteUserUnassignsTasks(t *testing.T) {
	t.Parallel()

	db := pgtest.New(t)
	tenantID := pgtest.Tenant(t, db, "alpha", 5, 5)
	adminID := pgtest.User(t, db, tenantID, "admin@alpha.io", access.RoleTenantAdmin)
	memberID := pgtest.User(t, db, tenantID, "member@alpha.io", access.RoleUser)
	projectID := pgtest.Project(t, db, tenantID, "Alpha", &memberID)
	taskID := pgtest.Task(t, db, projectID, tenantID, "Owned", &memberID)

	repo := NewRepository(db.DB)
	err := db.InTx(context.Background(), func(tx core.DBTX) error {
		return repo.WithTx(tx).Delete(context.Background(), memberID)
	})
	require.NoError(t, err)

	assert.Equal(t, 1, pgtest.Count(t, db, "SELECT COUNT(*) FROM tasks WHERE id = $1 AND assigned_to IS NULL", taskID))
	assert.Equal(t, 1, pgtest.Count(t, db, "SELECT COUNT(*) FROM projects WHERE id = $1 AND created_by IS NULL", projectID))
	assert.Equal(t, 1, pgtest.Count(t, db, "SELECT COUNT(*) FROM users WHERE id = $1", adminID))

	err = repo.Delete(context.Background(), memberID)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestEmailUniquenessIsPerTenant(t *testing.T) {
	t.Parallel()

	db := pgtest.New(t)
	tenantA := pgtest.Tenant(t, db, "alpha", 5, 5)
	tenantB := pgtest.Tenant(t, db, "bravo", 5, 5)
	repo := NewRepository(db.DB)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, NewTenantAdmin(tenantA, "Shared@Example.com", "A", "hash")))
	require.NoError(t, repo.Create(ctx, NewTenantAdmin(tenantB, "shared@example.com", "B", "hash")))

	err := repo.Create(ctx, NewTenantAdmin(tenantA, "shared@example.com", "A2", "hash"))
	require.ErrorIs(t, err, core.ErrDuplicateKey)

	found, err := repo.GetByEmail(ctx, tenantB, "shared@example.com")
	require.NoError(t, err)
	assert.Equal(t, "B", found.FullName)

	_, err = repo.GetByEmail(ctx, "", "shared@example.com")
	require.ErrorIs(t, err, core.ErrNotFound)
}
