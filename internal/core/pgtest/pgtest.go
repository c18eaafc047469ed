// AngelaMos | 2026
// pgtest.go

// Package pgtest starts a disposable PostgreSQL with the application schema
// applied, for integration tests.
package pgtest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/carterperez-dev/templates/saas-backend/internal/config"
	"github.com/carterperez-dev/templates/saas-backend/internal/core"
	"github.com/carterperez-dev/templates/saas-backend/migrations"
)

const image = "postgres:16-alpine"

// New returns a migrated database that lives for the duration of t. It skips
// the test in short mode.
func New(t *testing.T) *core.Database {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	pgContainer, err := postgres.Run(ctx,
		image,
		postgres.WithDatabase("saas"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("5432/tcp").WithStartupTimeout(2*time.Minute),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pgContainer.Terminate(context.Background())
	})

	connString, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := core.NewDatabase(ctx, config.DatabaseConfig{
		URL:             connString,
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: time.Minute,
		TxTimeout:       10 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Migrate(ctx, migrations.FS))
	return db
}

// Tenant inserts an active tenant and returns its id.
func Tenant(t *testing.T, db *core.Database, subdomain string, maxUsers, maxProjects int) string {
	t.Helper()

	id := uuid.New().String()
	_, err := db.DB.ExecContext(context.Background(), `
		INSERT INTO tenants (id, name, subdomain, status, subscription_plan, max_users, max_projects)
		VALUES ($1, $2, $3, 'active', 'free', $4, $5)`,
		id, subdomain, subdomain, maxUsers, maxProjects)
	require.NoError(t, err)
	return id
}

// User inserts an active account of tenantID and returns its id.
func User(t *testing.T, db *core.Database, tenantID, email, role string) string {
	t.Helper()

	id := uuid.New().String()
	_, err := db.DB.ExecContext(context.Background(), `
		INSERT INTO users (id, tenant_id, email, password_hash, full_name, role)
		VALUES ($1, $2, $3, 'x', $3, $4)`,
		id, tenantID, email, role)
	require.NoError(t, err)
	return id
}

func Project(t *testing.T, db *core.Database, tenantID, name string, createdBy *string) string {
	t.Helper()

	id := uuid.New().String()
	_, err := db.DB.ExecContext(context.Background(), `
		INSERT INTO projects (id, tenant_id, name, created_by)
		VALUES ($1, $2, $3, $4)`,
		id, tenantID, name, createdBy)
	require.NoError(t, err)
	return id
}

func Task(t *testing.T, db *core.Database, projectID, tenantID, title string, assignedTo *string) string {
	t.Helper()

	id := uuid.New().String()
	_, err := db.DB.ExecContext(context.Background(), `
		INSERT INTO tasks (id, project_id, tenant_id, title, assigned_to)
		VALUES ($1, $2, $3, $4, $5)`,
		id, projectID, tenantID, title, assignedTo)
	require.NoError(t, err)
	return id
}

// Count returns SELECT COUNT(*) for query.
func Count(t *testing.T, db *core.Database, query string, args ...any) int {
	t.Helper()

	var n int
	require.NoError(t, db.DB.GetContext(context.Background(), &n, query, args...))
	return n
}
