// AngelaMos | 2026
// repository.go

package access

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/templates/saas-backend/internal/core"
)

type sqlLocator struct {
	db core.DBTX
}

// NewLocator returns a Locator reading placements from PostgreSQL.
func NewLocator(db core.DBTX) Locator {
	return &sqlLocator{db: db}
}

var locateQueries = map[Kind]string{
	KindTenant: `
		SELECT id, id::text AS tenant_id, '' AS owner_id, id::text AS parent_tenant_id
		FROM tenants
		WHERE id = $1`,
	KindUser: `
		SELECT id, COALESCE(tenant_id::text, '') AS tenant_id, id::text AS owner_id,
		       COALESCE(tenant_id::text, '') AS parent_tenant_id
		FROM users
		WHERE id = $1`,
	KindProject: `
		SELECT id, tenant_id, COALESCE(created_by::text, '') AS owner_id,
		       tenant_id AS parent_tenant_id
		FROM projects
		WHERE id = $1`,
	KindTask: `
		SELECT t.id, t.tenant_id, '' AS owner_id, p.tenant_id AS parent_tenant_id
		FROM tasks t
		JOIN projects p ON p.id = t.project_id
		WHERE t.id = $1`,
}

func (l *sqlLocator) Locate(
	ctx context.Context,
	kind Kind,
	id string,
) (Ownership, error) {
	query, ok := locateQueries[kind]
	if !ok {
		return Ownership{}, fmt.Errorf("locate %s: unknown kind", kind)
	}

	var own Ownership
	err := l.db.GetContext(ctx, &own, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Ownership{}, fmt.Errorf("locate %s: %w", kind, core.ErrNotFound)
	}
	if err != nil {
		return Ownership{}, fmt.Errorf("locate %s: %w", kind, err)
	}

	return own, nil
}

type sqlQuotaStore struct{}

// NewQuotaStore returns a QuotaStore that locks the tenant row with
// SELECT ... FOR UPDATE before counting.
func NewQuotaStore() QuotaStore {
	return sqlQuotaStore{}
}

func (sqlQuotaStore) LockUsage(
	ctx context.Context,
	tx core.DBTX,
	tenantID string,
	kind Kind,
) (Usage, error) {
	var limitColumn, countQuery string
	switch kind {
	case KindProject:
		limitColumn = "max_projects"
		countQuery = "SELECT COUNT(*) FROM projects WHERE tenant_id = $1"
	case KindUser:
		limitColumn = "max_users"
		countQuery = "SELECT COUNT(*) FROM users WHERE tenant_id = $1"
	default:
		return Usage{}, fmt.Errorf("lock usage: no quota for %s", kind)
	}

	var usage Usage
	lockQuery := fmt.Sprintf(
		"SELECT %s FROM tenants WHERE id = $1 FOR UPDATE",
		limitColumn,
	)
	err := tx.GetContext(ctx, &usage.Limit, lockQuery, tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return Usage{}, fmt.Errorf("lock usage: %w", core.ErrNotFound)
	}
	if err != nil {
		return Usage{}, fmt.Errorf("lock usage: %w", err)
	}

	if err := tx.GetContext(ctx, &usage.Count, countQuery, tenantID); err != nil {
		return Usage{}, fmt.Errorf("count %s: %w", kind, err)
	}

	return usage, nil
}
