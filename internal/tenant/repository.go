// AngelaMos | 2026
// repository.go

package tenant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/templates/saas-backend/internal/core"
)

const tenantColumns = `id, name, subdomain, status, subscription_plan,
		       max_users, max_projects, created_at, updated_at`

type Repository interface {
	WithTx(tx core.DBTX) Repository
	Create(ctx context.Context, tenant *Tenant) error
	GetByID(ctx context.Context, id string) (*Tenant, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*Tenant, error)
	Update(ctx context.Context, id string, patch Patch) (*Tenant, error)
	Stats(ctx context.Context, id string) (Stats, error)
	List(ctx context.Context, params ListParams) ([]Summary, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx core.DBTX) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, tenant *Tenant) error {
	query := `
		INSERT INTO tenants (id, name, subdomain, status, subscription_plan,
		                     max_users, max_projects)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		tenant.ID,
		tenant.Name,
		tenant.Subdomain,
		tenant.Status,
		tenant.SubscriptionPlan,
		tenant.MaxUsers,
		tenant.MaxProjects,
	).Scan(&tenant.CreatedAt, &tenant.UpdatedAt)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create tenant: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create tenant: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`

	var tenant Tenant
	err := r.db.GetContext(ctx, &tenant, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get tenant: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get tenant: %w", err)
	}

	return &tenant, nil
}

func (r *repository) GetBySubdomain(
	ctx context.Context,
	subdomain string,
) (*Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE subdomain = $1`

	var tenant Tenant
	err := r.db.GetContext(ctx, &tenant, query, subdomain)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get tenant by subdomain: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get tenant by subdomain: %w", err)
	}

	return &tenant, nil
}

func (r *repository) Update(
	ctx context.Context,
	id string,
	patch Patch,
) (*Tenant, error) {
	var sets []string
	var args []any
	argIdx := 1

	add := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.SubscriptionPlan != nil {
		add("subscription_plan", *patch.SubscriptionPlan)
	}
	if patch.MaxUsers != nil {
		add("max_users", *patch.MaxUsers)
	}
	if patch.MaxProjects != nil {
		add("max_projects", *patch.MaxProjects)
	}
	if len(sets) == 0 {
		return nil, fmt.Errorf("update tenant: no fields: %w", core.ErrInvalidInput)
	}

	query := fmt.Sprintf(`
		UPDATE tenants
		SET %s, updated_at = NOW()
		WHERE id = $%d
		RETURNING `+tenantColumns,
		strings.Join(sets, ", "), argIdx)
	args = append(args, id)

	var tenant Tenant
	err := r.db.GetContext(ctx, &tenant, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update tenant: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update tenant: %w", err)
	}

	return &tenant, nil
}

func (r *repository) Stats(ctx context.Context, id string) (Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users WHERE tenant_id = $1) AS total_users,
			(SELECT COUNT(*) FROM projects WHERE tenant_id = $1) AS total_projects,
			(SELECT COUNT(*) FROM tasks WHERE tenant_id = $1) AS total_tasks`

	var stats Stats
	if err := r.db.GetContext(ctx, &stats, query, id); err != nil {
		return Stats{}, fmt.Errorf("tenant stats: %w", err)
	}

	return stats, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Summary, int, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("t.status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	if params.SubscriptionPlan != "" {
		conditions = append(conditions, fmt.Sprintf("t.subscription_plan = $%d", argIdx))
		args = append(args, params.SubscriptionPlan)
		argIdx++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM tenants t " + whereClause
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count tenants: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT t.id, t.name, t.subdomain, t.status, t.subscription_plan,
		       t.max_users, t.max_projects, t.created_at, t.updated_at,
		       (SELECT COUNT(*) FROM users u WHERE u.tenant_id = t.id) AS total_users,
		       (SELECT COUNT(*) FROM projects p WHERE p.tenant_id = t.id) AS total_projects
		FROM tenants t
		%s
		ORDER BY t.created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIdx, argIdx+1)

	args = append(args, params.Limit, params.Offset)

	items := []Summary{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list tenants: %w", err)
	}

	return items, total, nil
}
