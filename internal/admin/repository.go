// AngelaMos | 2026
// repository.go

package admin

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/templates/saas-backend/internal/core"
)

type Repository interface {
	Counts(ctx context.Context) (*Counts, error)
	TenantsByPlan(ctx context.Context) ([]PlanCount, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Counts(ctx context.Context) (*Counts, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM tenants) AS tenants,
			(SELECT COUNT(*) FROM tenants WHERE status = 'active') AS active_tenants,
			(SELECT COUNT(*) FROM tenants WHERE status = 'trial') AS trial_tenants,
			(SELECT COUNT(*) FROM tenants WHERE status = 'suspended') AS suspended_tenants,
			(SELECT COUNT(*) FROM users) AS users,
			(SELECT COUNT(*) FROM projects) AS projects,
			(SELECT COUNT(*) FROM tasks) AS tasks,
			(SELECT COUNT(*) FROM tasks WHERE status = 'completed') AS completed_tasks`

	var counts Counts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count platform: %w", err)
	}
	return &counts, nil
}

func (r *repository) TenantsByPlan(ctx context.Context) ([]PlanCount, error) {
	query := `
		SELECT subscription_plan, COUNT(*) AS tenants
		FROM tenants
		GROUP BY subscription_plan
		ORDER BY subscription_plan`

	plans := []PlanCount{}
	if err := r.db.SelectContext(ctx, &plans, query); err != nil {
		return nil, fmt.Errorf("count tenants by plan: %w", err)
	}
	return plans, nil
}
