// AngelaMos | 2026
// entity.go

package tenant

import (
	"time"

	"github.com/carterperez-dev/templates/saas-backend/internal/access"
	"github.com/carterperez-dev/templates/saas-backend/internal/auth"
	"github.com/carterperez-dev/templates/saas-backend/internal/config"
)

const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusTrial     = "trial"
)

type Tenant struct {
	ID               string    `db:"id"`
	Name             string    `db:"name"`
	Subdomain        string    `db:"subdomain"`
	Status           string    `db:"status"`
	SubscriptionPlan string    `db:"subscription_plan"`
	MaxUsers         int       `db:"max_users"`
	MaxProjects      int       `db:"max_projects"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func (t *Tenant) Info() *auth.TenantInfo {
	return &auth.TenantInfo{
		ID:               t.ID,
		Name:             t.Name,
		Subdomain:        t.Subdomain,
		Status:           t.Status,
		SubscriptionPlan: t.SubscriptionPlan,
	}
}

type Stats struct {
	TotalUsers    int `db:"total_users"`
	TotalProjects int `db:"total_projects"`
	TotalTasks    int `db:"total_tasks"`
}

type Details struct {
	Tenant
	Stats Stats
}

// Summary is one row of the platform-wide tenant listing.
type Summary struct {
	Tenant
	TotalUsers    int `db:"total_users"`
	TotalProjects int `db:"total_projects"`
}

// Patch lists the fields of a partial update. Nil fields are left unchanged.
type Patch struct {
	Name             *string
	Status           *string
	SubscriptionPlan *string
	MaxUsers         *int
	MaxProjects      *int
}

func (p Patch) IsEmpty() bool {
	return p.Name == nil && !p.touchesSubscription()
}

// Actions maps the present fields to the policy actions they require.
// Status, plan and limits are subscription management.
func (p Patch) Actions() []access.Action {
	actions := []access.Action{access.ActionTenantUpdate}
	if p.touchesSubscription() {
		actions = append(actions, access.ActionTenantUpdateSubscription)
	}
	return actions
}

// WithPlanLimits fills limits the caller left out from the new plan, so a
// plan change without explicit limits takes the plan's defaults.
func (p Patch) WithPlanLimits(plan config.PlanConfig) Patch {
	if p.SubscriptionPlan == nil {
		return p
	}
	if p.MaxUsers == nil {
		p.MaxUsers = &plan.MaxUsers
	}
	if p.MaxProjects == nil {
		p.MaxProjects = &plan.MaxProjects
	}
	return p
}

func (p Patch) touchesSubscription() bool {
	return p.Status != nil ||
		p.SubscriptionPlan != nil ||
		p.MaxUsers != nil ||
		p.MaxProjects != nil
}

type ListParams struct {
	Status           string
	SubscriptionPlan string
	Limit            int
	Offset           int
}
