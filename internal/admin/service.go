// AngelaMos | 2026
// service.go

// Package admin reports platform-wide statistics to super administrators.
package admin

import (
	"context"

	"github.com/carterperez-dev/templates/saas-backend/internal/access"
)

// Counts are row totals across every tenant.
type Counts struct {
	Tenants          int `db:"tenants"`
	ActiveTenants    int `db:"active_tenants"`
	TrialTenants     int `db:"trial_tenants"`
	SuspendedTenants int `db:"suspended_tenants"`
	Users            int `db:"users"`
	Projects         int `db:"projects"`
	Tasks            int `db:"tasks"`
	CompletedTasks   int `db:"completed_tasks"`
}

type PlanCount struct {
	Plan    string `db:"subscription_plan"`
	Tenants int    `db:"tenants"`
}

type Platform struct {
	Counts Counts
	Plans  []PlanCount
}

type Service struct {
	repo   Repository
	policy *access.Policy
}

func NewService(repo Repository, policy *access.Policy) *Service {
	return &Service{repo: repo, policy: policy}
}

func (s *Service) Platform(ctx context.Context, subject access.Subject) (*Platform, error) {
	if err := s.policy.Authorize(subject, access.Target{}, access.ActionPlatformStats); err != nil {
		return nil, err
	}

	counts, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, err
	}

	plans, err := s.repo.TenantsByPlan(ctx)
	if err != nil {
		return nil, err
	}

	return &Platform{Counts: *counts, Plans: plans}, nil
}
