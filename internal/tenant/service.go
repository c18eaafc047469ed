// AngelaMos | 2026
// service.go

package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/saas-backend/internal/access"
	"github.com/carterperez-dev/templates/saas-backend/internal/audit"
	"github.com/carterperez-dev/templates/saas-backend/internal/auth"
	"github.com/carterperez-dev/templates/saas-backend/internal/config"
	"github.com/carterperez-dev/templates/saas-backend/internal/core"
	"github.com/carterperez-dev/templates/saas-backend/internal/user"
)

const msgUnknownPlan = "Unknown subscription plan"

type Service struct {
	repo     Repository
	users    user.Repository
	pipeline *access.Pipeline
	resolver *access.Resolver
	policy   *access.Policy
	plans    config.TenancyConfig
	logger   *slog.Logger
}

func NewService(
	repo Repository,
	users user.Repository,
	pipeline *access.Pipeline,
	resolver *access.Resolver,
	policy *access.Policy,
	plans config.TenancyConfig,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		users:    users,
		pipeline: pipeline,
		resolver: resolver,
		policy:   policy,
		plans:    plans,
		logger:   logger,
	}
}

func (s *Service) GetByID(ctx context.Context, id string) (*auth.TenantInfo, error) {
	tenant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return tenant.Info(), nil
}

func (s *Service) GetBySubdomain(
	ctx context.Context,
	subdomain string,
) (*auth.TenantInfo, error) {
	tenant, err := s.repo.GetBySubdomain(ctx, strings.ToLower(strings.TrimSpace(subdomain)))
	if err != nil {
		return nil, err
	}
	return tenant.Info(), nil
}

// Register creates the tenant with limits taken from its plan, and its first
// tenant_admin, in one transaction. Registration is not quota checked.
func (s *Service) Register(
	ctx context.Context,
	reg auth.Registration,
) (*auth.Registered, error) {
	planName := reg.SubscriptionPlan
	if planName == "" {
		planName = s.plans.DefaultPlan
	}
	if !s.plans.HasPlan(planName) {
		return nil, core.ValidationError(msgUnknownPlan)
	}
	plan, _ := s.plans.Plan(planName)

	tenant := &Tenant{
		ID:               uuid.New().String(),
		Name:             reg.TenantName,
		Subdomain:        reg.Subdomain,
		Status:           StatusActive,
		SubscriptionPlan: planName,
		MaxUsers:         plan.MaxUsers,
		MaxProjects:      plan.MaxProjects,
	}
	admin := user.NewTenantAdmin(tenant.ID, reg.AdminEmail, reg.AdminFullName, "")

	registered, err := access.Execute(ctx, s.pipeline, access.Mutation[*auth.Registered]{
		Action:     audit.ActionRegisterTenant,
		EntityType: access.KindTenant,
		Subject: access.Subject{
			UserID:   admin.ID,
			TenantID: tenant.ID,
			Role:     admin.Role,
		},
		TenantID: tenant.ID,
		Prepare: func(context.Context) error {
			hash, err := core.HashPassword(reg.AdminPassword)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			admin.PasswordHash = hash
			return nil
		},
		Apply: func(ctx context.Context, tx core.DBTX) (*auth.Registered, error) {
			if err := s.repo.WithTx(tx).Create(ctx, tenant); err != nil {
				if errors.Is(err, core.ErrDuplicateKey) {
					return nil, core.ConflictError("Subdomain already exists")
				}
				return nil, err
			}
			if err := s.users.WithTx(tx).Create(ctx, admin); err != nil {
				return nil, fmt.Errorf("create tenant admin: %w", err)
			}
			return &auth.Registered{
				Tenant: *tenant.Info(),
				Admin:  *user.ToUserInfo(admin),
			}, nil
		},
		EntityID: func(r *auth.Registered) string { return r.Tenant.ID },
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "tenant registered",
		"tenant_id", tenant.ID,
		"subdomain", tenant.Subdomain,
		"plan", tenant.SubscriptionPlan,
	)

	return registered, nil
}

// Get returns the tenant with its usage counts. Super admins may read any
// tenant, everyone else only their own.
func (s *Service) Get(
	ctx context.Context,
	subject access.Subject,
	tenantID string,
) (*Details, error) {
	own, err := s.resolver.ResolveInTenant(
		ctx,
		access.KindTenant,
		tenantID,
		subject.TenantID,
		access.Scope{
			Mode:              access.RevealMismatch,
			Message:           "Unauthorized access",
			AllowSystemCaller: true,
		},
	)
	if err != nil {
		return nil, err
	}

	if err := s.policy.Authorize(subject, own.Target(), access.ActionTenantView); err != nil {
		return nil, err
	}

	tenant, err := s.repo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	stats, err := s.repo.Stats(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	return &Details{Tenant: *tenant, Stats: stats}, nil
}

func (s *Service) List(
	ctx context.Context,
	subject access.Subject,
	status, plan string,
	page core.PageParams,
) ([]Summary, int, error) {
	if err := s.policy.Authorize(subject, access.Target{}, access.ActionTenantList); err != nil {
		return nil, 0, err
	}

	return s.repo.List(ctx, ListParams{
		Status:           status,
		SubscriptionPlan: plan,
		Limit:            page.Limit,
		Offset:           page.Offset(),
	})
}

// Update applies patch to tenantID. Tenant admins may rename their tenant;
// status, plan and limits belong to super admins, and a request carrying
// any of them is rejected whole when the caller is not one.
func (s *Service) Update(
	ctx context.Context,
	subject access.Subject,
	tenantID string,
	patch Patch,
) (*Tenant, error) {
	return access.Execute(ctx, s.pipeline, access.Mutation[*Tenant]{
		Action:     audit.ActionUpdateTenant,
		EntityType: access.KindTenant,
		Subject:    subject,
		TenantID:   tenantID,
		Authorize: func(ctx context.Context) error {
			own, err := s.resolver.ResolveInTenant(
				ctx,
				access.KindTenant,
				tenantID,
				subject.TenantID,
				access.Scope{
					Mode:              access.RevealMismatch,
					AllowSystemCaller: true,
				},
			)
			if err != nil {
				return err
			}
			if err := s.policy.Authorize(subject, own.Target(), patch.Actions()...); err != nil {
				return err
			}
			if patch.IsEmpty() {
				return core.ValidationError("No valid fields to update")
			}
			return nil
		},
		Prepare: func(context.Context) error {
			if patch.SubscriptionPlan == nil {
				return nil
			}
			if !s.plans.HasPlan(*patch.SubscriptionPlan) {
				return core.ValidationError(msgUnknownPlan)
			}
			plan, _ := s.plans.Plan(*patch.SubscriptionPlan)
			patch = patch.WithPlanLimits(plan)
			return nil
		},
		Apply: func(ctx context.Context, tx core.DBTX) (*Tenant, error) {
			return s.repo.WithTx(tx).Update(ctx, tenantID, patch)
		},
		EntityID: func(t *Tenant) string { return t.ID },
	})
}

var (
	_ auth.TenantProvider  = (*Service)(nil)
	_ auth.TenantRegistrar = (*Service)(nil)
)
