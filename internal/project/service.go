// AngelaMos | 2026
// service.go

package project

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/saas-backend/internal/access"
	"github.com/carterperez-dev/templates/saas-backend/internal/audit"
	"github.com/carterperez-dev/templates/saas-backend/internal/core"
)

var notFound = access.Scope{Mode: access.ConcealAsNotFound}

type Service struct {
	repo     Repository
	pipeline *access.Pipeline
	resolver *access.Resolver
	policy   *access.Policy
}

func NewService(
	repo Repository,
	pipeline *access.Pipeline,
	resolver *access.Resolver,
	policy *access.Policy,
) *Service {
	return &Service{
		repo:     repo,
		pipeline: pipeline,
		resolver: resolver,
		policy:   policy,
	}
}

// Create adds a project to the caller's tenant, counted against the
// tenant's project limit.
func (s *Service) Create(
	ctx context.Context,
	subject access.Subject,
	req CreateProjectRequest,
) (*Project, error) {
	status := req.Status
	if status == "" {
		status = StatusActive
	}

	creator := subject.UserID
	project := &Project{
		ID:          uuid.New().String(),
		TenantID:    subject.TenantID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Status:      status,
		CreatedBy:   &creator,
	}

	return access.Execute(ctx, s.pipeline, access.Mutation[*Project]{
		Action:     audit.ActionCreateProject,
		EntityType: access.KindProject,
		Subject:    subject,
		TenantID:   subject.TenantID,
		Authorize: func(context.Context) error {
			return s.policy.Authorize(
				subject,
				access.Target{TenantID: subject.TenantID},
				access.ActionProjectCreate,
			)
		},
		Quota: access.KindProject,
		Apply: func(ctx context.Context, tx core.DBTX) (*Project, error) {
			if err := s.repo.WithTx(tx).Create(ctx, project); err != nil {
				return nil, err
			}
			return project, nil
		},
		EntityID: func(p *Project) string { return p.ID },
	})
}

func (s *Service) Get(
	ctx context.Context,
	subject access.Subject,
	projectID string,
) (*Overview, error) {
	own, err := s.resolver.ResolveInTenant(
		ctx,
		access.KindProject,
		projectID,
		subject.TenantID,
		notFound,
	)
	if err != nil {
		return nil, err
	}

	if err := s.policy.Authorize(subject, own.Target(), access.ActionProjectView); err != nil {
		return nil, err
	}

	return s.repo.GetOverview(ctx, projectID)
}

func (s *Service) List(
	ctx context.Context,
	subject access.Subject,
	status, search string,
	page core.PageParams,
) ([]Overview, int, error) {
	err := s.policy.Authorize(
		subject,
		access.Target{TenantID: subject.TenantID},
		access.ActionProjectView,
	)
	if err != nil {
		return nil, 0, err
	}

	return s.repo.List(ctx, subject.TenantID, ListParams{
		Status: status,
		Search: strings.TrimSpace(search),
		Limit:  page.Limit,
		Offset: page.Offset(),
	})
}

// Update is open to the tenant admin and to the project's creator.
func (s *Service) Update(
	ctx context.Context,
	subject access.Subject,
	projectID string,
	patch Patch,
) (*Project, error) {
	return access.Execute(ctx, s.pipeline, access.Mutation[*Project]{
		Action:     audit.ActionUpdateProject,
		EntityType: access.KindProject,
		Subject:    subject,
		TenantID:   subject.TenantID,
		Authorize: func(ctx context.Context) error {
			if err := s.authorizeOwned(ctx, subject, projectID, access.ActionProjectUpdate); err != nil {
				return err
			}
			if patch.IsEmpty() {
				return core.ValidationError("No valid fields to update")
			}
			return nil
		},
		Apply: func(ctx context.Context, tx core.DBTX) (*Project, error) {
			return s.repo.WithTx(tx).Update(ctx, projectID, patch)
		},
		EntityID: func(p *Project) string { return p.ID },
	})
}

// Delete removes the project and, through the cascade, its tasks.
func (s *Service) Delete(
	ctx context.Context,
	subject access.Subject,
	projectID string,
) error {
	_, err := access.Execute(ctx, s.pipeline, access.Mutation[string]{
		Action:     audit.ActionDeleteProject,
		EntityType: access.KindProject,
		Subject:    subject,
		TenantID:   subject.TenantID,
		Authorize: func(ctx context.Context) error {
			return s.authorizeOwned(ctx, subject, projectID, access.ActionProjectDelete)
		},
		Apply: func(ctx context.Context, tx core.DBTX) (string, error) {
			if err := s.repo.WithTx(tx).Delete(ctx, projectID); err != nil {
				return "", err
			}
			return projectID, nil
		},
		EntityID: func(id string) string { return id },
	})
	return err
}

func (s *Service) authorizeOwned(
	ctx context.Context,
	subject access.Subject,
	projectID string,
	action access.Action,
) error {
	own, err := s.resolver.ResolveInTenant(
		ctx,
		access.KindProject,
		projectID,
		subject.TenantID,
		notFound,
	)
	if err != nil {
		return err
	}
	return s.policy.Authorize(subject, own.Target(), action)
}
