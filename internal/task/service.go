// AngelaMos | 2026
// service.go

package task

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/saas-backend/internal/access"
	"github.com/carterperez-dev/templates/saas-backend/internal/audit"
	"github.com/carterperez-dev/templates/saas-backend/internal/core"
)

const msgForeignAssignee = "Assigned user does not belong to tenant"

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

// Create adds task to projectID. The task takes the project's tenant, and an
// assignee must belong to that same tenant.
func (s *Service) Create(
	ctx context.Context,
	subject access.Subject,
	projectID string,
	task *Task,
) (*Task, error) {
	task.ID = uuid.New().String()

	return access.Execute(ctx, s.pipeline, access.Mutation[*Task]{
		Action:     audit.ActionCreateTask,
		EntityType: access.KindTask,
		Subject:    subject,
		TenantID:   subject.TenantID,
		Authorize: func(ctx context.Context) error {
			own, err := s.resolver.ResolveInTenant(
				ctx,
				access.KindProject,
				projectID,
				subject.TenantID,
				access.Scope{
					Mode:    access.ConcealAsForbidden,
					Message: "Project does not belong to tenant",
				},
			)
			if err != nil {
				return err
			}
			if err := s.policy.Authorize(subject, own.Target(), access.ActionTaskCreate); err != nil {
				return err
			}

			task.ProjectID = own.ID
			task.TenantID = own.TenantID

			if task.AssignedTo != nil {
				return s.ensureAssignable(ctx, *task.AssignedTo, own.TenantID)
			}
			return nil
		},
		Apply: func(ctx context.Context, tx core.DBTX) (*Task, error) {
			if err := s.repo.WithTx(tx).Create(ctx, task); err != nil {
				return nil, s.writeError(err)
			}
			return task, nil
		},
		EntityID: func(t *Task) string { return t.ID },
	})
}

// ListForProject lists the tasks of one project of the caller's tenant.
func (s *Service) ListForProject(
	ctx context.Context,
	subject access.Subject,
	projectID string,
	params ListParams,
) ([]View, int, error) {
	own, err := s.resolver.ResolveInTenant(
		ctx,
		access.KindProject,
		projectID,
		subject.TenantID,
		access.Scope{
			Mode:    access.ConcealAsForbidden,
			Message: "Unauthorized project access",
		},
	)
	if err != nil {
		return nil, 0, err
	}

	params.ProjectID = own.ID
	return s.list(ctx, subject, own.TenantID, params)
}

// List lists tasks across every project of the caller's tenant.
func (s *Service) List(
	ctx context.Context,
	subject access.Subject,
	params ListParams,
) ([]View, int, error) {
	params.ProjectID = ""
	return s.list(ctx, subject, subject.TenantID, params)
}

func (s *Service) list(
	ctx context.Context,
	subject access.Subject,
	tenantID string,
	params ListParams,
) ([]View, int, error) {
	err := s.policy.Authorize(
		subject,
		access.Target{TenantID: tenantID},
		access.ActionTaskView,
	)
	if err != nil {
		return nil, 0, err
	}

	if params.AssignedTo != "" {
		if _, err := uuid.Parse(params.AssignedTo); err != nil {
			return nil, 0, core.ValidationError("assignedTo must be a valid UUID")
		}
	}
	params.Search = strings.TrimSpace(params.Search)

	return s.repo.List(ctx, tenantID, params)
}

// UpdateStatus moves taskID to status. Absent and foreign tasks are both
// reported as forbidden.
func (s *Service) UpdateStatus(
	ctx context.Context,
	subject access.Subject,
	taskID, status string,
) (*Task, error) {
	return access.Execute(ctx, s.pipeline, access.Mutation[*Task]{
		Action:     audit.ActionUpdateTaskStatus,
		EntityType: access.KindTask,
		Subject:    subject,
		TenantID:   subject.TenantID,
		Authorize: func(ctx context.Context) error {
			own, err := s.resolver.ResolveInTenant(
				ctx,
				access.KindTask,
				taskID,
				subject.TenantID,
				access.Scope{
					Mode:    access.ConcealAsForbidden,
					Message: "Task not found or unauthorized",
				},
			)
			if err != nil {
				return err
			}
			return s.policy.Authorize(subject, own.Target(), access.ActionTaskChangeStatus)
		},
		Apply: func(ctx context.Context, tx core.DBTX) (*Task, error) {
			return s.repo.WithTx(tx).UpdateStatus(ctx, taskID, status)
		},
		EntityID: func(t *Task) string { return t.ID },
	})
}

// Update applies patch to taskID. A null assignedTo unassigns the task.
func (s *Service) Update(
	ctx context.Context,
	subject access.Subject,
	taskID string,
	patch Patch,
) (*Task, error) {
	return access.Execute(ctx, s.pipeline, access.Mutation[*Task]{
		Action:     audit.ActionUpdateTask,
		EntityType: access.KindTask,
		Subject:    subject,
		TenantID:   subject.TenantID,
		Authorize: func(ctx context.Context) error {
			own, err := s.resolver.ResolveInTenant(
				ctx,
				access.KindTask,
				taskID,
				subject.TenantID,
				access.Scope{Mode: access.ConcealAsNotFound},
			)
			if err != nil {
				return err
			}
			if err := s.policy.Authorize(subject, own.Target(), access.ActionTaskUpdate); err != nil {
				return err
			}
			if patch.IsEmpty() {
				return core.ValidationError("No valid fields to update")
			}
			if assignee := patch.Assignee(); assignee != "" {
				return s.ensureAssignable(ctx, assignee, own.TenantID)
			}
			return nil
		},
		Apply: func(ctx context.Context, tx core.DBTX) (*Task, error) {
			updated, err := s.repo.WithTx(tx).Update(ctx, taskID, patch)
			if err != nil {
				return nil, s.writeError(err)
			}
			return updated, nil
		},
		EntityID: func(t *Task) string { return t.ID },
	})
}

func (s *Service) ensureAssignable(ctx context.Context, userID, tenantID string) error {
	return s.resolver.EnsureInTenant(ctx, access.KindUser, userID, tenantID, msgForeignAssignee)
}

// writeError maps a foreign key rejection, raised when the assignee was
// removed between the check and the write, back to the input error.
func (s *Service) writeError(err error) error {
	if errors.Is(err, core.ErrInvalidInput) {
		return core.ValidationError(msgForeignAssignee)
	}
	return err
}
