// AngelaMos | 2026
// scope.go

package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/saas-backend/internal/core"
)

type Kind string

const (
	KindTenant  Kind = "tenant"
	KindUser    Kind = "user"
	KindProject Kind = "project"
	KindTask    Kind = "task"
)

// Mode selects how absent and cross-tenant targets are reported.
type Mode int

const (
	// RevealMismatch reports absent targets as 404 and foreign ones as 403.
	RevealMismatch Mode = iota
	// ConcealAsNotFound reports both as 404.
	ConcealAsNotFound
	// ConcealAsForbidden reports both as 403.
	ConcealAsForbidden
)

type Scope struct {
	Mode Mode
	// Message is the 403 message; empty means "Not authorized".
	Message string
	// AllowSystemCaller lets callers without a tenant (super_admin) through.
	AllowSystemCaller bool
}

// Ownership is the tenant placement of an entity. ParentTenantID is the
// owning project's tenant for tasks and equals TenantID otherwise.
type Ownership struct {
	ID             string `db:"id"`
	TenantID       string `db:"tenant_id"`
	OwnerID        string `db:"owner_id"`
	ParentTenantID string `db:"parent_tenant_id"`
}

func (o Ownership) Target() Target {
	return Target{TenantID: o.TenantID, OwnerID: o.OwnerID}
}

type Locator interface {
	Locate(ctx context.Context, kind Kind, id string) (Ownership, error)
}

type Resolver struct {
	locator Locator
	logger  *slog.Logger
}

func NewResolver(locator Locator, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{locator: locator, logger: logger}
}

// ResolveInTenant loads the placement of kind/id and verifies it lives in
// callerTenantID. Lookup is by id alone so absence and foreign ownership
// can be told apart before any role check runs.
func (r *Resolver) ResolveInTenant(
	ctx context.Context,
	kind Kind,
	id string,
	callerTenantID string,
	scope Scope,
) (Ownership, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Ownership{}, absent(kind, scope)
	}

	own, err := r.locator.Locate(ctx, kind, id)
	if errors.Is(err, core.ErrNotFound) {
		return Ownership{}, absent(kind, scope)
	}
	if err != nil {
		return Ownership{}, fmt.Errorf("resolve %s: %w", kind, err)
	}

	if kind == KindTask && own.ParentTenantID != own.TenantID {
		r.logger.Error("task tenant drifted from its project",
			"task_id", own.ID,
			"task_tenant_id", own.TenantID,
			"project_tenant_id", own.ParentTenantID,
		)
		return Ownership{}, mismatch(kind, scope)
	}

	if own.TenantID == callerTenantID && callerTenantID != "" {
		return own, nil
	}
	if scope.AllowSystemCaller && callerTenantID == "" {
		return own, nil
	}

	return Ownership{}, mismatch(kind, scope)
}

// EnsureInTenant verifies that a referenced entity, such as a task assignee,
// belongs to tenantID. Violations are input errors, not authorization ones.
func (r *Resolver) EnsureInTenant(
	ctx context.Context,
	kind Kind,
	id string,
	tenantID string,
	message string,
) error {
	if _, err := uuid.Parse(id); err != nil {
		return core.ValidationError(message)
	}

	own, err := r.locator.Locate(ctx, kind, id)
	if errors.Is(err, core.ErrNotFound) {
		return core.ValidationError(message)
	}
	if err != nil {
		return fmt.Errorf("ensure %s in tenant: %w", kind, err)
	}
	if own.TenantID != tenantID {
		return core.ValidationError(message)
	}
	return nil
}

func absent(kind Kind, scope Scope) error {
	if scope.Mode == ConcealAsForbidden {
		return core.ForbiddenError(scope.Message)
	}
	return core.NotFoundError(string(kind))
}

func mismatch(kind Kind, scope Scope) error {
	if scope.Mode == ConcealAsNotFound {
		return core.NotFoundError(string(kind))
	}
	return core.ForbiddenError(scope.Message)
}
