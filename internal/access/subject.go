// AngelaMos | 2026
// subject.go

// Package access decides whether a caller may touch a tenant's data:
// tenant scoping, role policy, plan quotas and the mutation pipeline that
// applies them in order.
package access

import (
	"context"

	"github.com/carterperez-dev/templates/saas-backend/internal/middleware"
)

const (
	RoleSuperAdmin  = "super_admin"
	RoleTenantAdmin = "tenant_admin"
	RoleUser        = "user"
)

// Subject is the authenticated caller as carried by its access token.
type Subject struct {
	UserID   string
	TenantID string
	Role     string
}

func (s Subject) MemberOf(tenantID string) bool {
	return s.TenantID != "" && s.TenantID == tenantID
}

func SubjectFromContext(ctx context.Context) Subject {
	claims := middleware.GetClaims(ctx)
	if claims == nil {
		return Subject{}
	}
	return Subject{
		UserID:   claims.UserID,
		TenantID: claims.TenantID,
		Role:     claims.Role,
	}
}

