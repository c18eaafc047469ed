// AngelaMos | 2026
// policy.go

package access

import (
	"fmt"
	"net/http"

	"github.com/carterperez-dev/templates/saas-backend/internal/core"
)

type Action string

const (
	ActionTenantView               Action = "tenant:view"
	ActionTenantList               Action = "tenant:list"
	ActionTenantUpdate             Action = "tenant:update"
	ActionTenantUpdateSubscription Action = "tenant:update_subscription"

	ActionUserCreate       Action = "user:create"
	ActionUserList         Action = "user:list"
	ActionUserUpdate       Action = "user:update"
	ActionUserUpdateAccess Action = "user:update_access"
	ActionUserDelete       Action = "user:delete"

	ActionProjectCreate Action = "project:create"
	ActionProjectView   Action = "project:view"
	ActionProjectUpdate Action = "project:update"
	ActionProjectDelete Action = "project:delete"

	ActionTaskCreate       Action = "task:create"
	ActionTaskView         Action = "task:view"
	ActionTaskUpdate       Action = "task:update"
	ActionTaskChangeStatus Action = "task:change_status"

	ActionAuditList     Action = "audit:list"
	ActionPlatformStats Action = "platform:stats"
)

const (
	msgNotAuthorized           = "Not authorized"
	msgInsufficientPermissions = "Insufficient permissions"
)

// Target describes what an action is performed on. OwnerID is the project
// creator for projects and the user itself for users.
type Target struct {
	TenantID string
	OwnerID  string
}

// Rule returns nil to allow, or a forbidden error explaining the denial.
type Rule func(s Subject, t Target) error

type Policy struct {
	rules map[Action]Rule
}

func NewPolicy() *Policy {
	member := isMember(msgNotAuthorized)
	tenantAdmin := allOf(hasRole(RoleTenantAdmin), isMember(""))

	return &Policy{rules: map[Action]Rule{
		ActionTenantView: anyOf(
			"Unauthorized access",
			hasRole(RoleSuperAdmin),
			isMember(""),
		),
		ActionTenantList: allOf(hasRole(RoleSuperAdmin)),
		ActionTenantUpdate: anyOf(
			msgNotAuthorized,
			hasRole(RoleSuperAdmin),
			tenantAdmin,
		),
		ActionTenantUpdateSubscription: anyOf(
			"Tenant admin cannot update subscription or status fields",
			hasRole(RoleSuperAdmin),
		),

		ActionUserCreate: anyOf(msgNotAuthorized, tenantAdmin),
		ActionUserList:   isMember("Unauthorized"),
		ActionUserUpdate: anyOf(
			msgNotAuthorized,
			tenantAdmin,
			isOwner(""),
		),
		ActionUserUpdateAccess: anyOf(
			msgInsufficientPermissions,
			tenantAdmin,
		),
		ActionUserDelete: allOf(
			anyOf(msgNotAuthorized, tenantAdmin),
			notOwner("Cannot delete self"),
		),

		ActionProjectCreate: member,
		ActionProjectView:   member,
		ActionProjectUpdate: anyOf(msgNotAuthorized, tenantAdmin, isOwner("")),
		ActionProjectDelete: anyOf(msgNotAuthorized, tenantAdmin, isOwner("")),

		ActionTaskCreate:       member,
		ActionTaskView:         member,
		ActionTaskUpdate:       member,
		ActionTaskChangeStatus: member,

		ActionAuditList:     anyOf(msgNotAuthorized, tenantAdmin),
		ActionPlatformStats: allOf(hasRole(RoleSuperAdmin)),
	}}
}

// Can reports whether subject may perform action on target.
func (p *Policy) Can(s Subject, t Target, action Action) bool {
	return p.check(s, t, action) == nil
}

// Authorize checks every action and fails on the first denial, so a request
// touching one restricted field is rejected as a whole.
func (p *Policy) Authorize(s Subject, t Target, actions ...Action) error {
	for _, action := range actions {
		if err := p.check(s, t, action); err != nil {
			return err
		}
	}
	return nil
}

// Require rejects requests whose caller may not perform action within its
// own tenant.
func (p *Policy) Require(action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := SubjectFromContext(r.Context())
			if err := p.Authorize(s, Target{TenantID: s.TenantID}, action); err != nil {
				core.JSONError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (p *Policy) check(s Subject, t Target, action Action) error {
	rule, ok := p.rules[action]
	if !ok {
		return fmt.Errorf("no rule for action %q: %w", action, core.ErrForbidden)
	}
	return rule(s, t)
}

func hasRole(roles ...string) Rule {
	return func(s Subject, _ Target) error {
		for _, role := range roles {
			if s.Role == role {
				return nil
			}
		}
		return core.ForbiddenError(msgNotAuthorized)
	}
}

func isMember(message string) Rule {
	return func(s Subject, t Target) error {
		if s.MemberOf(t.TenantID) {
			return nil
		}
		return core.ForbiddenError(message)
	}
}

func isOwner(message string) Rule {
	return func(s Subject, t Target) error {
		if t.OwnerID != "" && s.UserID == t.OwnerID {
			return nil
		}
		return core.ForbiddenError(message)
	}
}

func notOwner(message string) Rule {
	return func(s Subject, t Target) error {
		if s.UserID == t.OwnerID {
			return core.ForbiddenError(message)
		}
		return nil
	}
}

func allOf(rules ...Rule) Rule {
	return func(s Subject, t Target) error {
		for _, rule := range rules {
			if err := rule(s, t); err != nil {
				return err
			}
		}
		return nil
	}
}

func anyOf(message string, rules ...Rule) Rule {
	return func(s Subject, t Target) error {
		for _, rule := range rules {
			if rule(s, t) == nil {
				return nil
			}
		}
		return core.ForbiddenError(message)
	}
}
