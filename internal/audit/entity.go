// AngelaMos | 2026
// entity.go

package audit

import (
	"time"
)

type Action string

const (
	ActionRegisterTenant   Action = "REGISTER_TENANT"
	ActionUpdateTenant     Action = "UPDATE_TENANT"
	ActionCreateUser       Action = "CREATE_USER"
	ActionUpdateUser       Action = "UPDATE_USER"
	ActionDeleteUser       Action = "DELETE_USER"
	ActionCreateProject    Action = "CREATE_PROJECT"
	ActionUpdateProject    Action = "UPDATE_PROJECT"
	ActionDeleteProject    Action = "DELETE_PROJECT"
	ActionCreateTask       Action = "CREATE_TASK"
	ActionUpdateTask       Action = "UPDATE_TASK"
	ActionUpdateTaskStatus Action = "UPDATE_TASK_STATUS"
)

// Entry is one append-only audit record. Tenant and user are nil for
// platform-level actions. CreatedAt is the time of the action, not of the
// asynchronous write.
type Entry struct {
	ID         string    `db:"id"`
	TenantID   *string   `db:"tenant_id"`
	UserID     *string   `db:"user_id"`
	Action     Action    `db:"action"`
	EntityType string    `db:"entity_type"`
	EntityID   *string   `db:"entity_id"`
	CreatedAt  time.Time `db:"created_at"`
}

func NewEntry(tenantID, userID string, action Action, entityType, entityID string) Entry {
	return Entry{
		TenantID:   optional(tenantID),
		UserID:     optional(userID),
		Action:     action,
		EntityType: entityType,
		EntityID:   optional(entityID),
		CreatedAt:  time.Now().UTC(),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
