// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/carterperez-dev/templates/saas-backend/internal/access"
)

type User struct {
	ID           string    `db:"id"`
	TenantID     *string   `db:"tenant_id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	FullName     string    `db:"full_name"`
	Role         string    `db:"role"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (u *User) TenantIDOrEmpty() string {
	if u.TenantID == nil {
		return ""
	}
	return *u.TenantID
}

// Patch lists the fields of a partial update. Nil fields are left unchanged.
type Patch struct {
	FullName *string
	Role     *string
	IsActive *bool
}

func (p Patch) IsEmpty() bool {
	return p.FullName == nil && p.Role == nil && p.IsActive == nil
}

// Actions maps the present fields to the policy actions they require.
// Role and activation changes are access management, not profile edits.
func (p Patch) Actions() []access.Action {
	actions := []access.Action{access.ActionUserUpdate}
	if p.Role != nil || p.IsActive != nil {
		actions = append(actions, access.ActionUserUpdateAccess)
	}
	return actions
}

func (p Patch) Deactivates() bool {
	return p.IsActive != nil && !*p.IsActive
}
