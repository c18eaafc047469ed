// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

type RefreshToken struct {
	ID           string     `db:"id"`
	UserID       string     `db:"user_id"`
	TokenHash    string     `db:"token_hash"`
	FamilyID     string     `db:"family_id"`
	ExpiresAt    time.Time  `db:"expires_at"`
	CreatedAt    time.Time  `db:"created_at"`
	IsUsed       bool       `db:"is_used"`
	UsedAt       *time.Time `db:"used_at"`
	RevokedAt    *time.Time `db:"revoked_at"`
	ReplacedByID *string    `db:"replaced_by_id"`
	UserAgent    string     `db:"user_agent"`
	IPAddress    string     `db:"ip_address"`
}

func (t *RefreshToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

func (t *RefreshToken) IsValid() bool {
	return !t.IsExpired() && !t.IsRevoked() && !t.IsUsed
}

// UserInfo is the account view the auth flows need. TenantID is empty for
// system accounts.
type UserInfo struct {
	ID           string
	TenantID     string
	Email        string
	FullName     string
	PasswordHash string
	Role         string
	IsActive     bool
}

type TenantInfo struct {
	ID               string
	Name             string
	Subdomain        string
	Status           string
	SubscriptionPlan string
}

const tenantStatusSuspended = "suspended"

func (t *TenantInfo) CanSignIn() bool {
	return t.Status != tenantStatusSuspended
}

// Registration is a new tenant together with its first tenant_admin.
type Registration struct {
	TenantName       string
	Subdomain        string
	SubscriptionPlan string
	AdminEmail       string
	AdminPassword    string
	AdminFullName    string
}

type Registered struct {
	Tenant TenantInfo
	Admin  UserInfo
}
