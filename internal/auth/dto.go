// AngelaMos | 2026
// dto.go

package auth

type LoginRequest struct {
	Email           string `json:"email"           validate:"required,email,max=255"`
	Password        string `json:"password"        validate:"required,max=128"`
	TenantSubdomain string `json:"tenantSubdomain" validate:"omitempty,alphanum,max=63"`
}

type RegisterTenantRequest struct {
	TenantName       string `json:"tenantName"       validate:"required,notblank,max=255"`
	Subdomain        string `json:"subdomain"        validate:"required,alphanum,min=2,max=63"`
	AdminEmail       string `json:"adminEmail"       validate:"required,email,max=255"`
	AdminPassword    string `json:"adminPassword"    validate:"required,min=8,max=128"`
	AdminFullName    string `json:"adminFullName"    validate:"required,notblank,max=255"`
	SubscriptionPlan string `json:"subscriptionPlan" validate:"omitempty,max=50"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type UserResponse struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	FullName string  `json:"fullName"`
	Role     string  `json:"role"`
	TenantID *string `json:"tenantId"`
}

type TenantSummary struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Subdomain        string `json:"subdomain"`
	Status           string `json:"status"`
	SubscriptionPlan string `json:"subscriptionPlan"`
}

type AuthResponse struct {
	User         UserResponse   `json:"user"`
	Tenant       *TenantSummary `json:"tenant,omitempty"`
	Token        string         `json:"token"`
	RefreshToken string         `json:"refreshToken"`
	ExpiresIn    int            `json:"expiresIn"`
}

type MeResponse struct {
	User   UserResponse   `json:"user"`
	Tenant *TenantSummary `json:"tenant"`
}

func toUserResponse(u *UserInfo) UserResponse {
	resp := UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
	}
	if u.TenantID != "" {
		tenantID := u.TenantID
		resp.TenantID = &tenantID
	}
	return resp
}

func toTenantSummary(t *TenantInfo) *TenantSummary {
	if t == nil {
		return nil
	}
	return &TenantSummary{
		ID:               t.ID,
		Name:             t.Name,
		Subdomain:        t.Subdomain,
		Status:           t.Status,
		SubscriptionPlan: t.SubscriptionPlan,
	}
}
