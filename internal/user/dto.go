// AngelaMos | 2026
// dto.go

package user

import (
	"strings"
	"time"
)

const DefaultListLimit = 50

type CreateUserRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	FullName string `json:"fullName" validate:"required,notblank,max=255"`
	Role     string `json:"role"     validate:"omitempty,oneof=user tenant_admin"`
}

type UpdateUserRequest struct {
	FullName *string `json:"fullName" validate:"omitempty,notblank,max=255"`
	Role     *string `json:"role"     validate:"omitempty,oneof=user tenant_admin"`
	IsActive *bool   `json:"isActive"`
}

func (r UpdateUserRequest) Patch() Patch {
	p := Patch{Role: r.Role, IsActive: r.IsActive}
	if r.FullName != nil {
		name := strings.TrimSpace(*r.FullName)
		p.FullName = &name
	}
	return p
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Role      string    `json:"role"`
	TenantID  *string   `json:"tenantId"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ListParams struct {
	Search string
	Role   string
	Limit  int
	Offset int
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		TenantID:  u.TenantID,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(&u))
	}
	return responses
}
