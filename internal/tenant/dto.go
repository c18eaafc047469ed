// AngelaMos | 2026
// dto.go

package tenant

import (
	"strings"
	"time"
)

const DefaultListLimit = 10

type UpdateTenantRequest struct {
	Name             *string `json:"name"             validate:"omitempty,notblank,max=255"`
	Status           *string `json:"status"           validate:"omitempty,oneof=active suspended trial"`
	SubscriptionPlan *string `json:"subscriptionPlan" validate:"omitempty,max=50"`
	MaxUsers         *int    `json:"maxUsers"         validate:"omitempty,min=1,max=100000"`
	MaxProjects      *int    `json:"maxProjects"      validate:"omitempty,min=1,max=100000"`
}

func (r UpdateTenantRequest) Patch() Patch {
	p := Patch{
		Status:      r.Status,
		MaxUsers:    r.MaxUsers,
		MaxProjects: r.MaxProjects,
	}
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		p.Name = &name
	}
	if r.SubscriptionPlan != nil {
		plan := strings.ToLower(strings.TrimSpace(*r.SubscriptionPlan))
		p.SubscriptionPlan = &plan
	}
	return p
}

type StatsResponse struct {
	TotalUsers    int `json:"totalUsers"`
	TotalProjects int `json:"totalProjects"`
	TotalTasks    int `json:"totalTasks"`
}

type TenantResponse struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Subdomain        string         `json:"subdomain"`
	Status           string         `json:"status"`
	SubscriptionPlan string         `json:"subscriptionPlan"`
	MaxUsers         int            `json:"maxUsers"`
	MaxProjects      int            `json:"maxProjects"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
	Stats            *StatsResponse `json:"stats,omitempty"`
}

type SummaryResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Subdomain        string    `json:"subdomain"`
	Status           string    `json:"status"`
	SubscriptionPlan string    `json:"subscriptionPlan"`
	TotalUsers       int       `json:"totalUsers"`
	TotalProjects    int       `json:"totalProjects"`
	CreatedAt        time.Time `json:"createdAt"`
}

func ToTenantResponse(t *Tenant) TenantResponse {
	return TenantResponse{
		ID:               t.ID,
		Name:             t.Name,
		Subdomain:        t.Subdomain,
		Status:           t.Status,
		SubscriptionPlan: t.SubscriptionPlan,
		MaxUsers:         t.MaxUsers,
		MaxProjects:      t.MaxProjects,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

func ToDetailsResponse(d *Details) TenantResponse {
	resp := ToTenantResponse(&d.Tenant)
	resp.Stats = &StatsResponse{
		TotalUsers:    d.Stats.TotalUsers,
		TotalProjects: d.Stats.TotalProjects,
		TotalTasks:    d.Stats.TotalTasks,
	}
	return resp
}

func ToSummaryResponseList(items []Summary) []SummaryResponse {
	responses := make([]SummaryResponse, 0, len(items))
	for _, s := range items {
		responses = append(responses, SummaryResponse{
			ID:               s.ID,
			Name:             s.Name,
			Subdomain:        s.Subdomain,
			Status:           s.Status,
			SubscriptionPlan: s.SubscriptionPlan,
			TotalUsers:       s.TotalUsers,
			TotalProjects:    s.TotalProjects,
			CreatedAt:        s.CreatedAt,
		})
	}
	return responses
}
