// AngelaMos | 2026
// dto.go

package project

import (
	"strings"
	"time"
)

const DefaultListLimit = 20

type CreateProjectRequest struct {
	Name        string `json:"name"        validate:"required,notblank,max=255"`
	Description string `json:"description" validate:"max=10000"`
	Status      string `json:"status"      validate:"omitempty,oneof=active archived completed"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"        validate:"omitempty,notblank,max=255"`
	Description *string `json:"description" validate:"omitempty,max=10000"`
	Status      *string `json:"status"      validate:"omitempty,oneof=active archived completed"`
}

func (r UpdateProjectRequest) Patch() Patch {
	p := Patch{Description: r.Description, Status: r.Status}
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		p.Name = &name
	}
	return p
}

type CreatorResponse struct {
	ID       string  `json:"id"`
	FullName *string `json:"fullName"`
}

type ProjectResponse struct {
	ID                 string           `json:"id"`
	TenantID           string           `json:"tenantId"`
	Name               string           `json:"name"`
	Description        string           `json:"description"`
	Status             string           `json:"status"`
	CreatedBy          *CreatorResponse `json:"createdBy"`
	TaskCount          int              `json:"taskCount"`
	CompletedTaskCount int              `json:"completedTaskCount"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

func ToProjectResponse(p *Project) ProjectResponse {
	resp := ProjectResponse{
		ID:          p.ID,
		TenantID:    p.TenantID,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.CreatedBy != nil {
		resp.CreatedBy = &CreatorResponse{ID: *p.CreatedBy}
	}
	return resp
}

func ToOverviewResponse(o *Overview) ProjectResponse {
	resp := ToProjectResponse(&o.Project)
	if resp.CreatedBy != nil {
		resp.CreatedBy.FullName = o.CreatorName
	}
	resp.TaskCount = o.TaskCount
	resp.CompletedTaskCount = o.CompletedTaskCount
	return resp
}

func ToOverviewResponseList(items []Overview) []ProjectResponse {
	responses := make([]ProjectResponse, 0, len(items))
	for _, o := range items {
		responses = append(responses, ToOverviewResponse(&o))
	}
	return responses
}
