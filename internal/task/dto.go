// AngelaMos | 2026
// dto.go

package task

import (
	"strings"
	"time"

	"github.com/carterperez-dev/templates/saas-backend/internal/core"
)

const DefaultListLimit = 50

const msgInvalidDueDate = "dueDate must be a date in YYYY-MM-DD format"

type CreateTaskRequest struct {
	Title       string `json:"title"       validate:"required,notblank,max=255"`
	Description string `json:"description" validate:"max=10000"`
	Priority    string `json:"priority"    validate:"omitempty,oneof=low medium high"`
	AssignedTo  string `json:"assignedTo"  validate:"omitempty,uuid"`
	DueDate     string `json:"dueDate"`
}

// Task builds the new task without its tenant, which comes from the project.
func (r CreateTaskRequest) Task(projectID string) (*Task, error) {
	priority := r.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	t := &Task{
		ProjectID:   projectID,
		Title:       strings.TrimSpace(r.Title),
		Description: r.Description,
		Status:      StatusTodo,
		Priority:    priority,
	}
	if r.AssignedTo != "" {
		assignee := r.AssignedTo
		t.AssignedTo = &assignee
	}
	if r.DueDate != "" {
		due, err := time.Parse(DateLayout, r.DueDate)
		if err != nil {
			return nil, core.ValidationError(msgInvalidDueDate)
		}
		t.DueDate = &due
	}
	return t, nil
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=todo in_progress completed"`
}

type UpdateTaskRequest struct {
	Title       *string               `json:"title"       validate:"omitempty,notblank,max=255"`
	Description *string               `json:"description" validate:"omitempty,max=10000"`
	Status      *string               `json:"status"      validate:"omitempty,oneof=todo in_progress completed"`
	Priority    *string               `json:"priority"    validate:"omitempty,oneof=low medium high"`
	AssignedTo  core.Nullable[string] `json:"assignedTo"`
	DueDate     core.Nullable[string] `json:"dueDate"`
}

func (r UpdateTaskRequest) Patch() (Patch, error) {
	p := Patch{
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		AssignedTo:  r.AssignedTo,
	}
	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		p.Title = &title
	}
	if r.DueDate.Set {
		p.DueDate.Set = true
		if r.DueDate.Value != nil {
			due, err := time.Parse(DateLayout, *r.DueDate.Value)
			if err != nil {
				return Patch{}, core.ValidationError(msgInvalidDueDate)
			}
			p.DueDate.Value = &due
		}
	}
	return p, nil
}

type AssigneeResponse struct {
	ID       string  `json:"id"`
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
}

type TaskResponse struct {
	ID          string            `json:"id"`
	ProjectID   string            `json:"projectId"`
	TenantID    string            `json:"tenantId"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      string            `json:"status"`
	Priority    string            `json:"priority"`
	AssignedTo  *string           `json:"assignedTo"`
	Assignee    *AssigneeResponse `json:"assignee,omitempty"`
	DueDate     *string           `json:"dueDate"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func ToTaskResponse(t *Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		TenantID:    t.TenantID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		AssignedTo:  t.AssignedTo,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.DueDate != nil {
		due := t.DueDate.Format(DateLayout)
		resp.DueDate = &due
	}
	return resp
}

func ToViewResponseList(views []View) []TaskResponse {
	responses := make([]TaskResponse, 0, len(views))
	for _, v := range views {
		resp := ToTaskResponse(&v.Task)
		if v.AssignedTo != nil {
			resp.Assignee = &AssigneeResponse{
				ID:       *v.AssignedTo,
				FullName: v.AssigneeName,
				Email:    v.AssigneeEmail,
			}
		}
		responses = append(responses, resp)
	}
	return responses
}
