// AngelaMos | 2026
// entity.go

package project

import (
	"time"
)

const (
	StatusActive    = "active"
	StatusArchived  = "archived"
	StatusCompleted = "completed"
)

type Project struct {
	ID          string    `db:"id"`
	TenantID    string    `db:"tenant_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Status      string    `db:"status"`
	CreatedBy   *string   `db:"created_by"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Overview is a project with its creator's name and task counts. The
// creator is nil once that user has been deleted.
type Overview struct {
	Project
	CreatorName        *string `db:"creator_name"`
	TaskCount          int     `db:"task_count"`
	CompletedTaskCount int     `db:"completed_task_count"`
}

type Patch struct {
	Name        *string
	Description *string
	Status      *string
}

func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Status == nil
}

type ListParams struct {
	Status string
	Search string
	Limit  int
	Offset int
}
