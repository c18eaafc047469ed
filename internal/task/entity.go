// AngelaMos | 2026
// entity.go

package task

import (
	"time"

	"github.com/carterperez-dev/templates/saas-backend/internal/core"
)

const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// DateLayout is the wire and storage format of due dates.
const DateLayout = "2006-01-02"

// Task belongs to the tenant of its project; TenantID is copied from the
// project at creation and never changes.
type Task struct {
	ID          string     `db:"id"`
	ProjectID   string     `db:"project_id"`
	TenantID    string     `db:"tenant_id"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	Status      string     `db:"status"`
	Priority    string     `db:"priority"`
	AssignedTo  *string    `db:"assigned_to"`
	DueDate     *time.Time `db:"due_date"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// View is a listed task joined with its assignee.
type View struct {
	Task
	AssigneeName  *string `db:"assignee_name"`
	AssigneeEmail *string `db:"assignee_email"`
}

// Patch lists the fields of a partial update. AssignedTo and DueDate may be
// set to null to clear them.
type Patch struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	AssignedTo  core.Nullable[string]
	DueDate     core.Nullable[time.Time]
}

func (p Patch) IsEmpty() bool {
	return p.Title == nil &&
		p.Description == nil &&
		p.Status == nil &&
		p.Priority == nil &&
		!p.AssignedTo.Set &&
		!p.DueDate.Set
}

// Assignee returns the user being assigned, or "" when the patch leaves the
// assignment alone or clears it.
func (p Patch) Assignee() string {
	if !p.AssignedTo.Set || p.AssignedTo.Value == nil {
		return ""
	}
	return *p.AssignedTo.Value
}

type ListParams struct {
	ProjectID  string
	Status     string
	AssignedTo string
	Priority   string
	Search     string
	Limit      int
	Offset     int
}
