// AngelaMos | 2026
// repository.go

package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/templates/saas-backend/internal/core"
)

const taskColumns = `id, project_id, tenant_id, title, description, status, priority,
		       assigned_to, due_date, created_at, updated_at`

type Repository interface {
	WithTx(tx core.DBTX) Repository
	Create(ctx context.Context, task *Task) error
	UpdateStatus(ctx context.Context, id, status string) (*Task, error)
	Update(ctx context.Context, id string, patch Patch) (*Task, error)
	List(ctx context.Context, tenantID string, params ListParams) ([]View, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx core.DBTX) Repository {
	return &repository{db: tx}
}

// Create inserts task. A foreign key violation means the project or the
// assignee left the tenant after they were checked, and is reported as
// ErrInvalidInput.
func (r *repository) Create(ctx context.Context, task *Task) error {
	query := `
		INSERT INTO tasks (id, project_id, tenant_id, title, description, status,
		                   priority, assigned_to, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		task.ID,
		task.ProjectID,
		task.TenantID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.AssignedTo,
		task.DueDate,
	).Scan(&task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if core.IsForeignKeyError(err) {
			return fmt.Errorf("create task: %w", core.ErrInvalidInput)
		}
		return fmt.Errorf("create task: %w", err)
	}

	return nil
}

func (r *repository) UpdateStatus(
	ctx context.Context,
	id, status string,
) (*Task, error) {
	query := `
		UPDATE tasks
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + taskColumns

	var task Task
	err := r.db.GetContext(ctx, &task, query, status, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update task status: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update task status: %w", err)
	}

	return &task, nil
}

func (r *repository) Update(
	ctx context.Context,
	id string,
	patch Patch,
) (*Task, error) {
	var sets []string
	var args []any
	argIdx := 1

	add := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.Priority != nil {
		add("priority", *patch.Priority)
	}
	if patch.AssignedTo.Set {
		add("assigned_to", patch.AssignedTo.Value)
	}
	if patch.DueDate.Set {
		add("due_date", patch.DueDate.Value)
	}
	if len(sets) == 0 {
		return nil, fmt.Errorf("update task: no fields: %w", core.ErrInvalidInput)
	}

	query := fmt.Sprintf(`
		UPDATE tasks
		SET %s, updated_at = NOW()
		WHERE id = $%d
		RETURNING `+taskColumns,
		strings.Join(sets, ", "), argIdx)
	args = append(args, id)

	var task Task
	err := r.db.GetContext(ctx, &task, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update task: %w", core.ErrNotFound)
	}
	if err != nil {
		if core.IsForeignKeyError(err) {
			return nil, fmt.Errorf("update task: %w", core.ErrInvalidInput)
		}
		return nil, fmt.Errorf("update task: %w", err)
	}

	return &task, nil
}

// List returns the tenant's tasks, optionally within one project, highest
// priority first and then by due date.
func (r *repository) List(
	ctx context.Context,
	tenantID string,
	params ListParams,
) ([]View, int, error) {
	conditions := []string{"t.tenant_id = $1"}
	args := []any{tenantID}
	argIdx := 2

	filters := []struct {
		column string
		value  string
	}{
		{"t.project_id", params.ProjectID},
		{"t.status", params.Status},
		{"t.assigned_to", params.AssignedTo},
		{"t.priority", params.Priority},
	}
	for _, f := range filters {
		if f.value == "" {
			continue
		}
		conditions = append(conditions, fmt.Sprintf("%s = $%d", f.column, argIdx))
		args = append(args, f.value)
		argIdx++
	}

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf("t.title ILIKE $%d", argIdx))
		args = append(args, "%"+core.EscapeLike(params.Search)+"%")
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := "SELECT COUNT(*) FROM tasks t WHERE " + whereClause
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT t.id, t.project_id, t.tenant_id, t.title, t.description, t.status,
		       t.priority, t.assigned_to, t.due_date, t.created_at, t.updated_at,
		       u.full_name AS assignee_name, u.email AS assignee_email
		FROM tasks t
		LEFT JOIN users u ON u.id = t.assigned_to
		WHERE %s
		ORDER BY
			CASE t.priority
				WHEN 'high' THEN 1
				WHEN 'medium' THEN 2
				ELSE 3
			END,
			t.due_date ASC NULLS LAST,
			t.created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIdx, argIdx+1)

	args = append(args, params.Limit, params.Offset)

	tasks := []View{}
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, total, nil
}
