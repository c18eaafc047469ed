// AngelaMos | 2026
// repository.go

package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/templates/saas-backend/internal/core"
)

const projectColumns = `id, tenant_id, name, description, status, created_by,
		       created_at, updated_at`

const overviewSelect = `
		SELECT p.id, p.tenant_id, p.name, p.description, p.status, p.created_by,
		       p.created_at, p.updated_at,
		       u.full_name AS creator_name,
		       (SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id) AS task_count,
		       (SELECT COUNT(*) FROM tasks t
		         WHERE t.project_id = p.id AND t.status = 'completed') AS completed_task_count
		FROM projects p
		LEFT JOIN users u ON u.id = p.created_by`

type Repository interface {
	WithTx(tx core.DBTX) Repository
	Create(ctx context.Context, project *Project) error
	GetOverview(ctx context.Context, id string) (*Overview, error)
	Update(ctx context.Context, id string, patch Patch) (*Project, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, tenantID string, params ListParams) ([]Overview, int, error)
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

func (r *repository) Create(ctx context.Context, project *Project) error {
	query := `
		INSERT INTO projects (id, tenant_id, name, description, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		project.ID,
		project.TenantID,
		project.Name,
		project.Description,
		project.Status,
		project.CreatedBy,
	).Scan(&project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}

	return nil
}

func (r *repository) GetOverview(ctx context.Context, id string) (*Overview, error) {
	query := overviewSelect + ` WHERE p.id = $1`

	var overview Overview
	err := r.db.GetContext(ctx, &overview, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get project: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}

	return &overview, nil
}

func (r *repository) Update(
	ctx context.Context,
	id string,
	patch Patch,
) (*Project, error) {
	var sets []string
	var args []any
	argIdx := 1

	if patch.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *patch.Name)
		argIdx++
	}
	if patch.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", argIdx))
		args = append(args, *patch.Description)
		argIdx++
	}
	if patch.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *patch.Status)
		argIdx++
	}
	if len(sets) == 0 {
		return nil, fmt.Errorf("update project: no fields: %w", core.ErrInvalidInput)
	}

	query := fmt.Sprintf(`
		UPDATE projects
		SET %s, updated_at = NOW()
		WHERE id = $%d
		RETURNING `+projectColumns,
		strings.Join(sets, ", "), argIdx)
	args = append(args, id)

	var project Project
	err := r.db.GetContext(ctx, &project, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update project: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}

	return &project, nil
}

// Delete removes the project; its tasks go with it through the foreign key
// cascade.
func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete project: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	tenantID string,
	params ListParams,
) ([]Overview, int, error) {
	conditions := []string{"p.tenant_id = $1"}
	args := []any{tenantID}
	argIdx := 2

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf("p.name ILIKE $%d", argIdx))
		args = append(args, "%"+core.EscapeLike(params.Search)+"%")
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := "SELECT COUNT(*) FROM projects p WHERE " + whereClause
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	query := fmt.Sprintf(overviewSelect+`
		WHERE %s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIdx, argIdx+1)

	args = append(args, params.Limit, params.Offset)

	projects := []Overview{}
	if err := r.db.SelectContext(ctx, &projects, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}

	return projects, total, nil
}
