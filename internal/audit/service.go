// AngelaMos | 2026
// service.go

package audit

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/templates/saas-backend/internal/core"
)

const DefaultListLimit = 50

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(
	ctx context.Context,
	tenantID string,
	filter ListFilter,
	page core.PageParams,
) ([]Entry, int, error) {
	entries, total, err := s.repo.List(ctx, ListParams{
		TenantID:   tenantID,
		Action:     filter.Action,
		EntityType: filter.EntityType,
		Limit:      page.Limit,
		Offset:     page.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, total, nil
}

type ListFilter struct {
	Action     string
	EntityType string
}
