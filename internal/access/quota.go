// AngelaMos | 2026
// quota.go

package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/saas-backend/internal/core"
)

var quotaRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "quota_rejections_total",
		Help: "Create requests rejected because a tenant limit was reached",
	},
	[]string{"kind"},
)

// Usage is a tenant's limit and current count for one resource kind.
type Usage struct {
	Limit int
	Count int
}

// QuotaStore reads usage inside tx. Implementations must lock the tenant row
// so concurrent creates for one tenant are serialized until commit.
type QuotaStore interface {
	LockUsage(ctx context.Context, tx core.DBTX, tenantID string, kind Kind) (Usage, error)
}

type Guard struct {
	store QuotaStore
}

func NewGuard(store QuotaStore) *Guard {
	return &Guard{store: store}
}

// CheckCreateAllowed fails with a limit error when creating one more kind
// would exceed the tenant's plan. Tasks are unbounded.
func (g *Guard) CheckCreateAllowed(
	ctx context.Context,
	tx core.DBTX,
	tenantID string,
	kind Kind,
) error {
	var message string
	switch kind {
	case KindProject:
		message = "Project limit reached"
	case KindUser:
		message = "User limit reached"
	default:
		return nil
	}

	usage, err := g.store.LockUsage(ctx, tx, tenantID, kind)
	if errors.Is(err, core.ErrNotFound) {
		return core.NotFoundError("tenant")
	}
	if err != nil {
		return fmt.Errorf("check %s quota: %w", kind, err)
	}

	if usage.Count >= usage.Limit {
		quotaRejectionsTotal.WithLabelValues(string(kind)).Inc()
		core.AddSpanEvent(ctx, "quota.rejected",
			attribute.String("kind", string(kind)),
			attribute.Int("limit", usage.Limit),
		)
		return core.LimitReachedError(message)
	}

	return nil
}
