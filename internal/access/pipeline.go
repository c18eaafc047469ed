// AngelaMos | 2026
// pipeline.go

package access

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/saas-backend/internal/audit"
	"github.com/carterperez-dev/templates/saas-backend/internal/core"
)

// Pipeline runs every write as: authorize, then one transaction holding the
// quota check and the write, then a best-effort audit record.
type Pipeline struct {
	tx       core.TxRunner
	guard    *Guard
	recorder audit.Recorder
	logger   *slog.Logger
}

func NewPipeline(
	tx core.TxRunner,
	guard *Guard,
	recorder audit.Recorder,
	logger *slog.Logger,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{tx: tx, guard: guard, recorder: recorder, logger: logger}
}

type Mutation[T any] struct {
	Action     audit.Action
	EntityType Kind
	Subject    Subject
	// TenantID is where the write lands. Required when Quota is set.
	TenantID string
	// Authorize runs scope and policy checks. Nil means no checks.
	Authorize func(ctx context.Context) error
	// Prepare runs after authorization and outside the transaction, for
	// slow work such as password hashing that must not hold row locks.
	Prepare func(ctx context.Context) error
	// Quota is the kind counted against the tenant's plan, or empty.
	Quota Kind
	Apply func(ctx context.Context, tx core.DBTX) (T, error)
	// EntityID extracts the audited entity id from the result.
	EntityID func(T) string
}

// Execute short-circuits on the first failing step. Nothing is written
// unless authorization and quota both pass, and the audit outcome never
// changes the result.
func Execute[T any](ctx context.Context, p *Pipeline, m Mutation[T]) (T, error) {
	ctx, span := core.StartSpan(ctx, "mutation."+string(m.Action),
		attribute.String("entity_type", string(m.EntityType)),
		attribute.String("tenant_id", m.TenantID),
		attribute.String("user_id", m.Subject.UserID),
	)

	var zero T

	if m.Authorize != nil {
		if err := m.Authorize(ctx); err != nil {
			p.logger.DebugContext(ctx, "mutation denied",
				"action", m.Action,
				"user_id", m.Subject.UserID,
				"trace_id", core.TraceIDFromContext(ctx),
				"error", err,
			)
			core.EndSpan(span, err)
			return zero, err
		}
	}

	if m.Prepare != nil {
		if err := m.Prepare(ctx); err != nil {
			core.EndSpan(span, err)
			return zero, err
		}
	}

	var result T
	err := p.tx.InTx(ctx, func(tx core.DBTX) error {
		if m.Quota != "" {
			if err := p.guard.CheckCreateAllowed(ctx, tx, m.TenantID, m.Quota); err != nil {
				return err
			}
		}

		var applyErr error
		result, applyErr = m.Apply(ctx, tx)
		return applyErr
	})
	if err != nil {
		core.EndSpan(span, err)
		return zero, err
	}

	record(ctx, p, m, result)
	core.EndSpan(span, nil)

	return result, nil
}

func record[T any](ctx context.Context, p *Pipeline, m Mutation[T], result T) {
	if p.recorder == nil {
		return
	}

	var entityID string
	if m.EntityID != nil {
		entityID = m.EntityID(result)
	}

	p.recorder.Record(ctx, audit.NewEntry(
		m.TenantID,
		m.Subject.UserID,
		m.Action,
		string(m.EntityType),
		entityID,
	))
}
