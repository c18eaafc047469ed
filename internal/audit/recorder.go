// AngelaMos | 2026
// recorder.go

package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/carterperez-dev/templates/saas-backend/internal/config"
)

var (
	droppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "audit_dropped_total",
		Help: "Audit entries dropped because the buffer was full or closed",
	})

	writeFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "audit_write_failures_total",
		Help: "Audit entries that could not be persisted",
	})
)

// Recorder accepts audit entries. Record never blocks the caller and never
// reports failure.
type Recorder interface {
	Record(ctx context.Context, entry Entry)
}

type Writer interface {
	Insert(ctx context.Context, entry *Entry) error
}

// AsyncRecorder persists entries on a single background worker.
type AsyncRecorder struct {
	writer       Writer
	entries      chan Entry
	writeTimeout time.Duration
	logger       *slog.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewAsyncRecorder(
	writer Writer,
	cfg config.AuditConfig,
	logger *slog.Logger,
) *AsyncRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	bufferSize := cfg.BufferSize
	if bufferSize < 1 {
		bufferSize = 1
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}

	r := &AsyncRecorder{
		writer:       writer,
		entries:      make(chan Entry, bufferSize),
		writeTimeout: writeTimeout,
		logger:       logger,
		done:         make(chan struct{}),
	}

	go r.run()
	return r
}

func (r *AsyncRecorder) Record(_ context.Context, entry Entry) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		droppedTotal.Inc()
		r.logger.Warn("audit recorder closed, entry dropped",
			"action", entry.Action,
			"entity_type", entry.EntityType,
		)
		return
	}

	select {
	case r.entries <- entry:
	default:
		droppedTotal.Inc()
		r.logger.Warn("audit buffer full, entry dropped",
			"action", entry.Action,
			"entity_type", entry.EntityType,
		)
	}
}

func (r *AsyncRecorder) run() {
	defer close(r.done)

	for entry := range r.entries {
		r.write(entry)
	}
}

func (r *AsyncRecorder) write(entry Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), r.writeTimeout)
	defer cancel()

	if err := r.writer.Insert(ctx, &entry); err != nil {
		writeFailuresTotal.Inc()
		r.logger.Error("audit write failed",
			"error", err,
			"action", entry.Action,
			"entity_type", entry.EntityType,
		)
	}
}

var (
	ErrRecorderClosed  = errors.New("audit recorder closed")
	ErrBufferSaturated = errors.New("audit buffer saturated")
)

// Health fails once the recorder is closed or its buffer is full, since
// entries recorded in either state are dropped.
func (r *AsyncRecorder) Health(context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return ErrRecorderClosed
	}
	if len(r.entries) >= cap(r.entries) {
		return ErrBufferSaturated
	}
	return nil
}

// Close stops accepting entries and waits for the buffer to drain.
func (r *AsyncRecorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.entries)
	}
	r.mu.Unlock()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return errors.Join(errors.New("audit drain interrupted"), ctx.Err())
	}
}
