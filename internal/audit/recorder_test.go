// AngelaMos | 2026
// recorder_test.go

package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/saas-backend/internal/config"
)

type fakeWriter struct {
	mu      sync.Mutex
	entries []Entry
	block   chan struct{}
	err     error
}

func (f *fakeWriter) Insert(_ context.Context, entry *Entry) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeWriter) snapshot() []Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Entry(nil), f.entries...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAsyncRecorderPersistsEntriesOnClose(t *testing.T) {
	w := &fakeWriter{}
	rec := NewAsyncRecorder(w, config.AuditConfig{BufferSize: 8, WriteTimeout: time.Second}, discardLogger())

	rec.Record(context.Background(), NewEntry("t1", "u1", ActionCreateProject, "project", "p1"))
	rec.Record(context.Background(), NewEntry("t1", "u1", ActionDeleteProject, "project", "p1"))

	require.NoError(t, rec.Close(context.Background()))

	got := w.snapshot()
	require.Len(t, got, 2)
	assert.Equal(t, ActionCreateProject, got[0].Action)
	assert.Equal(t, "t1", *got[0].TenantID)
	assert.Equal(t, "p1", *got[1].EntityID)
}

func TestAsyncRecorderDropsWhenBufferFull(t *testing.T) {
	w := &fakeWriter{block: make(chan struct{})}
	rec := NewAsyncRecorder(w, config.AuditConfig{BufferSize: 1, WriteTimeout: time.Second}, discardLogger())

	for range 10 {
		rec.Record(context.Background(), NewEntry("t1", "u1", ActionUpdateTask, "task", "x"))
	}

	close(w.block)
	require.NoError(t, rec.Close(context.Background()))

	got := w.snapshot()
	assert.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), 2)
}

func TestAsyncRecorderSwallowsWriteErrors(t *testing.T) {
	w := &fakeWriter{err: errors.New("connection refused")}
	rec := NewAsyncRecorder(w, config.AuditConfig{BufferSize: 4}, discardLogger())

	assert.NotPanics(t, func() {
		rec.Record(context.Background(), NewEntry("t1", "u1", ActionCreateUser, "user", "u2"))
	})
	require.NoError(t, rec.Close(context.Background()))
	assert.Empty(t, w.snapshot())
}

func TestAsyncRecorderRecordAfterCloseIsDropped(t *testing.T) {
	w := &fakeWriter{}
	rec := NewAsyncRecorder(w, config.AuditConfig{BufferSize: 4}, discardLogger())
	require.NoError(t, rec.Close(context.Background()))

	assert.NotPanics(t, func() {
		rec.Record(context.Background(), NewEntry("", "", ActionRegisterTenant, "tenant", ""))
	})
	require.NoError(t, rec.Close(context.Background()))
	assert.Empty(t, w.snapshot())
}

func TestNewEntryLeavesEmptyIDsNil(t *testing.T) {
	e := NewEntry("", "u1", ActionRegisterTenant, "tenant", "")
	assert.Nil(t, e.TenantID)
	assert.Nil(t, e.EntityID)
	require.NotNil(t, e.UserID)
	assert.Equal(t, "u1", *e.UserID)
}

func TestAsyncRecorderHealth(t *testing.T) {
	w := &fakeWriter{block: make(chan struct{})}
	rec := NewAsyncRecorder(w, config.AuditConfig{BufferSize: 1, WriteTimeout: time.Second}, discardLogger())
	ctx := context.Background()

	rec.Record(ctx, NewEntry("t1", "u1", ActionCreateTask, "task", "a"))
	require.Eventually(t, func() bool { return rec.Health(ctx) == nil }, time.Second, 5*time.Millisecond)

	rec.Record(ctx, NewEntry("t1", "u1", ActionCreateTask, "task", "b"))
	assert.ErrorIs(t, rec.Health(ctx), ErrBufferSaturated)

	close(w.block)
	require.Eventually(t, func() bool { return rec.Health(ctx) == nil }, time.Second, 5*time.Millisecond)

	require.NoError(t, rec.Close(ctx))
	assert.ErrorIs(t, rec.Health(ctx), ErrRecorderClosed)
	assert.Len(t, w.snapshot(), 2)
}

func TestAsyncRecorderKeepsEventTime(t *testing.T) {
	w := &fakeWriter{block: make(chan struct{})}
	rec := NewAsyncRecorder(w, config.AuditConfig{BufferSize: 4, WriteTimeout: time.Second}, discardLogger())

	recorded := time.Now().UTC()
	rec.Record(context.Background(), NewEntry("t1", "u1", ActionUpdateProject, "project", "p1"))

	time.Sleep(50 * time.Millisecond)
	released := time.Now().UTC()
	close(w.block)
	require.NoError(t, rec.Close(context.Background()))

	got := w.snapshot()
	require.Len(t, got, 1)
	assert.False(t, got[0].CreatedAt.Before(recorded))
	assert.True(t, got[0].CreatedAt.Before(released))
}
