// AngelaMos | 2026
// accesstest.go

// Package accesstest provides in-memory collaborators for exercising the
// mutation pipeline in service tests.
package accesstest

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/carterperez-dev/templates/saas-backend/internal/access"
	"github.com/carterperez-dev/templates/saas-backend/internal/audit"
	"github.com/carterperez-dev/templates/saas-backend/internal/core"
)

// Tx runs fn with a nil DBTX and counts outcomes. Fake repositories ignore
// the handle they are given.
type Tx struct {
	mu         sync.Mutex
	Committed  int
	RolledBack int
}

func (t *Tx) InTx(_ context.Context, fn func(tx core.DBTX) error) error {
	err := fn(nil)

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.RolledBack++
		return err
	}
	t.Committed++
	return nil
}

type Locator struct {
	mu      sync.Mutex
	entries map[string]access.Ownership
}

func (l *Locator) Put(kind access.Kind, own access.Ownership) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if own.ParentTenantID == "" {
		own.ParentTenantID = own.TenantID
	}
	l.entries[string(kind)+":"+own.ID] = own
}

func (l *Locator) Remove(kind access.Kind, id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, string(kind)+":"+id)
}

func (l *Locator) Locate(_ context.Context, kind access.Kind, id string) (access.Ownership, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	own, ok := l.entries[string(kind)+":"+id]
	if !ok {
		return access.Ownership{}, core.ErrNotFound
	}
	return own, nil
}

// Quota reports fixed usage per tenant and kind.
type Quota struct {
	mu    sync.Mutex
	usage map[string]access.Usage
	Calls int
}

func (q *Quota) Set(tenantID string, kind access.Kind, usage access.Usage) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.usage[tenantID+":"+string(kind)] = usage
}

func (q *Quota) LockUsage(
	_ context.Context,
	_ core.DBTX,
	tenantID string,
	kind access.Kind,
) (access.Usage, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.Calls++
	usage, ok := q.usage[tenantID+":"+string(kind)]
	if !ok {
		return access.Usage{}, core.ErrNotFound
	}
	return usage, nil
}

type Recorder struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (r *Recorder) Record(_ context.Context, e audit.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *Recorder) Entries() []audit.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]audit.Entry(nil), r.entries...)
}

func (r *Recorder) Actions() []audit.Action {
	var actions []audit.Action
	for _, e := range r.Entries() {
		actions = append(actions, e.Action)
	}
	return actions
}

// Env wires a real Pipeline, Resolver and Policy to the fakes above.
type Env struct {
	Tx       *Tx
	Locator  *Locator
	Quota    *Quota
	Recorder *Recorder
	Pipeline *access.Pipeline
	Resolver *access.Resolver
	Policy   *access.Policy
}

func New() *Env {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	env := &Env{
		Tx:       &Tx{},
		Locator:  &Locator{entries: map[string]access.Ownership{}},
		Quota:    &Quota{usage: map[string]access.Usage{}},
		Recorder: &Recorder{},
		Policy:   access.NewPolicy(),
	}
	env.Pipeline = access.NewPipeline(
		env.Tx,
		access.NewGuard(env.Quota),
		env.Recorder,
		logger,
	)
	env.Resolver = access.NewResolver(env.Locator, logger)
	return env
}

func Member(userID, tenantID string) access.Subject {
	return access.Subject{UserID: userID, TenantID: tenantID, Role: access.RoleUser}
}

func Admin(userID, tenantID string) access.Subject {
	return access.Subject{UserID: userID, TenantID: tenantID, Role: access.RoleTenantAdmin}
}

func SuperAdmin(userID string) access.Subject {
	return access.Subject{UserID: userID, Role: access.RoleSuperAdmin}
}

// StatusOf maps err to the HTTP status it would be served with.
func StatusOf(err error) int {
	if err == nil {
		return 0
	}
	return core.ToAppError(err).StatusCode
}

func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	return core.ToAppError(err).Message
}
