package callstore

import (
	"context"
	"sync"
)

// Registry is the volatile index of calls currently in progress, keyed by
// session key. Mutations go through the Store only; reads never block on
// writers beyond a short critical section.
type Registry interface {
	Put(ctx context.Context, call ActiveCall) error
	Remove(ctx context.Context, sessionKey string) error
	Snapshot(ctx context.Context) ([]ActiveCall, error)
}

// MemoryRegistry is the default in-process registry. State is lost on
// restart, which is acceptable: the durable journal is the source of truth
// and stale entries are swept anyway.
type MemoryRegistry struct {
	mu    sync.RWMutex
	calls map[string]ActiveCall
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{calls: make(map[string]ActiveCall)}
}

func (r *MemoryRegistry) Put(ctx context.Context, call ActiveCall) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[call.SessionKey] = call
	return nil
}

func (r *MemoryRegistry) Remove(ctx context.Context, sessionKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.calls, sessionKey)
	return nil
}

func (r *MemoryRegistry) Snapshot(ctx context.Context) ([]ActiveCall, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ActiveCall, 0, len(r.calls))
	for _, c := range r.calls {
		out = append(out, c)
	}
	return out, nil
}
