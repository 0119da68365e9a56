// Package session provides request-scoped transient state with read-once
// slots, used to carry failed form submissions across a redirect.
package session

import (
	"context"
	"sync"

	"github.com/goliatone/go-ninecms/pkg/interfaces"
)

// MemoryStore is an in-process SessionStore. Values live until popped;
// a Pop consumes the slot so a refresh never replays stale form state.
type MemoryStore struct {
	mu    sync.Mutex
	slots map[string]map[string]any
}

var _ interfaces.SessionStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		slots: make(map[string]map[string]any),
	}
}

// Put stores value under (sessionID, key), replacing any prior value.
func (m *MemoryStore) Put(_ context.Context, sessionID, key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bucket, ok := m.slots[sessionID]
	if !ok {
		bucket = make(map[string]any)
		m.slots[sessionID] = bucket
	}
	bucket[key] = value
	return nil
}

// Pop returns and clears the value under (sessionID, key).
func (m *MemoryStore) Pop(_ context.Context, sessionID, key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	bucket, ok := m.slots[sessionID]
	if !ok {
		return nil, false
	}
	value, ok := bucket[key]
	if !ok {
		return nil, false
	}
	delete(bucket, key)
	if len(bucket) == 0 {
		delete(m.slots, sessionID)
	}
	return value, true
}
