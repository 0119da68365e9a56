package menus

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// MemoryRepository is an in-memory implementation for scaffolding and
// tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	items  map[int64]*MenuItem
	nextID int64
}

// NewMemoryRepository creates an empty in-memory menu repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		items:  make(map[int64]*MenuItem),
		nextID: 1,
	}
}

func (m *MemoryRepository) Create(_ context.Context, record *MenuItem) (*MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneItem(record)
	if copied.ID == 0 {
		copied.ID = m.nextID
	}
	if copied.ID >= m.nextID {
		m.nextID = copied.ID + 1
	}
	m.items[copied.ID] = copied
	record.ID = copied.ID
	return cloneItem(copied), nil
}

func (m *MemoryRepository) Update(_ context.Context, record *MenuItem) (*MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[record.ID]; !ok {
		return nil, &NotFoundError{Resource: "menu_item", Key: strconv.FormatInt(record.ID, 10)}
	}
	m.items[record.ID] = cloneItem(record)
	return cloneItem(record), nil
}

func (m *MemoryRepository) Delete(_ context.Context, ids []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.items, id)
	}
	return nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id int64) (*MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[id]
	if !ok {
		return nil, &NotFoundError{Resource: "menu_item", Key: strconv.FormatInt(id, 10)}
	}
	return cloneItem(item), nil
}

func (m *MemoryRepository) List(_ context.Context) ([]*MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*MenuItem, 0, len(m.items))
	for _, item := range m.items {
		out = append(out, cloneItem(item))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TreePath != out[j].TreePath {
			return out[i].TreePath < out[j].TreePath
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryRepository) DescendantsOf(_ context.Context, treePath string) ([]*MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	prefix := treePath + "."
	var out []*MenuItem
	for _, item := range m.items {
		if strings.HasPrefix(item.TreePath, prefix) {
			out = append(out, cloneItem(item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TreePath < out[j].TreePath })
	return out, nil
}

func (m *MemoryRepository) SaveTreePaths(_ context.Context, items []*MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, item := range items {
		stored, ok := m.items[item.ID]
		if !ok {
			return &NotFoundError{Resource: "menu_item", Key: strconv.FormatInt(item.ID, 10)}
		}
		stored.TreePath = item.TreePath
		stored.Depth = item.Depth
	}
	return nil
}

func cloneItem(src *MenuItem) *MenuItem {
	if src == nil {
		return nil
	}
	copied := *src
	if src.ParentID != nil {
		parent := *src.ParentID
		copied.ParentID = &parent
	}
	copied.Parent = nil
	return &copied
}
