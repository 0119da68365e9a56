package blocks

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// MemoryBlockRepository is an in-memory implementation for scaffolding
// and tests.
type MemoryBlockRepository struct {
	mu     sync.RWMutex
	blocks map[uuid.UUID]*ContentBlock
	names  map[string]uuid.UUID
}

// NewMemoryBlockRepository creates an empty in-memory block repository.
func NewMemoryBlockRepository() *MemoryBlockRepository {
	return &MemoryBlockRepository{
		blocks: make(map[uuid.UUID]*ContentBlock),
		names:  make(map[string]uuid.UUID),
	}
}

func (m *MemoryBlockRepository) Create(_ context.Context, record *ContentBlock) (*ContentBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneBlock(record)
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	m.blocks[copied.ID] = copied
	m.names[copied.Name] = copied.ID
	record.ID = copied.ID
	return cloneBlock(copied), nil
}

func (m *MemoryBlockRepository) GetByID(_ context.Context, id uuid.UUID) (*ContentBlock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	block, ok := m.blocks[id]
	if !ok {
		return nil, &NotFoundError{Resource: "content_block", Key: id.String()}
	}
	return cloneBlock(block), nil
}

func (m *MemoryBlockRepository) GetByName(_ context.Context, name string) (*ContentBlock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.names[name]
	if !ok {
		return nil, &NotFoundError{Resource: "content_block", Key: name}
	}
	return cloneBlock(m.blocks[id]), nil
}

func (m *MemoryBlockRepository) List(_ context.Context) ([]*ContentBlock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*ContentBlock, 0, len(m.blocks))
	for _, block := range m.blocks {
		out = append(out, cloneBlock(block))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func cloneBlock(src *ContentBlock) *ContentBlock {
	if src == nil {
		return nil
	}
	copied := *src
	if src.NodeID != nil {
		nodeID := *src.NodeID
		copied.NodeID = &nodeID
	}
	if src.MenuItemID != nil {
		menuItemID := *src.MenuItemID
		copied.MenuItemID = &menuItemID
	}
	return &copied
}

// MemoryLayoutRepository is an in-memory implementation for scaffolding
// and tests. Lookups preload the referenced block when a block
// repository is attached.
type MemoryLayoutRepository struct {
	mu       sync.RWMutex
	elements map[int64]*LayoutElement
	blocks   *MemoryBlockRepository
	nextID   int64
}

// NewMemoryLayoutRepository creates an empty in-memory layout repository.
func NewMemoryLayoutRepository(blocks *MemoryBlockRepository) *MemoryLayoutRepository {
	return &MemoryLayoutRepository{
		elements: make(map[int64]*LayoutElement),
		blocks:   blocks,
		nextID:   1,
	}
}

func (m *MemoryLayoutRepository) Create(_ context.Context, record *LayoutElement) (*LayoutElement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneElement(record)
	if copied.ID == 0 {
		copied.ID = m.nextID
	}
	if copied.ID >= m.nextID {
		m.nextID = copied.ID + 1
	}
	m.elements[copied.ID] = copied
	record.ID = copied.ID
	return cloneElement(copied), nil
}

func (m *MemoryLayoutRepository) GetByID(ctx context.Context, id int64) (*LayoutElement, error) {
	m.mu.RLock()
	element, ok := m.elements[id]
	m.mu.RUnlock()
	if !ok {
		return nil, &NotFoundError{Resource: "layout_element", Key: strconv.FormatInt(id, 10)}
	}
	out := cloneElement(element)
	m.attachBlock(ctx, out)
	return out, nil
}

func (m *MemoryLayoutRepository) SetHidden(_ context.Context, id int64, hidden bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	element, ok := m.elements[id]
	if !ok {
		return &NotFoundError{Resource: "layout_element", Key: strconv.FormatInt(id, 10)}
	}
	element.Hidden = hidden
	return nil
}

func (m *MemoryLayoutRepository) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.elements, id)
	return nil
}

func (m *MemoryLayoutRepository) ListForPageType(ctx context.Context, pageTypeID uuid.UUID) ([]*LayoutElement, error) {
	m.mu.RLock()
	var out []*LayoutElement
	for _, element := range m.elements {
		if element.PageTypeID == pageTypeID && !element.Hidden {
			out = append(out, cloneElement(element))
		}
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Region != out[j].Region {
			return out[i].Region < out[j].Region
		}
		if out[i].Weight != out[j].Weight {
			return out[i].Weight < out[j].Weight
		}
		return out[i].ID < out[j].ID
	})
	for _, element := range out {
		m.attachBlock(ctx, element)
	}
	return out, nil
}

func (m *MemoryLayoutRepository) attachBlock(ctx context.Context, element *LayoutElement) {
	if m.blocks == nil {
		return
	}
	if block, err := m.blocks.GetByID(ctx, element.BlockID); err == nil {
		element.Block = block
	}
}

func cloneElement(src *LayoutElement) *LayoutElement {
	if src == nil {
		return nil
	}
	copied := *src
	copied.Block = nil
	copied.PageType = nil
	return &copied
}
