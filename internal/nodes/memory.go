package nodes

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryNodeRepository is an in-memory implementation for scaffolding and
// tests. It mirrors the database ordering rules, including autoincrement
// identifiers, so alias resolution behaves the same against either backend.
type MemoryNodeRepository struct {
	mu     sync.RWMutex
	nodes  map[int64]*Node
	nextID int64
}

// NewMemoryNodeRepository creates an empty in-memory node repository.
func NewMemoryNodeRepository() *MemoryNodeRepository {
	return &MemoryNodeRepository{
		nodes:  make(map[int64]*Node),
		nextID: 1,
	}
}

func (m *MemoryNodeRepository) Create(_ context.Context, record *Node) (*Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneNode(record)
	if copied.ID == 0 {
		copied.ID = m.nextID
	}
	if copied.ID >= m.nextID {
		m.nextID = copied.ID + 1
	}
	m.nodes[copied.ID] = copied
	record.ID = copied.ID
	return cloneNode(copied), nil
}

func (m *MemoryNodeRepository) Update(_ context.Context, record *Node) (*Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.nodes[record.ID]; !ok {
		return nil, &NotFoundError{Resource: "node", Key: strconv.FormatInt(record.ID, 10)}
	}
	m.nodes[record.ID] = cloneNode(record)
	return cloneNode(record), nil
}

func (m *MemoryNodeRepository) UpdateAlias(_ context.Context, id int64, alias string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	node, ok := m.nodes[id]
	if !ok {
		return &NotFoundError{Resource: "node", Key: strconv.FormatInt(id, 10)}
	}
	node.Alias = alias
	return nil
}

func (m *MemoryNodeRepository) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.nodes, id)
	return nil
}

func (m *MemoryNodeRepository) GetByID(_ context.Context, id int64) (*Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, ok := m.nodes[id]
	if !ok {
		return nil, &NotFoundError{Resource: "node", Key: strconv.FormatInt(id, 10)}
	}
	return cloneNode(node), nil
}

func (m *MemoryNodeRepository) ListByAlias(_ context.Context, alias string, languages []string) ([]*Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	allowed := make(map[string]struct{}, len(languages))
	for _, lang := range languages {
		allowed[lang] = struct{}{}
	}

	var out []*Node
	for _, node := range m.nodes {
		if node.Alias != alias {
			continue
		}
		if len(languages) > 0 {
			if _, ok := allowed[node.Language]; !ok {
				continue
			}
		}
		out = append(out, cloneNode(node))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Language != out[j].Language {
			return out[i].Language > out[j].Language
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryNodeRepository) CountByAlias(_ context.Context, alias, language string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, node := range m.nodes {
		if node.Alias == alias && node.Language == language {
			count++
		}
	}
	return count, nil
}

func (m *MemoryNodeRepository) Search(_ context.Context, query string, languages []string) ([]*Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	needle := strings.ToLower(query)
	allowed := make(map[string]struct{}, len(languages))
	for _, lang := range languages {
		allowed[lang] = struct{}{}
	}

	var out []*Node
	for _, node := range m.nodes {
		if !node.Status {
			continue
		}
		if len(languages) > 0 {
			if _, ok := allowed[node.Language]; !ok {
				continue
			}
		}
		if matchesQuery(node, needle) {
			out = append(out, cloneNode(node))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryNodeRepository) ListPromoted(_ context.Context, language string) ([]*Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Node
	for _, node := range m.nodes {
		if !node.Status || !node.Promote {
			continue
		}
		if language != "" && node.Language != language && node.Language != "" {
			continue
		}
		out = append(out, cloneNode(node))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sticky != out[j].Sticky {
			return out[i].Sticky
		}
		if !out[i].Created.Equal(out[j].Created) {
			return out[i].Created.After(out[j].Created)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryNodeRepository) ListAliased(_ context.Context) ([]*Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Node
	for _, node := range m.nodes {
		if node.Status && node.Alias != "" {
			out = append(out, cloneNode(node))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func matchesQuery(node *Node, needle string) bool {
	for _, field := range []string{node.Title, node.Summary, node.Body, node.Highlight} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func cloneNode(src *Node) *Node {
	if src == nil {
		return nil
	}
	copied := *src
	if src.OriginalID != nil {
		original := *src.OriginalID
		copied.OriginalID = &original
	}
	if src.PageType != nil {
		pt := *src.PageType
		copied.PageType = &pt
	}
	copied.Original = nil
	return &copied
}

// MemoryPageTypeRepository stores page types in-memory.
type MemoryPageTypeRepository struct {
	mu    sync.RWMutex
	types map[uuid.UUID]*PageType
	names map[string]uuid.UUID
}

// NewMemoryPageTypeRepository constructs the repository.
func NewMemoryPageTypeRepository() *MemoryPageTypeRepository {
	return &MemoryPageTypeRepository{
		types: make(map[uuid.UUID]*PageType),
		names: make(map[string]uuid.UUID),
	}
}

func (m *MemoryPageTypeRepository) Create(_ context.Context, record *PageType) (*PageType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *record
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	m.types[copied.ID] = &copied
	m.names[copied.Name] = copied.ID
	out := copied
	return &out, nil
}

func (m *MemoryPageTypeRepository) GetByID(_ context.Context, id uuid.UUID) (*PageType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pt, ok := m.types[id]
	if !ok {
		return nil, &NotFoundError{Resource: "page_type", Key: id.String()}
	}
	copied := *pt
	return &copied, nil
}

func (m *MemoryPageTypeRepository) GetByName(_ context.Context, name string) (*PageType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.names[name]
	if !ok {
		return nil, &NotFoundError{Resource: "page_type", Key: name}
	}
	copied := *m.types[id]
	return &copied, nil
}

func (m *MemoryPageTypeRepository) List(_ context.Context) ([]*PageType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*PageType, 0, len(m.types))
	for _, pt := range m.types {
		copied := *pt
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// MemoryRevisionRepository stores node revisions in-memory.
type MemoryRevisionRepository struct {
	mu        sync.RWMutex
	revisions map[int64]*NodeRevision
	nextID    int64
}

// NewMemoryRevisionRepository constructs the repository.
func NewMemoryRevisionRepository() *MemoryRevisionRepository {
	return &MemoryRevisionRepository{
		revisions: make(map[int64]*NodeRevision),
		nextID:    1,
	}
}

func (m *MemoryRevisionRepository) Create(_ context.Context, record *NodeRevision) (*NodeRevision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *record
	if copied.ID == 0 {
		copied.ID = m.nextID
	}
	if copied.ID >= m.nextID {
		m.nextID = copied.ID + 1
	}
	copied.Node = nil
	m.revisions[copied.ID] = &copied
	out := copied
	return &out, nil
}

func (m *MemoryRevisionRepository) ListByNode(_ context.Context, nodeID int64) ([]*NodeRevision, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*NodeRevision
	for _, rev := range m.revisions {
		if rev.NodeID == nodeID {
			copied := *rev
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Created.Equal(out[j].Created) {
			return out[i].Created.After(out[j].Created)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}
