package taxonomy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/uptrace/bun"
)

// Repository abstracts storage operations for taxonomy terms.
type Repository interface {
	Create(ctx context.Context, record *Term) (*Term, error)
	GetByID(ctx context.Context, id int64) (*Term, error)
	ChildrenOf(ctx context.Context, parentID *int64) ([]*Term, error)
	// ListAll returns every term in depth-first tree order: each root
	// followed by its subtree, siblings ordered weight ASC, id ASC.
	ListAll(ctx context.Context) ([]*Term, error)
	Attach(ctx context.Context, termID, nodeID int64) error
	Detach(ctx context.Context, termID, nodeID int64) error
	TermsForNode(ctx context.Context, nodeID int64) ([]*Term, error)
	NodeIDsForTerm(ctx context.Context, termID int64) ([]int64, error)
}

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("taxonomy term %q not found", e.Key)
}

// BunRepository stores terms through bun.
type BunRepository struct {
	db *bun.DB
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db}
}

func (r *BunRepository) Create(ctx context.Context, record *Term) (*Term, error) {
	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, fmt.Errorf("term insert: %w", err)
	}
	return record, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id int64) (*Term, error) {
	term := new(Term)
	err := r.db.NewSelect().
		Model(term).
		Where("tt.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Key: strconv.FormatInt(id, 10)}
		}
		return nil, fmt.Errorf("term select: %w", err)
	}
	return term, nil
}

func (r *BunRepository) ChildrenOf(ctx context.Context, parentID *int64) ([]*Term, error) {
	var out []*Term
	q := r.db.NewSelect().Model(&out)
	if parentID == nil {
		q = q.Where("tt.parent_id IS NULL")
	} else {
		q = q.Where("tt.parent_id = ?", *parentID)
	}
	if err := q.OrderExpr("tt.weight ASC, tt.id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("term children: %w", err)
	}
	return out, nil
}

func (r *BunRepository) ListAll(ctx context.Context) ([]*Term, error) {
	var out []*Term
	err := r.db.NewSelect().
		Model(&out).
		OrderExpr("tt.weight ASC, tt.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("term list: %w", err)
	}
	return treeOrder(out), nil
}

func (r *BunRepository) Attach(ctx context.Context, termID, nodeID int64) error {
	_, err := r.db.NewInsert().
		Model(&NodeTerm{TermID: termID, NodeID: nodeID}).
		On("CONFLICT DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("term attach: %w", err)
	}
	return nil
}

func (r *BunRepository) Detach(ctx context.Context, termID, nodeID int64) error {
	_, err := r.db.NewDelete().
		Model((*NodeTerm)(nil)).
		Where("term_id = ?", termID).
		Where("node_id = ?", nodeID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("term detach: %w", err)
	}
	return nil
}

func (r *BunRepository) TermsForNode(ctx context.Context, nodeID int64) ([]*Term, error) {
	var out []*Term
	err := r.db.NewSelect().
		Model(&out).
		Join("JOIN node_terms AS nt ON nt.term_id = tt.id").
		Where("nt.node_id = ?", nodeID).
		OrderExpr("tt.weight ASC, tt.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("terms for node: %w", err)
	}
	return out, nil
}

func (r *BunRepository) NodeIDsForTerm(ctx context.Context, termID int64) ([]int64, error) {
	var out []int64
	err := r.db.NewSelect().
		Model((*NodeTerm)(nil)).
		Column("node_id").
		Where("term_id = ?", termID).
		OrderExpr("node_id ASC").
		Scan(ctx, &out)
	if err != nil {
		return nil, fmt.Errorf("nodes for term: %w", err)
	}
	return out, nil
}

// MemoryRepository is an in-memory implementation for scaffolding and
// tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	terms  map[int64]*Term
	links  map[int64]map[int64]struct{}
	nextID int64
}

// NewMemoryRepository creates an empty in-memory taxonomy repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		terms:  make(map[int64]*Term),
		links:  make(map[int64]map[int64]struct{}),
		nextID: 1,
	}
}

func (m *MemoryRepository) Create(_ context.Context, record *Term) (*Term, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *record
	if copied.ID == 0 {
		copied.ID = m.nextID
	}
	if copied.ID >= m.nextID {
		m.nextID = copied.ID + 1
	}
	copied.Parent = nil
	m.terms[copied.ID] = &copied
	record.ID = copied.ID
	out := copied
	return &out, nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id int64) (*Term, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	term, ok := m.terms[id]
	if !ok {
		return nil, &NotFoundError{Key: strconv.FormatInt(id, 10)}
	}
	copied := *term
	return &copied, nil
}

func (m *MemoryRepository) ChildrenOf(_ context.Context, parentID *int64) ([]*Term, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Term
	for _, term := range m.terms {
		match := term.ParentID == nil && parentID == nil
		if term.ParentID != nil && parentID != nil {
			match = *term.ParentID == *parentID
		}
		if match {
			copied := *term
			out = append(out, &copied)
		}
	}
	sortTerms(out)
	return out, nil
}

func (m *MemoryRepository) ListAll(_ context.Context) ([]*Term, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Term, 0, len(m.terms))
	for _, term := range m.terms {
		copied := *term
		out = append(out, &copied)
	}
	sortTerms(out)
	return treeOrder(out), nil
}

func (m *MemoryRepository) Attach(_ context.Context, termID, nodeID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.links[termID]; !ok {
		m.links[termID] = make(map[int64]struct{})
	}
	m.links[termID][nodeID] = struct{}{}
	return nil
}

func (m *MemoryRepository) Detach(_ context.Context, termID, nodeID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.links[termID], nodeID)
	return nil
}

func (m *MemoryRepository) TermsForNode(_ context.Context, nodeID int64) ([]*Term, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Term
	for termID, nodeSet := range m.links {
		if _, ok := nodeSet[nodeID]; !ok {
			continue
		}
		if term, ok := m.terms[termID]; ok {
			copied := *term
			out = append(out, &copied)
		}
	}
	sortTerms(out)
	return out, nil
}

func (m *MemoryRepository) NodeIDsForTerm(_ context.Context, termID int64) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []int64
	for nodeID := range m.links[termID] {
		out = append(out, nodeID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func sortTerms(terms []*Term) {
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Weight != terms[j].Weight {
			return terms[i].Weight < terms[j].Weight
		}
		return terms[i].ID < terms[j].ID
	})
}

// treeOrder rearranges sibling-sorted terms into depth-first order.
// Orphaned subtrees (parent missing) are dropped.
func treeOrder(terms []*Term) []*Term {
	children := make(map[int64][]*Term)
	var roots []*Term
	for _, term := range terms {
		if term.ParentID == nil {
			roots = append(roots, term)
			continue
		}
		children[*term.ParentID] = append(children[*term.ParentID], term)
	}

	out := make([]*Term, 0, len(terms))
	var walk func(term *Term)
	walk = func(term *Term) {
		out = append(out, term)
		for _, child := range children[term.ID] {
			walk(child)
		}
	}
	for _, root := range roots {
		walk(root)
	}
	return out
}
