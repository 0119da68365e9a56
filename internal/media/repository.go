package media

import (
	"context"
	"sort"
	"sync"

	"github.com/uptrace/bun"
)

// Repository stores media records. Listings are scoped to the owning
// node and ordered by insertion so galleries keep their upload order.
type Repository interface {
	CreateImage(ctx context.Context, record *Image) (*Image, error)
	CreateFile(ctx context.Context, record *File) (*File, error)
	CreateVideo(ctx context.Context, record *Video) (*Video, error)
	ListImages(ctx context.Context, nodeID int64) ([]*Image, error)
	ListFiles(ctx context.Context, nodeID int64) ([]*File, error)
	ListVideos(ctx context.Context, nodeID int64) ([]*Video, error)
	// DeleteForNode removes every media record owned by the node. Node
	// deletion calls this so attachments never outlive their owner.
	DeleteForNode(ctx context.Context, nodeID int64) error
}

// BunRepository persists media through bun.
type BunRepository struct {
	db *bun.DB
}

// NewBunRepository constructs the repository.
func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db}
}

func (r *BunRepository) CreateImage(ctx context.Context, record *Image) (*Image, error) {
	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunRepository) CreateFile(ctx context.Context, record *File) (*File, error) {
	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunRepository) CreateVideo(ctx context.Context, record *Video) (*Video, error) {
	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunRepository) ListImages(ctx context.Context, nodeID int64) ([]*Image, error) {
	var records []*Image
	err := r.db.NewSelect().
		Model(&records).
		Where("img.node_id = ?", nodeID).
		OrderExpr("img.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *BunRepository) ListFiles(ctx context.Context, nodeID int64) ([]*File, error) {
	var records []*File
	err := r.db.NewSelect().
		Model(&records).
		Where("fl.node_id = ?", nodeID).
		OrderExpr("fl.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *BunRepository) ListVideos(ctx context.Context, nodeID int64) ([]*Video, error) {
	var records []*Video
	err := r.db.NewSelect().
		Model(&records).
		Where("vd.node_id = ?", nodeID).
		OrderExpr("vd.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *BunRepository) DeleteForNode(ctx context.Context, nodeID int64) error {
	if _, err := r.db.NewDelete().Model((*Image)(nil)).Where("node_id = ?", nodeID).Exec(ctx); err != nil {
		return err
	}
	if _, err := r.db.NewDelete().Model((*File)(nil)).Where("node_id = ?", nodeID).Exec(ctx); err != nil {
		return err
	}
	if _, err := r.db.NewDelete().Model((*Video)(nil)).Where("node_id = ?", nodeID).Exec(ctx); err != nil {
		return err
	}
	return nil
}

// MemoryRepository stores media in-memory for tests and previews.
type MemoryRepository struct {
	mu     sync.RWMutex
	images map[int64]*Image
	files  map[int64]*File
	videos map[int64]*Video
	nextID int64
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		images: make(map[int64]*Image),
		files:  make(map[int64]*File),
		videos: make(map[int64]*Video),
	}
}

func (m *MemoryRepository) CreateImage(_ context.Context, record *Image) (*Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	record.ID = m.nextID
	copied := *record
	m.images[record.ID] = &copied
	return record, nil
}

func (m *MemoryRepository) CreateFile(_ context.Context, record *File) (*File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	record.ID = m.nextID
	copied := *record
	m.files[record.ID] = &copied
	return record, nil
}

func (m *MemoryRepository) CreateVideo(_ context.Context, record *Video) (*Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	record.ID = m.nextID
	copied := *record
	m.videos[record.ID] = &copied
	return record, nil
}

func (m *MemoryRepository) ListImages(_ context.Context, nodeID int64) ([]*Image, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Image
	for _, record := range m.images {
		if record.NodeID == nodeID {
			copied := *record
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryRepository) ListFiles(_ context.Context, nodeID int64) ([]*File, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*File
	for _, record := range m.files {
		if record.NodeID == nodeID {
			copied := *record
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryRepository) ListVideos(_ context.Context, nodeID int64) ([]*Video, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Video
	for _, record := range m.videos {
		if record.NodeID == nodeID {
			copied := *record
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryRepository) DeleteForNode(_ context.Context, nodeID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, record := range m.images {
		if record.NodeID == nodeID {
			delete(m.images, id)
		}
	}
	for id, record := range m.files {
		if record.NodeID == nodeID {
			delete(m.files, id)
		}
	}
	for id, record := range m.videos {
		if record.NodeID == nodeID {
			delete(m.videos, id)
		}
	}
	return nil
}
