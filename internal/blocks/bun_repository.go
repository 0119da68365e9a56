package blocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunBlockRepository stores content blocks through the shared repository
// layer, with optional read caching.
type BunBlockRepository struct {
	repo repository.Repository[*ContentBlock]
}

func NewBunBlockRepository(db *bun.DB) *BunBlockRepository {
	return NewBunBlockRepositoryWithCache(db, nil, nil)
}

func NewBunBlockRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunBlockRepository {
	base := NewContentBlockRepository(db)
	wrapped := wrapWithCache(base, cacheService, keySerializer)
	return &BunBlockRepository{repo: wrapped}
}

func (r *BunBlockRepository) Create(ctx context.Context, record *ContentBlock) (*ContentBlock, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunBlockRepository) GetByID(ctx context.Context, id uuid.UUID) (*ContentBlock, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "content_block", id.String())
	}
	return result, nil
}

func (r *BunBlockRepository) GetByName(ctx context.Context, name string) (*ContentBlock, error) {
	result, err := r.repo.GetByIdentifier(ctx, name)
	if err != nil {
		return nil, mapRepositoryError(err, "content_block", name)
	}
	return result, nil
}

func (r *BunBlockRepository) List(ctx context.Context) ([]*ContentBlock, error) {
	records, _, err := r.repo.List(ctx)
	return records, err
}

// BunLayoutRepository stores layout elements through bun. Elements keep
// integer identifiers because the composer's final ordering tie-break is
// id ascending.
type BunLayoutRepository struct {
	db *bun.DB
}

func NewBunLayoutRepository(db *bun.DB) *BunLayoutRepository {
	return &BunLayoutRepository{db: db}
}

func (r *BunLayoutRepository) Create(ctx context.Context, record *LayoutElement) (*LayoutElement, error) {
	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, fmt.Errorf("layout element insert: %w", err)
	}
	return record, nil
}

func (r *BunLayoutRepository) GetByID(ctx context.Context, id int64) (*LayoutElement, error) {
	element := new(LayoutElement)
	err := r.db.NewSelect().
		Model(element).
		Relation("Block").
		Where("le.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Resource: "layout_element", Key: strconv.FormatInt(id, 10)}
		}
		return nil, fmt.Errorf("layout element select: %w", err)
	}
	return element, nil
}

func (r *BunLayoutRepository) SetHidden(ctx context.Context, id int64, hidden bool) error {
	_, err := r.db.NewUpdate().
		Model((*LayoutElement)(nil)).
		Set("hidden = ?", hidden).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("layout element hide: %w", err)
	}
	return nil
}

func (r *BunLayoutRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.NewDelete().
		Model((*LayoutElement)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("layout element delete: %w", err)
	}
	return nil
}

// ListForPageType filters hidden elements at the query so the composer
// never sees them. Ordering is load-bearing: (region, weight, id).
func (r *BunLayoutRepository) ListForPageType(ctx context.Context, pageTypeID uuid.UUID) ([]*LayoutElement, error) {
	var out []*LayoutElement
	err := r.db.NewSelect().
		Model(&out).
		Relation("Block").
		Where("le.page_type_id = ?", pageTypeID).
		Where("le.hidden = ?", false).
		OrderExpr("le.region ASC, le.weight ASC, le.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("layout select: %w", err)
	}
	return out, nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
