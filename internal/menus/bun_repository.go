package menus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/uptrace/bun"
)

// BunRepository stores menu items through bun.
type BunRepository struct {
	db *bun.DB
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db}
}

func (r *BunRepository) Create(ctx context.Context, record *MenuItem) (*MenuItem, error) {
	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, fmt.Errorf("menu item insert: %w", err)
	}
	return record, nil
}

func (r *BunRepository) Update(ctx context.Context, record *MenuItem) (*MenuItem, error) {
	if _, err := r.db.NewUpdate().Model(record).WherePK().Exec(ctx); err != nil {
		return nil, fmt.Errorf("menu item update: %w", err)
	}
	return record, nil
}

func (r *BunRepository) Delete(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.NewDelete().
		Model((*MenuItem)(nil)).
		Where("id IN (?)", bun.In(ids)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("menu item delete: %w", err)
	}
	return nil
}

func (r *BunRepository) GetByID(ctx context.Context, id int64) (*MenuItem, error) {
	item := new(MenuItem)
	err := r.db.NewSelect().
		Model(item).
		Where("mi.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Resource: "menu_item", Key: strconv.FormatInt(id, 10)}
		}
		return nil, fmt.Errorf("menu item select: %w", err)
	}
	return item, nil
}

func (r *BunRepository) List(ctx context.Context) ([]*MenuItem, error) {
	var out []*MenuItem
	err := r.db.NewSelect().
		Model(&out).
		OrderExpr("mi.tree_path ASC, mi.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("menu item list: %w", err)
	}
	return out, nil
}

// DescendantsOf matches the materialized path prefix, excluding the item
// itself.
func (r *BunRepository) DescendantsOf(ctx context.Context, treePath string) ([]*MenuItem, error) {
	var out []*MenuItem
	err := r.db.NewSelect().
		Model(&out).
		Where("mi.tree_path LIKE ?", treePath+".%").
		OrderExpr("mi.tree_path ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("menu item descendants: %w", err)
	}
	return out, nil
}

func (r *BunRepository) SaveTreePaths(ctx context.Context, items []*MenuItem) error {
	if len(items) == 0 {
		return nil
	}
	_, err := r.db.NewUpdate().
		Model(&items).
		Column("tree_path", "depth").
		Bulk().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("menu tree path save: %w", err)
	}
	return nil
}
