package nodes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunNodeRepository stores nodes through bun. Nodes keep integer
// identifiers because alias collision handling and routing depend on
// insertion order, so the repository issues its queries directly.
type BunNodeRepository struct {
	db *bun.DB
}

func NewBunNodeRepository(db *bun.DB) *BunNodeRepository {
	return &BunNodeRepository{db: db}
}

func (r *BunNodeRepository) Create(ctx context.Context, record *Node) (*Node, error) {
	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, fmt.Errorf("node insert: %w", err)
	}
	return record, nil
}

func (r *BunNodeRepository) Update(ctx context.Context, record *Node) (*Node, error) {
	if _, err := r.db.NewUpdate().Model(record).WherePK().Exec(ctx); err != nil {
		return nil, fmt.Errorf("node update: %w", err)
	}
	return record, nil
}

// UpdateAlias rewrites the alias column only, leaving the change
// timestamp untouched.
func (r *BunNodeRepository) UpdateAlias(ctx context.Context, id int64, alias string) error {
	_, err := r.db.NewUpdate().
		Model((*Node)(nil)).
		Set("alias = ?", alias).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("node alias update: %w", err)
	}
	return nil
}

func (r *BunNodeRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.NewDelete().
		Model((*Node)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("node delete: %w", err)
	}
	return nil
}

func (r *BunNodeRepository) GetByID(ctx context.Context, id int64) (*Node, error) {
	node := new(Node)
	err := r.db.NewSelect().
		Model(node).
		Relation("PageType").
		Where("n.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Resource: "node", Key: strconv.FormatInt(id, 10)}
		}
		return nil, fmt.Errorf("node select: %w", err)
	}
	return node, nil
}

// ListByAlias returns every node carrying the alias in one of the given
// languages, most specific language first and oldest node first within a
// language. Callers take the head of the slice as the resolution winner.
func (r *BunNodeRepository) ListByAlias(ctx context.Context, alias string, languages []string) ([]*Node, error) {
	var out []*Node
	q := r.db.NewSelect().
		Model(&out).
		Relation("PageType").
		Where("n.alias = ?", alias)
	if len(languages) > 0 {
		q = q.Where("n.language IN (?)", bun.In(languages))
	}
	if err := q.OrderExpr("n.language DESC, n.id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("node alias select: %w", err)
	}
	return out, nil
}

// CountByAlias counts nodes holding the exact alias and language pair,
// including the caller's own freshly saved row.
func (r *BunNodeRepository) CountByAlias(ctx context.Context, alias, language string) (int, error) {
	count, err := r.db.NewSelect().
		Model((*Node)(nil)).
		Where("alias = ?", alias).
		Where("language = ?", language).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("node alias count: %w", err)
	}
	return count, nil
}

// Search matches the query case-insensitively against title, summary,
// body and highlight of published nodes.
func (r *BunNodeRepository) Search(ctx context.Context, query string, languages []string) ([]*Node, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	var out []*Node
	q := r.db.NewSelect().
		Model(&out).
		Where("n.status = ?", true)
	if len(languages) > 0 {
		q = q.Where("n.language IN (?)", bun.In(languages))
	}
	q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.
			WhereOr("lower(n.title) LIKE ?", pattern).
			WhereOr("lower(n.summary) LIKE ?", pattern).
			WhereOr("lower(n.body) LIKE ?", pattern).
			WhereOr("lower(n.highlight) LIKE ?", pattern)
	})
	if err := q.OrderExpr("n.id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("node search: %w", err)
	}
	return out, nil
}

// ListPromoted returns published promoted nodes, newest first. When a
// language is given, language-neutral nodes are included as well.
func (r *BunNodeRepository) ListPromoted(ctx context.Context, language string) ([]*Node, error) {
	var out []*Node
	q := r.db.NewSelect().
		Model(&out).
		Where("n.status = ?", true).
		Where("n.promote = ?", true)
	if language != "" {
		q = q.Where("n.language IN (?)", bun.In([]string{language, ""}))
	}
	if err := q.OrderExpr("n.sticky DESC, n.created DESC, n.id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("node promoted select: %w", err)
	}
	return out, nil
}

// ListAliased returns published nodes that carry an alias, for sitemap
// generation.
func (r *BunNodeRepository) ListAliased(ctx context.Context) ([]*Node, error) {
	var out []*Node
	err := r.db.NewSelect().
		Model(&out).
		Where("n.status = ?", true).
		Where("n.alias <> ''").
		OrderExpr("n.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("node aliased select: %w", err)
	}
	return out, nil
}

// BunRevisionRepository stores node revisions through bun.
type BunRevisionRepository struct {
	db *bun.DB
}

func NewBunRevisionRepository(db *bun.DB) *BunRevisionRepository {
	return &BunRevisionRepository{db: db}
}

func (r *BunRevisionRepository) Create(ctx context.Context, record *NodeRevision) (*NodeRevision, error) {
	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, fmt.Errorf("node revision insert: %w", err)
	}
	return record, nil
}

func (r *BunRevisionRepository) ListByNode(ctx context.Context, nodeID int64) ([]*NodeRevision, error) {
	var out []*NodeRevision
	err := r.db.NewSelect().
		Model(&out).
		Where("nr.node_id = ?", nodeID).
		OrderExpr("nr.created DESC, nr.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("node revision select: %w", err)
	}
	return out, nil
}

// BunPageTypeRepository stores page types through the shared repository
// layer, with optional read caching.
type BunPageTypeRepository struct {
	repo repository.Repository[*PageType]
}

func NewBunPageTypeRepository(db *bun.DB) *BunPageTypeRepository {
	return NewBunPageTypeRepositoryWithCache(db, nil, nil)
}

func NewBunPageTypeRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunPageTypeRepository {
	base := NewPageTypeRepository(db)
	wrapped := wrapWithCache(base, cacheService, keySerializer)
	return &BunPageTypeRepository{repo: wrapped}
}

func (r *BunPageTypeRepository) Create(ctx context.Context, record *PageType) (*PageType, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunPageTypeRepository) GetByID(ctx context.Context, id uuid.UUID) (*PageType, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "page_type", id.String())
	}
	return result, nil
}

func (r *BunPageTypeRepository) GetByName(ctx context.Context, name string) (*PageType, error) {
	result, err := r.repo.GetByIdentifier(ctx, name)
	if err != nil {
		return nil, mapRepositoryError(err, "page_type", name)
	}
	return result, nil
}

func (r *BunPageTypeRepository) List(ctx context.Context) ([]*PageType, error) {
	records, _, err := r.repo.List(ctx)
	return records, err
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
