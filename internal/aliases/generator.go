// Package aliases derives canonical URL aliases from page type patterns
// and resolves request paths back to nodes.
//
// Generation is a two-phase write. Token substitution for title and date
// tokens happens before the node row exists; the [node:id] token and the
// per (alias, language) duplicate check need an identifier and run after
// the insert, patching the alias column in place. The duplicate check is
// not transactionally isolated from concurrent creates. Two simultaneous
// saves with the same derived alias can both count one row and neither
// gets the /<id> suffix. Node creation is an editorial action, not a hot
// path, so this stays a documented tradeoff rather than a lock.
package aliases

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-ninecms/internal/logging"
	"github.com/goliatone/go-ninecms/internal/nodes"
	"github.com/goliatone/go-ninecms/internal/translit"
	"github.com/goliatone/go-ninecms/pkg/interfaces"
)

const (
	titleToken = "[node:title]"
	idToken    = "[node:id]"
)

var dateToken = regexp.MustCompile(`\[node:(created|changed):([^\]]+)\]`)

// AliasStore is the slice of node storage the generator needs.
type AliasStore interface {
	UpdateAlias(ctx context.Context, id int64, alias string) error
	CountByAlias(ctx context.Context, alias, language string) (int, error)
}

// Generator fills node aliases from page type patterns.
type Generator struct {
	store  AliasStore
	tables translit.Tables
	logger interfaces.Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithTables overrides the transliteration tables.
func WithTables(tables translit.Tables) GeneratorOption {
	return func(g *Generator) {
		g.tables = tables
	}
}

// WithLogger attaches a logger.
func WithLogger(logger interfaces.Logger) GeneratorOption {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGenerator builds an alias generator over the given store.
func NewGenerator(store AliasStore, opts ...GeneratorOption) *Generator {
	g := &Generator{
		store:  store,
		tables: translit.DefaultTables(),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Prepare substitutes the title and date tokens of pattern into the node
// alias. It must run before the node is persisted and only when the node
// has no explicit alias. The [node:id] token is left in place for
// Finalize.
func (g *Generator) Prepare(node *nodes.Node, pattern string) {
	if node.Alias != "" || pattern == "" {
		return
	}

	alias := strings.ReplaceAll(pattern, titleToken, translit.PathSegment(node.Title, g.tables))
	alias = dateToken.ReplaceAllStringFunc(alias, func(token string) string {
		groups := dateToken.FindStringSubmatch(token)
		stamp := node.Created
		if groups[1] == "changed" {
			stamp = node.Changed
		}
		return FormatDate(stamp, groups[2])
	})
	node.Alias = alias
}

// Finalize runs after the node row exists: it resolves the [node:id]
// token and disambiguates collisions on the (alias, language) pair by
// appending /<id>. Both patches go straight to the alias column so the
// change timestamp is not disturbed. A best effort contract applies:
// storage failures are reported but callers should treat the alias as
// usable either way.
func (g *Generator) Finalize(ctx context.Context, node *nodes.Node) error {
	if node.Alias == "" {
		return nil
	}

	if strings.Contains(node.Alias, idToken) {
		node.Alias = strings.ReplaceAll(node.Alias, idToken, strconv.FormatInt(node.ID, 10))
		if err := g.store.UpdateAlias(ctx, node.ID, node.Alias); err != nil {
			return fmt.Errorf("alias id substitution: %w", err)
		}
	}

	count, err := g.store.CountByAlias(ctx, node.Alias, node.Language)
	if err != nil {
		return fmt.Errorf("alias duplicate check: %w", err)
	}
	if count > 1 {
		node.Alias = fmt.Sprintf("%s/%d", node.Alias, node.ID)
		g.logger.Debug("alias collision, appending id", "node_id", node.ID, "alias", node.Alias)
		if err := g.store.UpdateAlias(ctx, node.ID, node.Alias); err != nil {
			return fmt.Errorf("alias disambiguation: %w", err)
		}
	}
	return nil
}
