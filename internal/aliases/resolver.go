package aliases

import (
	"context"

	"github.com/goliatone/go-ninecms/internal/nodes"
)

// NodeFinder is the slice of node storage the resolver needs.
type NodeFinder interface {
	ListByAlias(ctx context.Context, alias string, languages []string) ([]*nodes.Node, error)
}

// Resolver maps request paths to nodes with language fallback.
type Resolver struct {
	finder NodeFinder
}

// NewResolver builds a resolver over the given finder.
func NewResolver(finder NodeFinder) *Resolver {
	return &Resolver{finder: finder}
}

// Resolve matches path exactly against stored aliases. Candidates are
// limited to the requested language and language-neutral nodes; a
// language-specific match outranks a neutral one, and the lowest id wins
// within a language. Returns nodes.NotFoundError when nothing matches.
func (r *Resolver) Resolve(ctx context.Context, path, language string) (*nodes.Node, error) {
	candidates, err := r.finder.ListByAlias(ctx, path, []string{language, ""})
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, &nodes.NotFoundError{Resource: "node", Key: path}
	}
	return candidates[0], nil
}
