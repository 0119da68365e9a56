package aliases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-ninecms/internal/aliases"
	"github.com/goliatone/go-ninecms/internal/nodes"
)

func seed(t *testing.T, repo *nodes.MemoryNodeRepository, node *nodes.Node) *nodes.Node {
	t.Helper()
	created, err := repo.Create(context.Background(), node)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return created
}

func TestResolveSpecificLanguageOutranksNeutral(t *testing.T) {
	repo := nodes.NewMemoryNodeRepository()
	resolver := aliases.NewResolver(repo)
	ctx := context.Background()

	neutral := seed(t, repo, &nodes.Node{Title: "About", Alias: "about", Language: ""})
	english := seed(t, repo, &nodes.Node{Title: "About", Alias: "about", Language: "en"})

	got, err := resolver.Resolve(ctx, "about", "en")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.ID != english.ID {
		t.Fatalf("expected the english node %d, got %d", english.ID, got.ID)
	}

	got, err = resolver.Resolve(ctx, "about", "el")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.ID != neutral.ID {
		t.Fatalf("expected the neutral node %d, got %d", neutral.ID, got.ID)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	repo := nodes.NewMemoryNodeRepository()
	resolver := aliases.NewResolver(repo)
	ctx := context.Background()

	seed(t, repo, &nodes.Node{Title: "Home", Alias: "/", Language: ""})

	first, err := resolver.Resolve(ctx, "/", "en")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	second, err := resolver.Resolve(ctx, "/", "en")
	if err != nil {
		t.Fatalf("resolve again: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("resolution changed between calls: %d vs %d", first.ID, second.ID)
	}
}

func TestResolveNotFound(t *testing.T) {
	resolver := aliases.NewResolver(nodes.NewMemoryNodeRepository())

	_, err := resolver.Resolve(context.Background(), "missing", "en")
	var notFound *nodes.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFound.Key != "missing" {
		t.Fatalf("key = %q", notFound.Key)
	}
}

func TestResolvePicksLowestIDOnDuplicate(t *testing.T) {
	repo := nodes.NewMemoryNodeRepository()
	resolver := aliases.NewResolver(repo)
	ctx := context.Background()

	first := seed(t, repo, &nodes.Node{Title: "Dup", Alias: "dup", Language: "en"})
	seed(t, repo, &nodes.Node{Title: "Dup Copy", Alias: "dup", Language: "en"})

	got, err := resolver.Resolve(ctx, "dup", "en")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.ID != first.ID {
		t.Fatalf("expected lowest id %d, got %d", first.ID, got.ID)
	}
}
