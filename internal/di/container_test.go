package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-ninecms/internal/nodes"
	"github.com/goliatone/go-ninecms/internal/runtimeconfig"
)

func testConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Cache.Enabled = false
	return cfg
}

func TestContainerWiresMemoryDefaults(t *testing.T) {
	c := NewContainer(testConfig())
	ctx := context.Background()

	pageType, err := c.NodeService().CreatePageType(ctx, nodes.CreatePageTypeRequest{
		Name:       "article",
		URLPattern: "articles/[node:title]",
	})
	if err != nil {
		t.Fatalf("create page type: %v", err)
	}

	node, err := c.NodeService().Create(ctx, nodes.CreateNodeRequest{
		PageTypeID: pageType.ID,
		Title:      "First Post",
		Status:     true,
	})
	if err != nil {
		t.Fatalf("create node: %v", err)
	}
	if node.Alias != "articles/first-post" {
		t.Fatalf("unexpected alias %q", node.Alias)
	}

	resolved, err := c.Resolver().Resolve(ctx, "articles/first-post", "en")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.ID != node.ID {
		t.Fatalf("resolved node %d, want %d", resolved.ID, node.ID)
	}
}

func TestContainerPanicsOnInvalidConfig(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for invalid config")
		}
	}()
	cfg := testConfig()
	cfg.Site.Name = ""
	NewContainer(cfg)
}

func TestContainerServerServesRoutes(t *testing.T) {
	c := NewContainer(testConfig())

	srv := c.Server()
	if srv == nil {
		t.Fatal("expected server")
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing/", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	if again := c.Server(); again != srv {
		t.Fatal("expected server to be memoized")
	}
}

func TestContainerTransliterateTablesApply(t *testing.T) {
	cfg := testConfig()
	c := NewContainer(cfg)
	ctx := context.Background()

	pageType, err := c.NodeService().CreatePageType(ctx, nodes.CreatePageTypeRequest{
		Name:       "basic",
		URLPattern: "[node:title]",
	})
	if err != nil {
		t.Fatalf("create page type: %v", err)
	}

	node, err := c.NodeService().Create(ctx, nodes.CreateNodeRequest{
		PageTypeID: pageType.ID,
		Title:      "Ελλάδα 2026",
		Status:     true,
	})
	if err != nil {
		t.Fatalf("create node: %v", err)
	}
	if node.Alias != "ellada-2026" {
		t.Fatalf("unexpected alias %q", node.Alias)
	}
}
