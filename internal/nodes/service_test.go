package nodes_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-ninecms/internal/nodes"
	"github.com/google/uuid"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestService(t *testing.T, opts ...nodes.ServiceOption) (nodes.Service, *nodes.MemoryNodeRepository, *nodes.PageType) {
	t.Helper()

	repo := nodes.NewMemoryNodeRepository()
	pageTypes := nodes.NewMemoryPageTypeRepository()
	revisions := nodes.NewMemoryRevisionRepository()

	svc := nodes.NewService(repo, pageTypes, revisions, opts...)

	pt, err := svc.CreatePageType(context.Background(), nodes.CreatePageTypeRequest{
		Name:       "basic",
		URLPattern: "[node:title]",
	})
	if err != nil {
		t.Fatalf("create page type: %v", err)
	}
	return svc, repo, pt
}

func TestCreateSanitizesAndRecordsRevision(t *testing.T) {
	svc, _, pt := newTestService(t)

	node, err := svc.Create(context.Background(), nodes.CreateNodeRequest{
		PageTypeID: pt.ID,
		Language:   "en",
		Title:      `About <script>x()</script>Us`,
		Status:     true,
		Body:       `<p>hello</p><script>boom()</script>`,
		LogEntry:   "initial import",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if strings.Contains(node.Title, "<") {
		t.Fatalf("title not stripped: %q", node.Title)
	}
	if !strings.Contains(node.Body, "<p>hello</p>") || strings.Contains(node.Body, "script") {
		t.Fatalf("body not sanitized: %q", node.Body)
	}

	revs, err := svc.Revisions(context.Background(), node.ID)
	if err != nil {
		t.Fatalf("revisions: %v", err)
	}
	if len(revs) != 1 || revs[0].LogEntry != "initial import" {
		t.Fatalf("expected one revision with log entry, got %+v", revs)
	}
}

func TestCreateRejectsUnknownPageType(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), nodes.CreateNodeRequest{
		PageTypeID: uuid.New(),
		Title:      "Orphan",
	})
	if !errors.Is(err, nodes.ErrPageTypeRequired) {
		t.Fatalf("expected ErrPageTypeRequired, got %v", err)
	}
}

func TestCreateValidatesTitle(t *testing.T) {
	svc, _, pt := newTestService(t)

	_, err := svc.Create(context.Background(), nodes.CreateNodeRequest{
		PageTypeID: pt.ID,
		Title:      "   ",
	})
	if err == nil || !strings.Contains(err.Error(), "title") {
		t.Fatalf("expected title validation error, got %v", err)
	}
}

func TestUpdateBumpsChangedOnly(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	later := created.Add(48 * time.Hour)
	now := created

	svc, _, pt := newTestService(t, nodes.WithClock(func() time.Time { return now }))

	node, err := svc.Create(context.Background(), nodes.CreateNodeRequest{
		PageTypeID: pt.ID,
		Title:      "First",
		Status:     true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	now = later
	updated, err := svc.Update(context.Background(), nodes.UpdateNodeRequest{
		ID:       node.ID,
		Title:    "Second",
		Status:   true,
		LogEntry: "rename",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Created.Equal(created) {
		t.Fatalf("created moved: %v", updated.Created)
	}
	if !updated.Changed.Equal(later) {
		t.Fatalf("changed not bumped: %v", updated.Changed)
	}

	revs, err := svc.Revisions(context.Background(), node.ID)
	if err != nil {
		t.Fatalf("revisions: %v", err)
	}
	if len(revs) != 2 || revs[0].Title != "Second" {
		t.Fatalf("expected newest revision first, got %+v", revs)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.Search(context.Background(), "  ", nil); !errors.Is(err, nodes.ErrSearchQueryEmpty) {
		t.Fatalf("expected ErrSearchQueryEmpty, got %v", err)
	}
}

func TestSearchMatchesPublishedOnly(t *testing.T) {
	svc, _, pt := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, nodes.CreateNodeRequest{
		PageTypeID: pt.ID, Title: "Published page", Status: true, Body: "needle here", Language: "en",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, nodes.CreateNodeRequest{
		PageTypeID: pt.ID, Title: "Hidden page", Status: false, Body: "needle here", Language: "en",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	hits, err := svc.Search(ctx, "NEEDLE", []string{"en", ""})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 || hits[0].Title != "Published page" {
		t.Fatalf("expected the published node only, got %+v", hits)
	}
}

func TestCreatePageTypeRejectsDuplicateName(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreatePageType(context.Background(), nodes.CreatePageTypeRequest{Name: "basic"})
	if !errors.Is(err, nodes.ErrPageTypeNameTaken) {
		t.Fatalf("expected ErrPageTypeNameTaken, got %v", err)
	}
}

type recordingGenerator struct {
	prepared  int
	finalized int
}

func (g *recordingGenerator) Prepare(node *nodes.Node, pattern string) {
	g.prepared++
	node.Alias = "prepared"
}

func (g *recordingGenerator) Finalize(_ context.Context, node *nodes.Node) error {
	g.finalized++
	return nil
}

func TestCreateInvokesAliasGeneratorWhenAliasEmpty(t *testing.T) {
	gen := &recordingGenerator{}
	svc, _, pt := newTestService(t, nodes.WithAliasGenerator(gen))
	ctx := context.Background()

	node, err := svc.Create(ctx, nodes.CreateNodeRequest{
		PageTypeID: pt.ID, Title: "Auto", Status: true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if gen.prepared != 1 || gen.finalized != 1 {
		t.Fatalf("generator calls = %d/%d, want 1/1", gen.prepared, gen.finalized)
	}
	if node.Alias != "prepared" {
		t.Fatalf("alias = %q", node.Alias)
	}

	if _, err := svc.Create(ctx, nodes.CreateNodeRequest{
		PageTypeID: pt.ID, Title: "Manual", Status: true, Alias: "custom/path",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if gen.prepared != 1 {
		t.Fatalf("prepare ran for explicit alias")
	}
	if gen.finalized != 2 {
		t.Fatalf("finalize should still run, got %d", gen.finalized)
	}
}
