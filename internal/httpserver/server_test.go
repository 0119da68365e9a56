package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-ninecms/internal/aliases"
	"github.com/goliatone/go-ninecms/internal/blocks"
	"github.com/goliatone/go-ninecms/internal/forms"
	"github.com/goliatone/go-ninecms/internal/logging"
	"github.com/goliatone/go-ninecms/internal/menus"
	"github.com/goliatone/go-ninecms/internal/nodes"
	"github.com/goliatone/go-ninecms/internal/render"
	"github.com/goliatone/go-ninecms/internal/session"
	"github.com/goliatone/go-ninecms/internal/signals"
	"github.com/goliatone/go-ninecms/pkg/interfaces"
	"github.com/google/uuid"
)

type shellRenderer struct {
	existing map[string]bool
}

func (f *shellRenderer) Exists(name string) bool { return f.existing[name] }

func (f *shellRenderer) Render(name string, data any) (string, error) {
	if page, ok := data.(*render.Page); ok {
		out := "<" + name + ":" + page.Title + ">"
		for _, region := range []string{"header", "sidebar", "content", "bottom"} {
			out += page.Regions[region]
		}
		return out, nil
	}
	if m, ok := data.(map[string]any); ok {
		if form, ok := m["data"].(forms.LoginForm); ok {
			return "(login:" + form.Username + ":" + form.Password + ")", nil
		}
	}
	return "[" + name + "]", nil
}

type recordingMailer struct {
	subjects []string
	bodies   []string
}

func (m *recordingMailer) SendToManagers(_ context.Context, subject, body string) error {
	m.subjects = append(m.subjects, subject)
	m.bodies = append(m.bodies, body)
	return nil
}

type fixture struct {
	server     *Server
	nodeRepo   *nodes.MemoryNodeRepository
	blockRepo  *blocks.MemoryBlockRepository
	layoutRepo *blocks.MemoryLayoutRepository
	store      *session.MemoryStore
	mailer     *recordingMailer
	pageType   *nodes.PageType
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()

	nodeRepo := nodes.NewMemoryNodeRepository()
	blockRepo := blocks.NewMemoryBlockRepository()
	layoutRepo := blocks.NewMemoryLayoutRepository(blockRepo)
	menuSvc := menus.NewService(menus.NewMemoryRepository())
	store := session.NewMemoryStore()
	mailer := &recordingMailer{}
	renderer := &shellRenderer{existing: map[string]bool{
		"block":   true,
		"content": true,
		"index":   true,
	}}

	composer := render.NewComposer(
		layoutRepo,
		nodeRepo,
		menuSvc,
		signals.NewRegistry(),
		store,
		renderer,
		render.WithSite("Test Site", "", ""),
	)

	if cfg.SiteName == "" {
		cfg.SiteName = "Test Site"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://example.com"
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "en"
	}

	srv := New(
		aliases.NewResolver(nodeRepo),
		nodeRepo,
		composer,
		renderer,
		store,
		cfg,
		WithMailer(mailer),
	)
	return &fixture{
		server:     srv,
		nodeRepo:   nodeRepo,
		blockRepo:  blockRepo,
		layoutRepo: layoutRepo,
		store:      store,
		mailer:     mailer,
		pageType:   &nodes.PageType{ID: uuid.New(), Name: "basic"},
	}
}

func (f *fixture) placeBlock(t *testing.T, name string, blockType blocks.Type, region string) {
	t.Helper()
	block, err := f.blockRepo.Create(context.Background(), &blocks.ContentBlock{Name: name, Type: blockType})
	if err != nil {
		t.Fatalf("create block: %v", err)
	}
	_, err = f.layoutRepo.Create(context.Background(), &blocks.LayoutElement{
		PageTypeID: f.pageType.ID,
		Region:     region,
		BlockID:    block.ID,
	})
	if err != nil {
		t.Fatalf("place block: %v", err)
	}
}

func (f *fixture) addNode(t *testing.T, node *nodes.Node) *nodes.Node {
	t.Helper()
	if node.PageType == nil {
		node.PageType = f.pageType
		node.PageTypeID = f.pageType.ID
	}
	if node.Created.IsZero() {
		node.Created = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		node.Changed = node.Created
	}
	created, err := f.nodeRepo.Create(context.Background(), node)
	if err != nil {
		t.Fatalf("create node: %v", err)
	}
	return created
}

func (f *fixture) get(path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func (f *fixture) post(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func TestAliasRouteRendersNode(t *testing.T) {
	f := newFixture(t, Config{})
	f.addNode(t, &nodes.Node{Title: "About Us", Status: true, Alias: "about"})

	rec := f.get("/about/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<index:About Us | Test Site>") {
		t.Fatalf("unexpected body %q", body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestAliasRouteAddsTrailingSlash(t *testing.T) {
	f := newFixture(t, Config{})

	rec := f.get("/about?page=2")
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("expected 301, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/about/?page=2" {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestAliasRouteNotFound(t *testing.T) {
	f := newFixture(t, Config{})

	if rec := f.get("/missing/"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUnpublishedNodeForbidden(t *testing.T) {
	f := newFixture(t, Config{})
	f.addNode(t, &nodes.Node{Title: "Draft", Status: false, Alias: "draft"})

	if rec := f.get("/draft/"); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRedirectNodeMovesPermanently(t *testing.T) {
	f := newFixture(t, Config{})
	f.addNode(t, &nodes.Node{
		Title:    "Old Home",
		Status:   true,
		Alias:    "old",
		Redirect: true,
		Link:     "new-home",
	})

	rec := f.get("/old/")
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("expected 301, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/new-home/" {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestContentNodeRouteRedirectsToAlias(t *testing.T) {
	f := newFixture(t, Config{})
	node := f.addNode(t, &nodes.Node{Title: "About", Status: true, Alias: "about"})

	rec := f.get("/cms/content/" + itoa(node.ID) + "/")
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("expected 301, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/about/" {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestContentNodeRouteServesUnaliasedNode(t *testing.T) {
	f := newFixture(t, Config{})
	node := f.addNode(t, &nodes.Node{Title: "Hidden Gem", Status: true})

	rec := f.get("/cms/content/" + itoa(node.ID) + "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Hidden Gem") {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestContentNodeRouteMissing(t *testing.T) {
	f := newFixture(t, Config{})

	if rec := f.get("/cms/content/999/"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestIndexResolvesRootAlias(t *testing.T) {
	f := newFixture(t, Config{})
	f.addNode(t, &nodes.Node{Title: "Front", Status: true, Alias: "/"})

	rec := f.get("/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Front") {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestIndexWithoutFrontPage(t *testing.T) {
	f := newFixture(t, Config{})

	if rec := f.get("/"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestLanguagePrefixedAlias(t *testing.T) {
	f := newFixture(t, Config{
		Languages:      []string{"en", "el"},
		LanguagePrefix: true,
	})
	f.addNode(t, &nodes.Node{Title: "Σχετικά", Status: true, Language: "el", Alias: "peri"})

	rec := f.get("/el/peri/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestContactFormValidSendsMail(t *testing.T) {
	f := newFixture(t, Config{})

	rec := f.post("/contact/form/", url.Values{
		"sender_name":  {"Alex"},
		"sender_email": {"alex@example.com"},
		"subject":      {"Hello"},
		"message":      {"A question about the site."},
		"redirect":     {"/contact/"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/contact/" {
		t.Fatalf("unexpected location %q", loc)
	}
	if len(f.mailer.subjects) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(f.mailer.subjects))
	}
	if got := f.mailer.subjects[0]; got != forms.SubjectPrefix+"Hello" {
		t.Fatalf("unexpected subject %q", got)
	}
	if !strings.Contains(f.mailer.bodies[0], "alex@example.com") {
		t.Fatalf("sender missing from body %q", f.mailer.bodies[0])
	}
}

func TestContactFormInvalidStashesSubmission(t *testing.T) {
	f := newFixture(t, Config{})

	rec := f.post("/contact/form/", url.Values{
		"sender_name": {"Alex"},
		"subject":     {"Hello"},
		"message":     {"No email given."},
		"redirect":    {"/contact/"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if len(f.mailer.subjects) != 0 {
		t.Fatalf("mail sent for invalid form")
	}

	sid := sessionIDFromResponse(t, rec)
	stored, ok := f.store.Pop(context.Background(), sid, forms.SlotContact)
	if !ok {
		t.Fatal("expected stashed contact form")
	}
	form, ok := stored.(*forms.ContactForm)
	if !ok {
		t.Fatalf("unexpected stash type %T", stored)
	}
	if form.SenderName != "Alex" || form.Subject != forms.SubjectPrefix+"Hello" {
		t.Fatalf("unexpected stashed form %+v", form)
	}
}

func TestLoginFailureStashesUsernameOnly(t *testing.T) {
	f := newFixture(t, Config{})

	rec := f.post("/user/login/", url.Values{
		"username": {"admin"},
		"password": {"secret"},
		"redirect": {"/members/"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}

	sid := sessionIDFromResponse(t, rec)
	stored, ok := f.store.Pop(context.Background(), sid, forms.SlotLogin)
	if !ok {
		t.Fatal("expected stashed login form")
	}
	form, ok := stored.(*forms.LoginForm)
	if !ok {
		t.Fatalf("unexpected stash type %T", stored)
	}
	if form.Username != "admin" {
		t.Fatalf("unexpected username %q", form.Username)
	}
	if form.Password != "" {
		t.Fatal("password must not be stashed")
	}
}

func TestFailedLoginRepopulatesLoginBlock(t *testing.T) {
	f := newFixture(t, Config{})
	f.addNode(t, &nodes.Node{Title: "Members", Status: true, Alias: "members"})
	f.placeBlock(t, "login-box", blocks.TypeLogin, "sidebar")

	rec := f.post("/user/login/", url.Values{
		"username": {"admin"},
		"password": {"secret"},
		"redirect": {"/members/"},
	})
	sid := sessionIDFromResponse(t, rec)

	rec = f.getWithSession("/members/", sid)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "(login:admin:)") {
		t.Fatalf("rejected username not replayed: %q", rec.Body.String())
	}

	// The stash is read-once: a second visit gets an empty form.
	rec = f.getWithSession("/members/", sid)
	if !strings.Contains(rec.Body.String(), "(login::)") {
		t.Fatalf("expected empty login form, got %q", rec.Body.String())
	}
}

func (f *fixture) getWithSession(path, sid string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: sid})
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func TestLogoutRequiresAuthentication(t *testing.T) {
	f := newFixture(t, Config{})

	if rec := f.post("/user/logout/", url.Values{}); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestOffsiteRedirectFallsBackToFrontPage(t *testing.T) {
	f := newFixture(t, Config{})

	rec := f.post("/contact/form/", url.Values{
		"sender_name":  {"Alex"},
		"sender_email": {"alex@example.com"},
		"subject":      {"Hello"},
		"message":      {"Hi."},
		"redirect":     {"https://evil.example.com/"},
	})
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestFeedListsPromotedNodes(t *testing.T) {
	f := newFixture(t, Config{FeedsEnabled: true})
	f.addNode(t, &nodes.Node{Title: "Launch Post", Status: true, Promote: true, Alias: "blog/launch"})
	f.addNode(t, &nodes.Node{Title: "Quiet Page", Status: true, Alias: "quiet"})

	rec := f.get("/feed.xml")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Launch Post") {
		t.Fatalf("promoted node missing from feed: %q", body)
	}
	if strings.Contains(body, "Quiet Page") {
		t.Fatal("unpromoted node leaked into feed")
	}
	if !strings.Contains(body, "http://example.com/blog/launch/") {
		t.Fatalf("absolute link missing from feed: %q", body)
	}
}

func TestSitemapListsAliasedNodes(t *testing.T) {
	f := newFixture(t, Config{FeedsEnabled: true})
	f.addNode(t, &nodes.Node{Title: "About", Status: true, Alias: "about"})
	f.addNode(t, &nodes.Node{Title: "Draft", Status: false, Alias: "draft"})

	rec := f.get("/sitemap.xml")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<loc>http://example.com/about/</loc>") {
		t.Fatalf("aliased node missing from sitemap: %q", body)
	}
	if strings.Contains(body, "draft") {
		t.Fatal("unpublished node leaked into sitemap")
	}
}

func TestFeedsDisabledByDefault(t *testing.T) {
	f := newFixture(t, Config{})

	rec := f.get("/feed.xml")
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("expected alias fallback redirect, got %d", rec.Code)
	}
}

type capturedEntry struct {
	msg    string
	fields map[string]any
}

type captureLogger struct {
	fields  map[string]any
	entries *[]capturedEntry
}

func newCaptureLogger() *captureLogger {
	return &captureLogger{entries: &[]capturedEntry{}}
}

func (l *captureLogger) record(msg string) {
	*l.entries = append(*l.entries, capturedEntry{msg: msg, fields: l.fields})
}

func (l *captureLogger) Trace(msg string, _ ...any) { l.record(msg) }
func (l *captureLogger) Debug(msg string, _ ...any) { l.record(msg) }
func (l *captureLogger) Info(msg string, _ ...any)  { l.record(msg) }
func (l *captureLogger) Warn(msg string, _ ...any)  { l.record(msg) }
func (l *captureLogger) Error(msg string, _ ...any) { l.record(msg) }
func (l *captureLogger) Fatal(msg string, _ ...any) { l.record(msg) }

func (l *captureLogger) WithContext(ctx context.Context) interfaces.Logger {
	return &captureLogger{fields: logging.ContextFields(ctx), entries: l.entries}
}

func TestRequestLogsCarryMethodAndPath(t *testing.T) {
	logger := newCaptureLogger()
	nodeRepo := nodes.NewMemoryNodeRepository()
	blockRepo := blocks.NewMemoryBlockRepository()
	layoutRepo := blocks.NewMemoryLayoutRepository(blockRepo)
	store := session.NewMemoryStore()
	renderer := &shellRenderer{existing: map[string]bool{"content": true, "index": true}}
	composer := render.NewComposer(
		layoutRepo,
		nodeRepo,
		menus.NewService(menus.NewMemoryRepository()),
		signals.NewRegistry(),
		store,
		renderer,
	)

	// No mailer configured: a valid submission logs a warning.
	srv := New(
		aliases.NewResolver(nodeRepo),
		nodeRepo,
		composer,
		renderer,
		store,
		Config{SiteName: "Test Site", DefaultLanguage: "en"},
		WithLogger(logger),
	)

	values := url.Values{
		"sender_name":  {"Alex"},
		"sender_email": {"alex@example.com"},
		"subject":      {"Hello"},
		"message":      {"Hi."},
	}
	req := httptest.NewRequest(http.MethodPost, "/contact/form/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.ServeHTTP(httptest.NewRecorder(), req)

	if len(*logger.entries) == 0 {
		t.Fatal("expected a logged entry")
	}
	entry := (*logger.entries)[0]
	if entry.fields["method"] != http.MethodPost || entry.fields["path"] != "/contact/form/" {
		t.Fatalf("entry %q missing request fields: %v", entry.msg, entry.fields)
	}
}

func sessionIDFromResponse(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookie {
			return cookie.Value
		}
	}
	t.Fatal("session cookie not set")
	return ""
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
