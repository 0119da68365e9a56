// Package render composes full pages: it gates access to the resolved
// node, loads the page type layout, dispatches every element to its
// block renderer and accumulates one output string per region.
package render

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-ninecms/internal/blocks"
	"github.com/goliatone/go-ninecms/internal/forms"
	"github.com/goliatone/go-ninecms/internal/logging"
	"github.com/goliatone/go-ninecms/internal/menus"
	"github.com/goliatone/go-ninecms/internal/nodes"
	"github.com/goliatone/go-ninecms/internal/signals"
	"github.com/goliatone/go-ninecms/pkg/interfaces"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
)

// PermissionViewUnpublished lets a requester view unpublished nodes.
const PermissionViewUnpublished = "view_unpublished"

// PermissionAccessToolbar marks requesters whose pages carry the
// toolbar body class.
const PermissionAccessToolbar = "access_toolbar"

// LayoutSource loads the visible, ordered layout of a page type.
type LayoutSource interface {
	ListForPageType(ctx context.Context, pageTypeID uuid.UUID) ([]*blocks.LayoutElement, error)
}

// NodeSource loads nodes for static blocks and search results.
type NodeSource interface {
	GetByID(ctx context.Context, id int64) (*nodes.Node, error)
	Search(ctx context.Context, query string, languages []string) ([]*nodes.Node, error)
}

// MenuSource loads menu subtrees for menu blocks.
type MenuSource interface {
	Get(ctx context.Context, id int64) (*menus.MenuItem, error)
	Descendants(ctx context.Context, id int64, includeSelf bool) ([]*menus.MenuItem, error)
	FullPath(item *menus.MenuItem) string
}

// Request carries the per-request composition inputs.
type Request struct {
	Node      *nodes.Node
	Language  string
	Requester interfaces.Requester
	Query     url.Values
	SessionID string
}

// Page is the composed result handed to the outer template.
type Page struct {
	Title    string
	Classes  string
	Author   string
	Keywords string
	Node     *nodes.Node
	Regions  map[string]string
	Content  string
}

// MenuData is the payload handed to menu block templates.
type MenuData struct {
	Root  *menus.MenuItem
	Items []*menus.MenuItem
	Paths map[int64]string
}

// SearchResults is the payload handed to search-results templates.
type SearchResults struct {
	Query string
	Nodes []*nodes.Node
}

// LanguageData is the payload handed to language switcher templates.
type LanguageData struct {
	Style     string
	Languages []string
	Current   string
}

// Composer orchestrates page composition.
type Composer struct {
	layout    LayoutSource
	nodes     NodeSource
	menus     MenuSource
	signals   *signals.Registry
	session   interfaces.SessionStore
	templates interfaces.TemplateRenderer

	siteName      string
	siteAuthor    string
	siteKeywords  string
	languageStyle string
	languages     []string
	logger        interfaces.Logger
}

// ComposerOption configures a Composer.
type ComposerOption func(*Composer)

// WithSite sets the site metadata appended to composed titles.
func WithSite(name, author, keywords string) ComposerOption {
	return func(c *Composer) {
		c.siteName = name
		c.siteAuthor = author
		c.siteKeywords = keywords
	}
}

// WithLanguages sets the switcher label style and the configured
// language codes.
func WithLanguages(style string, languages []string) ComposerOption {
	return func(c *Composer) {
		c.languageStyle = style
		c.languages = languages
	}
}

// WithLogger attaches a logger.
func WithLogger(logger interfaces.Logger) ComposerOption {
	return func(c *Composer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewComposer builds a Composer over the given collaborators.
func NewComposer(
	layout LayoutSource,
	nodeSource NodeSource,
	menuSource MenuSource,
	registry *signals.Registry,
	session interfaces.SessionStore,
	templates interfaces.TemplateRenderer,
	opts ...ComposerOption,
) *Composer {
	c := &Composer{
		layout:    layout,
		nodes:     nodeSource,
		menus:     menuSource,
		signals:   registry,
		session:   session,
		templates: templates,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ComposePage renders the node into per-region output. Permission and
// redirect gates abort immediately; a failure inside a single block
// renderer degrades to an empty fragment for its region only.
func (c *Composer) ComposePage(ctx context.Context, req Request) (*Page, error) {
	node := req.Node
	if node == nil {
		return nil, fmt.Errorf("render: nil node")
	}
	requester := req.Requester
	if requester == nil {
		requester = interfaces.Anonymous()
	}

	if !node.Status && !requester.HasPermission(PermissionViewUnpublished) {
		return nil, &ForbiddenError{NodeID: node.ID}
	}
	if node.Redirect && node.Link != "" {
		return nil, &RedirectError{Location: node.Link}
	}

	pageTypeName := ""
	if node.PageType != nil {
		pageTypeName = node.PageType.Name
	}

	page := &Page{
		Title:    c.composeTitle(node.Title),
		Classes:  c.composeClasses(pageTypeName, node.Status, req.Language, requester),
		Author:   c.siteAuthor,
		Keywords: c.siteKeywords,
		Node:     node,
		Regions:  make(map[string]string),
	}

	elements, err := c.layout.ListForPageType(ctx, node.PageTypeID)
	if err != nil {
		return nil, fmt.Errorf("render: layout load: %w", err)
	}

	for _, element := range elements {
		if _, ok := page.Regions[element.Region]; !ok {
			page.Regions[element.Region] = ""
		}
		fragment, err := c.renderElement(ctx, element, req)
		if err != nil {
			if IsMissingTemplate(err) {
				return nil, err
			}
			c.logger.Warn("block render failed",
				"element_id", element.ID, "region", element.Region, "error", err)
			continue
		}
		page.Regions[element.Region] += fragment
	}

	content, err := c.renderContent(node, pageTypeName, page)
	if err != nil {
		return nil, err
	}
	page.Content = content

	return page, nil
}

func (c *Composer) composeTitle(title string) string {
	if c.siteName == "" || title == c.siteName {
		return title
	}
	return title + " | " + c.siteName
}

func (c *Composer) composeClasses(pageTypeName string, published bool, language string, requester interfaces.Requester) string {
	status := "unpublished"
	if published {
		status = "published"
	}
	parts := []string{}
	for _, class := range []string{pageTypeName, "content", status} {
		if class == "" {
			continue
		}
		parts = append(parts, "page-"+slugify(class))
	}
	if language != "" {
		parts = append(parts, "i18n-"+language)
	}
	if requester.IsAuthenticated() {
		parts = append(parts, "logged-in")
	}
	if requester.IsSuperuser() {
		parts = append(parts, "superuser")
	}
	if requester.HasPermission(PermissionAccessToolbar) {
		parts = append(parts, "toolbar")
	}
	return strings.Join(parts, " ")
}

// renderContent produces the primary body fragment, overridable per
// page type and per node id.
func (c *Composer) renderContent(node *nodes.Node, pageTypeName string, page *Page) (string, error) {
	chain := Suggestions("content", pageTypeName, strconv.FormatInt(node.ID, 10))
	return resolveTemplate(c.templates, chain, map[string]any{
		"node": node,
		"page": page,
	})
}

func (c *Composer) renderElement(ctx context.Context, element *blocks.LayoutElement, req Request) (string, error) {
	block := element.Block
	if block == nil {
		return "", fmt.Errorf("layout element %d has no block", element.ID)
	}

	switch block.Type {
	case blocks.TypeStatic:
		return c.renderStatic(ctx, element, req)
	case blocks.TypeMenu:
		return c.renderMenu(ctx, element, req)
	case blocks.TypeSignal:
		return c.renderSignal(ctx, element, req)
	case blocks.TypeLanguage:
		return c.renderBlockTemplate(element, block.Name, LanguageData{
			Style:     c.languageStyle,
			Languages: c.languages,
			Current:   req.Language,
		})
	case blocks.TypeLogin:
		return c.renderLogin(ctx, element, req)
	case blocks.TypeUserMenu:
		return c.renderBlockTemplate(element, block.Name, map[string]any{
			"authenticated": req.Requester != nil && req.Requester.IsAuthenticated(),
		})
	case blocks.TypeSearch:
		form := forms.SearchForm{Query: req.Query.Get("q")}
		form.Clean()
		return c.renderBlockTemplate(element, block.Name, form)
	case blocks.TypeSearchResults:
		return c.renderSearchResults(ctx, element, req)
	case blocks.TypeContact:
		return c.renderContact(ctx, element, req)
	default:
		// Unknown types degrade silently to an empty fragment.
		return "", nil
	}
}

func (c *Composer) renderStatic(ctx context.Context, element *blocks.LayoutElement, req Request) (string, error) {
	block := element.Block
	if block.NodeID == nil {
		return "", fmt.Errorf("static block %q has no node", block.Name)
	}
	embedded, err := c.nodes.GetByID(ctx, *block.NodeID)
	if err != nil {
		return "", err
	}
	if embedded.Language != req.Language && embedded.Language != "" {
		return "", nil
	}
	if !embedded.Status {
		return "", nil
	}
	return c.renderBlockTemplate(element, block.Name, embedded)
}

func (c *Composer) renderMenu(ctx context.Context, element *blocks.LayoutElement, req Request) (string, error) {
	block := element.Block
	if block.MenuItemID == nil {
		return "", fmt.Errorf("menu block %q has no menu item", block.Name)
	}
	root, err := c.menus.Get(ctx, *block.MenuItemID)
	if err != nil {
		return "", err
	}
	if root.Language != req.Language && root.Language != "" {
		return "", nil
	}
	if root.Disabled {
		return "", nil
	}

	descendants, err := c.menus.Descendants(ctx, root.ID, false)
	if err != nil {
		return "", err
	}
	items := make([]*menus.MenuItem, 0, len(descendants))
	paths := make(map[int64]string, len(descendants))
	for _, item := range descendants {
		if item.Disabled {
			continue
		}
		items = append(items, item)
		paths[item.ID] = c.menus.FullPath(item)
	}
	return c.renderBlockTemplate(element, block.Name, MenuData{Root: root, Items: items, Paths: paths})
}

func (c *Composer) renderSignal(ctx context.Context, element *blocks.LayoutElement, req Request) (string, error) {
	block := element.Block
	response := c.signals.Send(ctx, signals.Signal{
		Name:   block.Signal,
		Node:   req.Node,
		Values: req.Query,
	})
	if response == nil {
		return "", nil
	}
	return c.renderBlockTemplate(element, block.Signal, response)
}

func (c *Composer) renderLogin(ctx context.Context, element *blocks.LayoutElement, req Request) (string, error) {
	form := forms.LoginForm{}
	if c.session != nil && req.SessionID != "" {
		if prior, ok := c.session.Pop(ctx, req.SessionID, forms.SlotLogin); ok {
			// Passwords are never replayed, whatever the stash carries.
			if stored, ok := prior.(*forms.LoginForm); ok {
				form = *stored
				form.Password = ""
			}
		}
	}
	return c.renderBlockTemplate(element, element.Block.Name, form)
}

func (c *Composer) renderContact(ctx context.Context, element *blocks.LayoutElement, req Request) (string, error) {
	form := forms.ContactForm{
		SenderName:  req.Query.Get("sender_name"),
		SenderEmail: req.Query.Get("sender_email"),
		Subject:     req.Query.Get("subject"),
	}
	if c.session != nil && req.SessionID != "" {
		if prior, ok := c.session.Pop(ctx, req.SessionID, forms.SlotContact); ok {
			if stored, ok := prior.(*forms.ContactForm); ok {
				form = *stored
			}
		}
	}
	return c.renderBlockTemplate(element, element.Block.Name, form)
}

func (c *Composer) renderSearchResults(ctx context.Context, element *blocks.LayoutElement, req Request) (string, error) {
	form := forms.SearchForm{Query: req.Query.Get("q")}
	form.Clean()
	if form.Validate() != nil {
		return "", nil
	}
	results, err := c.nodes.Search(ctx, form.Query, []string{req.Language, ""})
	if err != nil {
		return "", err
	}
	return c.renderBlockTemplate(element, element.Block.Name, SearchResults{Query: form.Query, Nodes: results})
}

func (c *Composer) renderBlockTemplate(element *blocks.LayoutElement, specific string, data any) (string, error) {
	chain := Suggestions("block", element.Region, specific)
	return resolveTemplate(c.templates, chain, map[string]any{
		"block":   element.Block,
		"classes": element.Block.Classes,
		"data":    data,
	})
}

func slugify(s string) string {
	if normalized, err := slug.Normalize(s); err == nil {
		return normalized
	}
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}
