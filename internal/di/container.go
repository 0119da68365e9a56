// Package di wires the module: repositories over bun or memory, the
// alias pipeline, the composer and the HTTP front, all derived from a
// single runtime configuration.
package di

import (
	"time"

	"github.com/goliatone/go-ninecms/internal/aliases"
	"github.com/goliatone/go-ninecms/internal/blocks"
	"github.com/goliatone/go-ninecms/internal/httpserver"
	"github.com/goliatone/go-ninecms/internal/logging"
	"github.com/goliatone/go-ninecms/internal/logging/gologger"
	"github.com/goliatone/go-ninecms/internal/media"
	"github.com/goliatone/go-ninecms/internal/menus"
	"github.com/goliatone/go-ninecms/internal/nodes"
	"github.com/goliatone/go-ninecms/internal/render"
	"github.com/goliatone/go-ninecms/internal/runtimeconfig"
	"github.com/goliatone/go-ninecms/internal/session"
	"github.com/goliatone/go-ninecms/internal/signals"
	"github.com/goliatone/go-ninecms/internal/taxonomy"
	"github.com/goliatone/go-ninecms/internal/translit"
	"github.com/goliatone/go-ninecms/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

// Container wires module dependencies. Without a database it runs
// entirely on memory repositories.
type Container struct {
	Config runtimeconfig.Config

	logProvider interfaces.LoggerProvider
	template    interfaces.TemplateRenderer
	mailer      interfaces.Mailer
	sessions    interfaces.SessionStore
	auth        httpserver.Authenticator

	bunDB         *bun.DB
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	nodeRepo     nodes.NodeRepository
	pageTypeRepo nodes.PageTypeRepository
	revisionRepo nodes.RevisionRepository
	menuRepo     menus.Repository
	blockRepo    blocks.BlockRepository
	layoutRepo   blocks.LayoutRepository
	termRepo     taxonomy.Repository
	mediaRepo    media.Repository

	tables   translit.Tables
	aliasGen *aliases.Generator
	resolver *aliases.Resolver
	registry *signals.Registry

	nodeSvc  nodes.Service
	menuSvc  menus.Service
	blockSvc blocks.Service
	composer *render.Composer
	server   *httpserver.Server
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB switches persistence from memory to the given database.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default repository cache bindings.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithTemplate overrides the default template renderer.
func WithTemplate(tr interfaces.TemplateRenderer) Option {
	return func(c *Container) {
		if tr != nil {
			c.template = tr
		}
	}
}

// WithMailer wires contact form delivery.
func WithMailer(mailer interfaces.Mailer) Option {
	return func(c *Container) {
		c.mailer = mailer
	}
}

// WithSessionStore overrides the default in-memory session store.
func WithSessionStore(store interfaces.SessionStore) Option {
	return func(c *Container) {
		if store != nil {
			c.sessions = store
		}
	}
}

// WithAuthenticator wires login handling for the HTTP front.
func WithAuthenticator(auth httpserver.Authenticator) Option {
	return func(c *Container) {
		c.auth = auth
	}
}

// WithLoggerProvider overrides the logger provider derived from config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.logProvider = provider
	}
}

// WithNodeService overrides the default node service binding.
func WithNodeService(svc nodes.Service) Option {
	return func(c *Container) {
		c.nodeSvc = svc
	}
}

// WithMenuService overrides the default menu service binding.
func WithMenuService(svc menus.Service) Option {
	return func(c *Container) {
		c.menuSvc = svc
	}
}

// WithBlockService overrides the default block service binding.
func WithBlockService(svc blocks.Service) Option {
	return func(c *Container) {
		c.blockSvc = svc
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) *Container {
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:       cfg,
		template:     emptyTemplate{},
		sessions:     session.NewMemoryStore(),
		cacheTTL:     cacheTTL,
		nodeRepo:     nodes.NewMemoryNodeRepository(),
		pageTypeRepo: nodes.NewMemoryPageTypeRepository(),
		revisionRepo: nodes.NewMemoryRevisionRepository(),
		menuRepo:     menus.NewMemoryRepository(),
		termRepo:     taxonomy.NewMemoryRepository(),
		mediaRepo:    media.NewMemoryRepository(),
		tables: translit.Tables{
			Remove:      cfg.Transliterate.Remove,
			ReplaceFrom: cfg.Transliterate.ReplaceFrom,
			ReplaceTo:   cfg.Transliterate.ReplaceTo,
		},
	}
	memoryBlocks := blocks.NewMemoryBlockRepository()
	c.blockRepo = memoryBlocks
	c.layoutRepo = blocks.NewMemoryLayoutRepository(memoryBlocks)

	for _, opt := range opts {
		opt(c)
	}

	c.configureLogging()
	c.configureCacheDefaults()
	c.configureRepositories()

	c.registry = signals.NewRegistry(
		signals.WithLogger(logging.ModuleLogger(c.logProvider, "cms.signals")),
	)
	c.aliasGen = aliases.NewGenerator(
		c.nodeRepo,
		aliases.WithTables(c.tables),
		aliases.WithLogger(logging.AliasesLogger(c.logProvider)),
	)
	c.resolver = aliases.NewResolver(c.nodeRepo)

	if c.nodeSvc == nil {
		c.nodeSvc = nodes.NewService(
			c.nodeRepo,
			c.pageTypeRepo,
			c.revisionRepo,
			nodes.WithAliasGenerator(c.aliasGen),
			nodes.WithDeleteHook(c.mediaRepo.DeleteForNode),
			nodes.WithLogger(logging.NodesLogger(c.logProvider)),
		)
	}

	if c.menuSvc == nil {
		c.menuSvc = menus.NewService(
			c.menuRepo,
			menus.WithLanguagePrefix(cfg.I18N.URLPrefix),
			menus.WithLogger(logging.MenusLogger(c.logProvider)),
		)
	}

	if c.blockSvc == nil {
		c.blockSvc = blocks.NewService(c.blockRepo, c.layoutRepo)
	}

	c.composer = render.NewComposer(
		c.layoutRepo,
		c.nodeRepo,
		c.menuSvc,
		c.registry,
		c.sessions,
		c.template,
		render.WithSite(cfg.Site.Name, cfg.Site.Author, cfg.Site.Keywords),
		render.WithLanguages(cfg.I18N.LanguageMenuLabels, cfg.I18N.Languages),
		render.WithLogger(logging.RenderLogger(c.logProvider)),
	)

	return c
}

func (c *Container) configureLogging() {
	if c.logProvider != nil || !c.Config.Features.Logger {
		return
	}
	provider, err := gologger.NewProvider(gologger.Config{
		Level:     c.Config.Logging.Level,
		Format:    c.Config.Logging.Format,
		AddSource: c.Config.Logging.AddSource,
		Focus:     c.Config.Logging.Focus,
	})
	if err == nil {
		c.logProvider = provider
	}
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.bunDB == nil {
		return
	}

	c.nodeRepo = nodes.NewBunNodeRepository(c.bunDB)
	c.pageTypeRepo = nodes.NewBunPageTypeRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.revisionRepo = nodes.NewBunRevisionRepository(c.bunDB)
	c.menuRepo = menus.NewBunRepository(c.bunDB)
	c.blockRepo = blocks.NewBunBlockRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.layoutRepo = blocks.NewBunLayoutRepository(c.bunDB)
	c.termRepo = taxonomy.NewBunRepository(c.bunDB)
	c.mediaRepo = media.NewBunRepository(c.bunDB)
}

// NodeService returns the configured node service.
func (c *Container) NodeService() nodes.Service {
	return c.nodeSvc
}

// MenuService returns the configured menu service.
func (c *Container) MenuService() menus.Service {
	return c.menuSvc
}

// BlockService returns the configured block service.
func (c *Container) BlockService() blocks.Service {
	return c.blockSvc
}

// Composer returns the page composer.
func (c *Container) Composer() *render.Composer {
	return c.composer
}

// Resolver returns the alias resolver.
func (c *Container) Resolver() *aliases.Resolver {
	return c.resolver
}

// AliasGenerator returns the alias generator.
func (c *Container) AliasGenerator() *aliases.Generator {
	return c.aliasGen
}

// Signals returns the signal registry.
func (c *Container) Signals() *signals.Registry {
	return c.registry
}

// Sessions returns the session store.
func (c *Container) Sessions() interfaces.SessionStore {
	return c.sessions
}

// TemplateRenderer returns the configured template renderer.
func (c *Container) TemplateRenderer() interfaces.TemplateRenderer {
	return c.template
}

// NodeRepository exposes the configured node repository.
func (c *Container) NodeRepository() nodes.NodeRepository {
	return c.nodeRepo
}

// PageTypeRepository exposes the configured page type repository.
func (c *Container) PageTypeRepository() nodes.PageTypeRepository {
	return c.pageTypeRepo
}

// MenuRepository exposes the configured menu repository.
func (c *Container) MenuRepository() menus.Repository {
	return c.menuRepo
}

// TaxonomyRepository exposes the configured taxonomy repository.
func (c *Container) TaxonomyRepository() taxonomy.Repository {
	return c.termRepo
}

// MediaRepository exposes the configured media repository.
func (c *Container) MediaRepository() media.Repository {
	return c.mediaRepo
}

// Server lazily builds the HTTP front over the configured services.
func (c *Container) Server() *httpserver.Server {
	if c.server != nil {
		return c.server
	}

	serverOpts := []httpserver.Option{
		httpserver.WithLogger(logging.HTTPLogger(c.logProvider)),
	}
	if c.mailer != nil {
		serverOpts = append(serverOpts, httpserver.WithMailer(c.mailer))
	}
	if c.auth != nil {
		serverOpts = append(serverOpts, httpserver.WithAuthenticator(c.auth))
	}

	c.server = httpserver.New(
		c.resolver,
		c.nodeRepo,
		c.composer,
		c.template,
		c.sessions,
		httpserver.Config{
			SiteName:        c.Config.Site.Name,
			SiteAuthor:      c.Config.Site.Author,
			BaseURL:         c.Config.Site.URL,
			DefaultLanguage: c.Config.I18N.DefaultLanguage,
			Languages:       c.Config.I18N.Languages,
			LanguagePrefix:  c.Config.I18N.URLPrefix,
			FeedsEnabled:    c.Config.Features.Feeds,
		},
		serverOpts...,
	)
	return c.server
}

// emptyTemplate renders every template to an empty fragment. It keeps a
// container usable before the host registers a real renderer.
type emptyTemplate struct{}

func (emptyTemplate) Exists(string) bool { return true }

func (emptyTemplate) Render(string, any) (string, error) { return "", nil }
