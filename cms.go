// Package ninecms composes node-based pages and resolves URL aliases.
// The façade exposes the wired services; hosts plug in templates, mail
// and authentication through DI options.
package ninecms

import (
	"github.com/goliatone/go-ninecms/internal/aliases"
	"github.com/goliatone/go-ninecms/internal/blocks"
	"github.com/goliatone/go-ninecms/internal/di"
	"github.com/goliatone/go-ninecms/internal/httpserver"
	"github.com/goliatone/go-ninecms/internal/media"
	"github.com/goliatone/go-ninecms/internal/menus"
	"github.com/goliatone/go-ninecms/internal/nodes"
	"github.com/goliatone/go-ninecms/internal/render"
	"github.com/goliatone/go-ninecms/internal/signals"
	"github.com/goliatone/go-ninecms/internal/taxonomy"
	"github.com/goliatone/go-ninecms/pkg/interfaces"
)

// NodeService exports the node management contract.
type NodeService = nodes.Service

// MenuService exports the menu tree contract.
type MenuService = menus.Service

// BlockService exports the block and layout contract.
type BlockService = blocks.Service

// TaxonomyRepository exports the term storage contract.
type TaxonomyRepository = taxonomy.Repository

// MediaRepository exports the media storage contract.
type MediaRepository = media.Repository

// Module represents the top level CMS runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a CMS module using the provided configuration and
// optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Module{container: di.NewContainer(cfg, opts...)}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Nodes returns the configured node service.
func (m *Module) Nodes() NodeService {
	return m.container.NodeService()
}

// Menus returns the configured menu service.
func (m *Module) Menus() MenuService {
	return m.container.MenuService()
}

// Blocks returns the configured block service.
func (m *Module) Blocks() BlockService {
	return m.container.BlockService()
}

// Taxonomy returns the configured term repository.
func (m *Module) Taxonomy() TaxonomyRepository {
	return m.container.TaxonomyRepository()
}

// Media returns the configured media repository.
func (m *Module) Media() MediaRepository {
	return m.container.MediaRepository()
}

// Composer returns the page composer.
func (m *Module) Composer() *render.Composer {
	return m.container.Composer()
}

// Resolver returns the alias resolver.
func (m *Module) Resolver() *aliases.Resolver {
	return m.container.Resolver()
}

// Signals returns the signal registry for custom block listeners.
func (m *Module) Signals() *signals.Registry {
	return m.container.Signals()
}

// Sessions returns the session store backing form replay.
func (m *Module) Sessions() interfaces.SessionStore {
	return m.container.Sessions()
}

// Server returns the HTTP front serving the public routes.
func (m *Module) Server() *httpserver.Server {
	return m.container.Server()
}
