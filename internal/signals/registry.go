// Package signals is the extension hook surface for custom block
// rendering. Hosts connect listeners to named signals; signal-type
// content blocks dispatch through the registry at compose time.
package signals

import (
	"context"
	"net/url"
	"sync"

	"github.com/goliatone/go-ninecms/internal/logging"
	"github.com/goliatone/go-ninecms/internal/nodes"
	"github.com/goliatone/go-ninecms/pkg/interfaces"
)

// Signal carries the dispatch payload to listeners.
type Signal struct {
	Name   string
	Node   *nodes.Node
	Values url.Values
}

// Listener handles one signal dispatch. A nil response means the
// listener declines; an error is logged and treated as a decline.
type Listener func(ctx context.Context, sig Signal) (any, error)

// Registry holds named listener chains. Connect order matters: the last
// connected listener that responds wins.
type Registry struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
	logger    interfaces.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger attaches a logger.
func WithLogger(logger interfaces.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry builds an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		listeners: make(map[string][]Listener),
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Connect appends a listener to the named signal.
func (r *Registry) Connect(name string, listener Listener) {
	if listener == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners[name] = append(r.listeners[name], listener)
}

// Send dispatches the signal to every listener in connect order and
// returns the last non-nil response, or nil when nobody responds.
// Listener failures never abort the fan-out.
func (r *Registry) Send(ctx context.Context, sig Signal) any {
	r.mu.RLock()
	chain := r.listeners[sig.Name]
	r.mu.RUnlock()

	var response any
	for _, listener := range chain {
		result, err := listener(ctx, sig)
		if err != nil {
			r.logger.Warn("signal listener failed", "signal", sig.Name, "error", err)
			continue
		}
		if result != nil {
			response = result
		}
	}
	return response
}
