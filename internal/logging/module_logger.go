package logging

import (
	"context"

	"github.com/goliatone/go-ninecms/pkg/interfaces"
)

const (
	rootModule    = "cms"
	nodesModule   = "cms.nodes"
	aliasesModule = "cms.aliases"
	menusModule   = "cms.menus"
	renderModule  = "cms.render"
	httpModule    = "cms.http"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// NodesLogger returns the logger namespace reserved for node services.
func NodesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, nodesModule)
}

// AliasesLogger returns the logger namespace reserved for alias generation
// and resolution.
func AliasesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, aliasesModule)
}

// MenusLogger returns the logger namespace reserved for menu tree services.
func MenusLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, menusModule)
}

// RenderLogger returns the logger namespace reserved for the page composer.
func RenderLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, renderModule)
}

// HTTPLogger returns the logger namespace reserved for the HTTP front.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
