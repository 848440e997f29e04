// Package hook composes plugin handlers, dynamically registered handlers and
// built-in defaults into ordered executions at named extension points.
//
// A Manager is built once per run from an ordered plugin list. Plugins are
// resolved dependency-first at construction; their handlers for a category
// are loaded the first time that category is touched. Handlers run through
// one of three strategies: RunChain, RunSequential or RunParallel.
package hook

import "context"

// Category names a group of related hook points.
type Category string

// CategoryConfig is the configuration category. Its handlers process the
// configuration value itself and never receive a Context.
const CategoryConfig Category = "config"

// IsConfig reports whether handlers of c run without a Context.
func (c Category) IsConfig() bool {
	return c == CategoryConfig
}

// Plugin describes a unit of distribution. Descriptors are treated as
// read-only values and compared by pointer, so each plugin should be a single
// package-level value.
type Plugin struct {
	// ID uniquely identifies the plugin.
	ID string

	// Dependencies lists plugins that must load before this one, in the
	// order their handlers should be registered.
	Dependencies []DependencyLoader

	// HookHandlers maps a category to the loader of this plugin's handlers
	// for it. Loaders only run when the category is first touched.
	HookHandlers map[Category]HandlerLoader
}

// DependencyLoader returns a plugin this plugin depends on.
type DependencyLoader func(ctx context.Context) (*Plugin, error)

// HandlerLoader obtains the module holding a plugin's handlers for one
// category. Loading and instantiating are split so a module can be located
// cheaply and its handlers built only when needed.
type HandlerLoader func(ctx context.Context) (HandlerModule, error)

// HandlerModule builds the handler set of a loaded module.
type HandlerModule func(ctx context.Context) (HandlerSet, error)

// HandlerSet maps point names to handlers. The keys present are exactly the
// points a plugin or registration contributes to.
type HandlerSet map[string]*Handler

// Dependency returns a loader for a statically known dependency.
func Dependency(p *Plugin) DependencyLoader {
	return func(context.Context) (*Plugin, error) {
		return p, nil
	}
}

// Load returns a loader whose module is the given factory.
func Load(module HandlerModule) HandlerLoader {
	return func(context.Context) (HandlerModule, error) {
		return module, nil
	}
}
