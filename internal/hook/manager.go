package hook

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Manager owns the resolved plugin list and the per-category handler
// registries of one run. All load state is private to the manager.
type Manager struct {
	projectRoot string
	plugins     []*Plugin

	mu         sync.Mutex
	registries map[Category]*registry
	populated  map[Category]bool
	source     ContextSource

	loads singleflight.Group
}

// NewManager resolves the plugin list and returns a manager for it. Handler
// loading is deferred until a category is first used.
func NewManager(ctx context.Context, projectRoot string, plugins []*Plugin) (*Manager, error) {
	resolved, err := ResolvePlugins(ctx, plugins)
	if err != nil {
		return nil, err
	}
	return &Manager{
		projectRoot: projectRoot,
		plugins:     resolved,
		registries:  make(map[Category]*registry),
		populated:   make(map[Category]bool),
	}, nil
}

// ProjectRoot returns the project root the manager was created for.
func (m *Manager) ProjectRoot() string {
	return m.projectRoot
}

// Plugins returns the plugins in load order.
func (m *Manager) Plugins() []*Plugin {
	return slices.Clone(m.plugins)
}

// SetContextSource sets where hook contexts for non-configuration
// categories come from. Until it is called, handlers receive a context that
// only carries the project root and the manager.
func (m *Manager) SetContextSource(src ContextSource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.source = src
}

// RegisterHandlers appends every handler in set to its point. Dynamic
// handlers run after plugin handlers, in registration order.
func (m *Manager) RegisterHandlers(ctx context.Context, category Category, set HandlerSet) error {
	if err := m.ensureLoaded(ctx, category); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registry(category).addDynamic(set)
	return nil
}

// UnregisterHandlers removes, for each point in set, the entry holding that
// exact handler. Handlers that are not registered are ignored.
func (m *Manager) UnregisterHandlers(ctx context.Context, category Category, set HandlerSet) error {
	if err := m.ensureLoaded(ctx, category); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registry(category).remove(set)
	return nil
}

// HasHandlers reports whether any handler is registered for the point.
func (m *Manager) HasHandlers(ctx context.Context, category Category, point string) (bool, error) {
	handlers, err := m.snapshot(ctx, category, point)
	if err != nil {
		return false, err
	}
	return len(handlers) > 0, nil
}

// snapshot returns the handlers of a point, oldest first, loading the
// category if needed. Later registrations do not affect the returned slice.
func (m *Manager) snapshot(ctx context.Context, category Category, point string) ([]*Handler, error) {
	if err := m.ensureLoaded(ctx, category); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registry(category).handlers(point), nil
}

// registry returns the registry for category, creating it. Callers hold mu.
func (m *Manager) registry(category Category) *registry {
	r, ok := m.registries[category]
	if !ok {
		r = newRegistry()
		m.registries[category] = r
	}
	return r
}

// ensureLoaded populates the plugin handlers of category exactly once.
// Concurrent callers share a single in-flight load. A failed load leaves the
// category unpopulated and is attempted again on the next call.
//
// The shared load runs detached from the caller's cancellation; a caller
// whose ctx is done stops waiting and gets ctx.Err() while the load goes on
// for everyone else.
func (m *Manager) ensureLoaded(ctx context.Context, category Category) error {
	if m.isPopulated(category) {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	loadCtx := context.WithoutCancel(ctx)
	ch := m.loads.DoChan(string(category), func() (any, error) {
		if m.isPopulated(category) {
			return nil, nil
		}
		sets, err := m.loadCategory(loadCtx, category)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		defer m.mu.Unlock()
		r := m.registry(category)
		for _, set := range sets {
			r.addPlugin(set)
		}
		m.populated[category] = true
		return nil, nil
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) isPopulated(category Category) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.populated[category]
}

// loadCategory runs the loaders of every plugin declaring category, in load
// order. Nothing is registered until all of them succeed.
func (m *Manager) loadCategory(ctx context.Context, category Category) ([]HandlerSet, error) {
	var sets []HandlerSet
	for _, p := range m.plugins {
		load, ok := p.HookHandlers[category]
		if !ok || load == nil {
			continue
		}
		module, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if module == nil {
			return nil, fmt.Errorf("plugin %q: no %s handler module", p.ID, category)
		}
		set, err := module(ctx)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, nil
}

// hookContext builds the context for one top-level run. Configuration
// categories get nil.
func (m *Manager) hookContext(category Category) *Context {
	if category.IsConfig() {
		return nil
	}
	m.mu.Lock()
	src := m.source
	m.mu.Unlock()
	if src == nil {
		return &Context{ProjectRoot: m.projectRoot, Hooks: m}
	}
	return src.HookContext()
}
