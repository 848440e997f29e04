package hook

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"
)

// ResolvePlugins returns plugins in load order. Every plugin appears once,
// after all of its transitive dependencies; plugins with no dependency
// relationship keep their input order.
func ResolvePlugins(ctx context.Context, plugins []*Plugin) ([]*Plugin, error) {
	r := &resolver{visited: make(map[string]*Plugin, len(plugins))}
	for _, p := range plugins {
		if err := r.visit(ctx, p); err != nil {
			return nil, err
		}
	}
	return r.order, nil
}

type resolver struct {
	visited map[string]*Plugin
	// stack holds the IDs currently being resolved, outermost first.
	stack []string
	order []*Plugin
}

func (r *resolver) visit(ctx context.Context, p *Plugin) error {
	if p == nil {
		return fmt.Errorf("nil plugin in plugin list")
	}
	if seen, ok := r.visited[p.ID]; ok {
		if seen != p {
			return &DuplicatePluginError{ID: p.ID}
		}
		return nil
	}
	if i := slices.Index(r.stack, p.ID); i >= 0 {
		path := append(slices.Clone(r.stack[i:]), p.ID)
		return &DependencyCycleError{Path: path}
	}

	r.stack = append(r.stack, p.ID)
	deps, err := loadDependencies(ctx, p)
	if err != nil {
		return err
	}
	for _, dep := range deps {
		if err := r.visit(ctx, dep); err != nil {
			return err
		}
	}
	r.stack = r.stack[:len(r.stack)-1]

	r.visited[p.ID] = p
	r.order = append(r.order, p)
	return nil
}

// loadDependencies runs all dependency loaders of p concurrently and returns
// their results in declaration order. Loader errors are returned unchanged.
func loadDependencies(ctx context.Context, p *Plugin) ([]*Plugin, error) {
	if len(p.Dependencies) == 0 {
		return nil, nil
	}

	deps := make([]*Plugin, len(p.Dependencies))
	var g errgroup.Group
	for i, load := range p.Dependencies {
		g.Go(func() error {
			dep, err := load(ctx)
			if err != nil {
				return err
			}
			if dep == nil {
				return fmt.Errorf("plugin %q: dependency %d resolved to nil", p.ID, i)
			}
			deps[i] = dep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return deps, nil
}
