package hook

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RunChain runs the handlers of p as nested middleware around def. The most
// recently registered handler runs first; def runs innermost, once, when the
// innermost handler calls next (or directly when there are no handlers).
// Errors propagate unchanged out of the next call that raised them.
func RunChain[A, R any](ctx context.Context, m *Manager, p Point[A, R], args A, def Next[A, R]) (R, error) {
	var zero R
	handlers, err := m.snapshot(ctx, p.Category, p.Name)
	if err != nil {
		return zero, err
	}
	if def == nil {
		def = func(context.Context, A) (R, error) { return zero, nil }
	}
	if len(handlers) == 0 {
		return def(ctx, args)
	}

	hc := m.hookContext(p.Category)
	next := func(ctx context.Context, v any) (any, error) {
		a, err := p.arg(v)
		if err != nil {
			return nil, err
		}
		r, err := def(ctx, a)
		return r, err
	}
	for _, h := range handlers {
		inner := next
		next = func(ctx context.Context, v any) (any, error) {
			return h.invoke(ctx, hc, v, inner)
		}
	}

	v, err := next(ctx, args)
	if err != nil {
		return zero, err
	}
	return p.result(v)
}

// RunSequential runs the handlers of p one after another in registration
// order and returns their results in that order. It stops at the first error.
func RunSequential[A, R any](ctx context.Context, m *Manager, p Point[A, R], args A) ([]R, error) {
	handlers, err := m.snapshot(ctx, p.Category, p.Name)
	if err != nil {
		return nil, err
	}

	hc := m.hookContext(p.Category)
	results := make([]R, 0, len(handlers))
	for _, h := range handlers {
		v, err := h.invoke(ctx, hc, args, nil)
		if err != nil {
			return nil, err
		}
		r, err := p.result(v)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

// RunParallel starts every handler of p concurrently and waits for all of
// them. Results are ordered newest handler first. If any handler fails the
// first error is returned once all have finished; siblings are not cancelled.
func RunParallel[A, R any](ctx context.Context, m *Manager, p Point[A, R], args A) ([]R, error) {
	handlers, err := m.snapshot(ctx, p.Category, p.Name)
	if err != nil {
		return nil, err
	}

	hc := m.hookContext(p.Category)
	results := make([]R, len(handlers))
	var g errgroup.Group
	for i := range handlers {
		h := handlers[len(handlers)-1-i]
		g.Go(func() error {
			v, err := h.invoke(ctx, hc, args, nil)
			if err != nil {
				return err
			}
			r, err := p.result(v)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
