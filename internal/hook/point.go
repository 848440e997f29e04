package hook

import (
	"context"
	"fmt"
)

// Handler is a function registered for one hook point. Handlers are removed
// by identity, so keep the pointer returned by the constructors to
// unregister later.
type Handler struct {
	invoke invokeFunc
}

type (
	invokeFunc func(ctx context.Context, hc *Context, args any, next nextFunc) (any, error)
	nextFunc   func(ctx context.Context, args any) (any, error)
)

// Next continues a chain with the given arguments.
type Next[A, R any] func(ctx context.Context, args A) (R, error)

// ChainFunc is a chain handler for a non-configuration point.
type ChainFunc[A, R any] func(ctx context.Context, hc *Context, args A, next Next[A, R]) (R, error)

// Func is a terminal handler for a non-configuration point, used with
// RunSequential and RunParallel.
type Func[A, R any] func(ctx context.Context, hc *Context, args A) (R, error)

// ConfigChainFunc is a chain handler for a configuration point.
type ConfigChainFunc[A, R any] func(ctx context.Context, args A, next Next[A, R]) (R, error)

// ConfigFunc is a terminal handler for a configuration point.
type ConfigFunc[A, R any] func(ctx context.Context, args A) (R, error)

// Point identifies one hook point and the argument and result types its
// handlers exchange.
type Point[A, R any] struct {
	Category Category
	Name     string
}

// NewPoint declares a hook point.
func NewPoint[A, R any](category Category, name string) Point[A, R] {
	return Point[A, R]{Category: category, Name: name}
}

func (p Point[A, R]) String() string {
	return string(p.Category) + "." + p.Name
}

// Chain wraps fn as a chain handler.
func (p Point[A, R]) Chain(fn ChainFunc[A, R]) *Handler {
	return &Handler{invoke: func(ctx context.Context, hc *Context, args any, next nextFunc) (any, error) {
		a, err := p.arg(args)
		if err != nil {
			return nil, err
		}
		r, err := fn(ctx, hc, a, p.next(next))
		return r, err
	}}
}

// Handle wraps fn as a terminal handler.
func (p Point[A, R]) Handle(fn Func[A, R]) *Handler {
	return &Handler{invoke: func(ctx context.Context, hc *Context, args any, _ nextFunc) (any, error) {
		a, err := p.arg(args)
		if err != nil {
			return nil, err
		}
		r, err := fn(ctx, hc, a)
		return r, err
	}}
}

// ConfigChain wraps fn as a chain handler that receives no Context.
func (p Point[A, R]) ConfigChain(fn ConfigChainFunc[A, R]) *Handler {
	return &Handler{invoke: func(ctx context.Context, _ *Context, args any, next nextFunc) (any, error) {
		a, err := p.arg(args)
		if err != nil {
			return nil, err
		}
		r, err := fn(ctx, a, p.next(next))
		return r, err
	}}
}

// ConfigHandle wraps fn as a terminal handler that receives no Context.
func (p Point[A, R]) ConfigHandle(fn ConfigFunc[A, R]) *Handler {
	return &Handler{invoke: func(ctx context.Context, _ *Context, args any, _ nextFunc) (any, error) {
		a, err := p.arg(args)
		if err != nil {
			return nil, err
		}
		r, err := fn(ctx, a)
		return r, err
	}}
}

// Set returns a handler set contributing h to this point.
func (p Point[A, R]) Set(h *Handler) HandlerSet {
	return HandlerSet{p.Name: h}
}

// next adapts the untyped continuation of a chain. Outside a chain there is
// nothing to continue to.
func (p Point[A, R]) next(next nextFunc) Next[A, R] {
	if next == nil {
		return func(context.Context, A) (R, error) {
			var zero R
			return zero, ErrNoNext
		}
	}
	return func(ctx context.Context, args A) (R, error) {
		v, err := next(ctx, args)
		if err != nil {
			var zero R
			return zero, err
		}
		return p.result(v)
	}
}

func (p Point[A, R]) arg(v any) (A, error) {
	a, ok := cast[A](v)
	if !ok {
		return a, p.typeError(a, v)
	}
	return a, nil
}

func (p Point[A, R]) result(v any) (R, error) {
	r, ok := cast[R](v)
	if !ok {
		return r, p.typeError(r, v)
	}
	return r, nil
}

func (p Point[A, R]) typeError(want, got any) error {
	return &HandlerTypeError{
		Category: p.Category,
		Point:    p.Name,
		Want:     fmt.Sprintf("%T", want),
		Got:      fmt.Sprintf("%T", got),
	}
}

// cast converts v to T. A nil v yields the zero T.
func cast[T any](v any) (T, bool) {
	if v == nil {
		var zero T
		return zero, true
	}
	t, ok := v.(T)
	return t, ok
}
