package hook

import "slices"

// registry holds the handlers of one category. Plugin handlers always
// precede dynamic ones for the same point, whatever order they were added in.
type registry struct {
	plugin  map[string][]*Handler
	dynamic map[string][]*Handler
}

func newRegistry() *registry {
	return &registry{
		plugin:  make(map[string][]*Handler),
		dynamic: make(map[string][]*Handler),
	}
}

// handlers returns a fresh slice of the handlers for point, oldest first.
func (r *registry) handlers(point string) []*Handler {
	p, d := r.plugin[point], r.dynamic[point]
	out := make([]*Handler, 0, len(p)+len(d))
	out = append(out, p...)
	return append(out, d...)
}

func (r *registry) addPlugin(set HandlerSet) {
	for point, h := range set {
		if h != nil {
			r.plugin[point] = append(r.plugin[point], h)
		}
	}
}

func (r *registry) addDynamic(set HandlerSet) {
	for point, h := range set {
		if h != nil {
			r.dynamic[point] = append(r.dynamic[point], h)
		}
	}
}

// remove drops, for each point in set, the first entry identical to the
// given handler. Dynamic entries are searched before plugin entries.
func (r *registry) remove(set HandlerSet) {
	for point, h := range set {
		if h == nil {
			continue
		}
		if removeFirst(r.dynamic, point, h) {
			continue
		}
		removeFirst(r.plugin, point, h)
	}
}

func removeFirst(m map[string][]*Handler, point string, h *Handler) bool {
	list := m[point]
	i := slices.Index(list, h)
	if i < 0 {
		return false
	}
	m[point] = slices.Delete(slices.Clone(list), i, i+1)
	return true
}
