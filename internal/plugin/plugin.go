// Package plugin lists the plugins that ship with hatch.
package plugin

import (
	"errors"
	"fmt"

	"github.com/fgrehm/hatch/internal/hook"
	"github.com/fgrehm/hatch/internal/plugin/chaincheck"
	"github.com/fgrehm/hatch/internal/plugin/dotenv"
	"github.com/fgrehm/hatch/internal/plugin/rpclog"
)

// ErrUnknownPlugin is returned by Lookup for IDs that are not builtin.
var ErrUnknownPlugin = errors.New("unknown plugin")

// Builtin is a plugin shipped with hatch.
type Builtin struct {
	Plugin      *hook.Plugin
	Description string
}

// Builtins returns the builtin plugins sorted by ID.
func Builtins() []Builtin {
	return []Builtin{
		{chaincheck.Plugin, "check configured chain IDs against the node"},
		{dotenv.Plugin, "read configuration variables from .env"},
		{rpclog.Plugin, "log JSON-RPC requests"},
	}
}

// Lookup returns the builtin plugins with the given IDs, in the same order.
func Lookup(ids []string) ([]*hook.Plugin, error) {
	byID := make(map[string]*hook.Plugin)
	for _, b := range Builtins() {
		byID[b.Plugin.ID] = b.Plugin
	}

	plugins := make([]*hook.Plugin, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPlugin, id)
		}
		plugins = append(plugins, p)
	}
	return plugins, nil
}
