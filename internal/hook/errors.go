package hook

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoNext is returned by the next function handed to a chain handler when
// that handler runs outside of a chain.
var ErrNoNext = errors.New("next is only available during chain execution")

// DependencyCycleError is returned when plugin dependencies form a cycle.
type DependencyCycleError struct {
	// Path lists plugin IDs along the cycle; the first and last are equal.
	Path []string
}

func (e *DependencyCycleError) Error() string {
	return "plugin dependency cycle: " + strings.Join(e.Path, " -> ")
}

// DuplicatePluginError is returned when two distinct descriptors share an ID.
type DuplicatePluginError struct {
	ID string
}

func (e *DuplicatePluginError) Error() string {
	return fmt.Sprintf("plugin %q is defined more than once", e.ID)
}

// ModuleNotFoundError reports that a handler module or plugin dependency
// could not be located. Loaders return it as-is and the manager never wraps
// it, so callers can match it with errors.As.
type ModuleNotFoundError struct {
	Plugin string
	Module string
}

func (e *ModuleNotFoundError) Error() string {
	if e.Plugin == "" {
		return fmt.Sprintf("cannot find module %q", e.Module)
	}
	return fmt.Sprintf("plugin %q: cannot find module %q", e.Plugin, e.Module)
}

// HandlerTypeError is returned when a value crossing a hook point does not
// have the type the point declares.
type HandlerTypeError struct {
	Category Category
	Point    string
	Want     string
	Got      string
}

func (e *HandlerTypeError) Error() string {
	return fmt.Sprintf("hook %s.%s: got value of type %s, want %s", e.Category, e.Point, e.Got, e.Want)
}
