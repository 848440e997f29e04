// Package configvar resolves configuration variables through the
// configurationVariables.fetchValue chain.
package configvar

import (
	"context"
	"fmt"
	"os"

	"github.com/fgrehm/hatch/internal/config"
	"github.com/fgrehm/hatch/internal/hook"
	"github.com/fgrehm/hatch/internal/hook/catalog"
)

// VariableNotFoundError is returned when no handler and no environment
// variable provides a value.
type VariableNotFoundError struct {
	Name string
}

func (e *VariableNotFoundError) Error() string {
	return fmt.Sprintf("configuration variable %s is not set", e.Name)
}

// Resolve returns the value of v. Literals are returned as-is; variables run
// the fetchValue chain, whose default reads the process environment.
func Resolve(ctx context.Context, hooks *hook.Manager, v config.Var) (string, error) {
	if !v.IsVariable() {
		return v.Value, nil
	}
	return hook.RunChain(ctx, hooks, catalog.FetchValue, v, FromEnv)
}

// FromEnv is the default fetchValue implementation.
func FromEnv(_ context.Context, v config.Var) (string, error) {
	value, ok := os.LookupEnv(v.Name)
	if !ok {
		return "", &VariableNotFoundError{Name: v.Name}
	}
	return value, nil
}
