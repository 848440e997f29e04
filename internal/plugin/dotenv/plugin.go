// Package dotenv resolves configuration variables from a .env file in the
// project root.
package dotenv

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fgrehm/hatch/internal/config"
	"github.com/fgrehm/hatch/internal/hook"
	"github.com/fgrehm/hatch/internal/hook/catalog"
	"github.com/joho/godotenv"
)

const (
	// ID is the plugin identifier.
	ID = "dotenv"

	// DefaultFile is read unless the "file" setting names another one,
	// relative to the project root.
	DefaultFile = ".env"
)

// Plugin answers fetchValue for variables defined in the .env file and
// defers everything else to the next handler.
var Plugin = &hook.Plugin{
	ID: ID,
	HookHandlers: map[hook.Category]hook.HandlerLoader{
		catalog.ConfigurationVariables: hook.Load(handlers),
	},
}

func handlers(context.Context) (hook.HandlerSet, error) {
	return catalog.FetchValue.Set(catalog.FetchValue.Chain(fetchValue)), nil
}

func fetchValue(ctx context.Context, hc *hook.Context, v config.Var, next hook.Next[config.Var, string]) (string, error) {
	values, err := Load(path(hc))
	if err != nil {
		return "", err
	}
	if value, ok := values[v.Name]; ok {
		return value, nil
	}
	return next(ctx, v)
}

func path(hc *hook.Context) string {
	file := DefaultFile
	if hc.Config != nil {
		if s, ok := hc.Config.Settings[ID]["file"].(string); ok && s != "" {
			file = s
		}
	}
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(hc.ProjectRoot, file)
}

// Load reads a .env file. A missing file yields no values.
func Load(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	values, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return values, nil
}

// Parse reads dotenv-formatted input: comments, an optional "export "
// prefix, single and double quotes, escapes inside double quotes and
// ${VAR} expansion of variables defined earlier in the same input.
func Parse(r io.Reader) (map[string]string, error) {
	return godotenv.Parse(r)
}
