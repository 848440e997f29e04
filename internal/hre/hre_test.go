package hre

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fgrehm/hatch/internal/artifacts"
	"github.com/fgrehm/hatch/internal/config"
	"github.com/fgrehm/hatch/internal/hook"
	"github.com/fgrehm/hatch/internal/hook/catalog"
)

func testOptions(t *testing.T, plugins ...*hook.Plugin) (Options, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	return Options{
		ProjectRoot: t.TempDir(),
		Plugins:     plugins,
		Stdin:       strings.NewReader(""),
		Stdout:      out,
		Stderr:      io.Discard,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, out
}

// configPlugin contributes set to the config category.
func configPlugin(id string, set hook.HandlerSet) *hook.Plugin {
	return &hook.Plugin{
		ID: id,
		HookHandlers: map[hook.Category]hook.HandlerLoader{
			hook.CategoryConfig: hook.Load(func(context.Context) (hook.HandlerSet, error) { return set, nil }),
		},
	}
}

func TestNew_Defaults(t *testing.T) {
	opts, _ := testOptions(t)

	env, err := New(context.Background(), opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if env.Config.Paths.Root != opts.ProjectRoot {
		t.Errorf("Root = %q, want %q", env.Config.Paths.Root, opts.ProjectRoot)
	}
	if env.Config.DefaultNetwork != config.DefaultNetworkName {
		t.Errorf("DefaultNetwork = %q", env.Config.DefaultNetwork)
	}
	if env.Artifacts.Dir() != filepath.Join(opts.ProjectRoot, config.DefaultArtifactsDir) {
		t.Errorf("Artifacts.Dir() = %q", env.Artifacts.Dir())
	}
	if len(env.Tasks.List()) != 2 {
		t.Errorf("expected 2 builtin tasks, got %d", len(env.Tasks.List()))
	}
}

func TestNew_ConfigHooks(t *testing.T) {
	extend := catalog.ExtendUserConfig.ConfigChain(func(ctx context.Context, uc *config.UserConfig, next hook.Next[*config.UserConfig, *config.UserConfig]) (*config.UserConfig, error) {
		extended := *uc
		extended.Networks = map[string]config.NetworkUserConfig{
			"sepolia": {URL: config.Variable("SEPOLIA_URL"), ChainID: 11155111},
		}
		return next(ctx, &extended)
	})
	var validated *config.UserConfig
	check := catalog.ValidateUserConfig.ConfigHandle(func(_ context.Context, uc *config.UserConfig) ([]config.ValidationError, error) {
		validated = uc
		return nil, nil
	})
	resolve := catalog.ResolveUserConfig.ConfigChain(func(ctx context.Context, args catalog.ResolveArgs, next hook.Next[catalog.ResolveArgs, *config.Config]) (*config.Config, error) {
		cfg, err := next(ctx, args)
		if err != nil {
			return nil, err
		}
		cfg.Solidity.Version = "0.8.28"
		return cfg, nil
	})
	p := configPlugin("config-plugin", hook.HandlerSet{
		catalog.ExtendUserConfig.Name:   extend,
		catalog.ValidateUserConfig.Name: check,
		catalog.ResolveUserConfig.Name:  resolve,
	})
	opts, _ := testOptions(t, p)

	env, err := New(context.Background(), opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if validated == nil || validated.Networks["sepolia"].ChainID != 11155111 {
		t.Error("validation should see the extended config")
	}
	if env.Config.Networks["sepolia"].ChainID != 11155111 {
		t.Errorf("resolved networks = %v", env.Config.Networks)
	}
	if env.Config.Solidity.Version != "0.8.28" {
		t.Errorf("Solidity.Version = %q", env.Config.Solidity.Version)
	}
	if env.UserConfig != validated {
		t.Error("environment should keep the extended user config")
	}
}

func TestNew_ValidationErrors(t *testing.T) {
	check := catalog.ValidateUserConfig.ConfigHandle(func(context.Context, *config.UserConfig) ([]config.ValidationError, error) {
		return []config.ValidationError{{Path: "networks.x", Message: "plugin says no"}}, nil
	})
	opts, _ := testOptions(t, configPlugin("strict", catalog.ValidateUserConfig.Set(check)))
	opts.UserConfig = &config.UserConfig{DefaultNetwork: "missing"}

	_, err := New(context.Background(), opts)
	var verrs config.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if len(verrs) != 2 {
		t.Fatalf("expected builtin and plugin errors, got %v", verrs)
	}
	if !strings.Contains(err.Error(), "plugin says no") {
		t.Errorf("error = %q", err)
	}
}

func TestNew_LoaderErrorUnchanged(t *testing.T) {
	notFound := &hook.ModuleNotFoundError{Plugin: "broken", Module: "config-hooks"}
	broken := &hook.Plugin{
		ID: "broken",
		HookHandlers: map[hook.Category]hook.HandlerLoader{
			hook.CategoryConfig: func(context.Context) (hook.HandlerModule, error) { return nil, notFound },
		},
	}
	opts, _ := testOptions(t, broken)

	_, err := New(context.Background(), opts)
	var mnf *hook.ModuleNotFoundError
	if !errors.As(err, &mnf) || mnf != notFound {
		t.Fatalf("expected the loader's ModuleNotFoundError, got %v", err)
	}
}

func TestNew_CreatedSeesEnvironment(t *testing.T) {
	var got *hook.Context
	created := catalog.Created.Handle(func(_ context.Context, hc *hook.Context, _ struct{}) (struct{}, error) {
		got = hc
		hc.Extensions["created"] = true
		return struct{}{}, nil
	})
	p := &hook.Plugin{
		ID: "observer",
		HookHandlers: map[hook.Category]hook.HandlerLoader{
			catalog.HRE: hook.Load(func(context.Context) (hook.HandlerSet, error) {
				return catalog.Created.Set(created), nil
			}),
		},
	}
	opts, _ := testOptions(t, p)
	opts.GlobalOptions = config.GlobalOptions{Network: "localhost"}

	env, err := New(context.Background(), opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got == nil {
		t.Fatal("created handler did not run")
	}
	if got.Config != env.Config || got.Hooks != env.Hooks || got.Artifacts != env.Artifacts {
		t.Error("hook context should expose the environment's values")
	}
	if got.Interruptions == nil || got.Network == nil || got.Logger == nil {
		t.Error("hook context is missing services")
	}
	if got.GlobalOptions.Network != "localhost" {
		t.Errorf("GlobalOptions = %+v", got.GlobalOptions)
	}
	if env.Extensions["created"] != true {
		t.Error("extensions set by handlers should be visible on the environment")
	}
}

func TestNew_CreatedErrorFails(t *testing.T) {
	boom := errors.New("boom")
	created := catalog.Created.Handle(func(context.Context, *hook.Context, struct{}) (struct{}, error) {
		return struct{}{}, boom
	})
	p := &hook.Plugin{
		ID: "failing",
		HookHandlers: map[hook.Category]hook.HandlerLoader{
			catalog.HRE: hook.Load(func(context.Context) (hook.HandlerSet, error) {
				return catalog.Created.Set(created), nil
			}),
		},
	}
	opts, _ := testOptions(t, p)

	if _, err := New(context.Background(), opts); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestBuiltinTasks(t *testing.T) {
	opts, out := testOptions(t)
	ctx := context.Background()

	srcDir := filepath.Join(opts.ProjectRoot, "contracts")
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, "Counter.sol"), []byte("contract Counter {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	env, err := New(ctx, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = env.Close(ctx) }()

	if err := env.Tasks.Run(ctx, TaskSources, nil); err != nil {
		t.Fatalf("sources task: %v", err)
	}
	if !strings.Contains(out.String(), "Counter.sol") {
		t.Errorf("sources output = %q", out.String())
	}

	if err := env.Artifacts.Save(ctx, &artifacts.Artifact{ContractName: "Counter"}); err != nil {
		t.Fatal(err)
	}
	if err := env.Tasks.Run(ctx, TaskClean, nil); err != nil {
		t.Fatalf("clean task: %v", err)
	}
	names, err := env.Artifacts.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 0 {
		t.Errorf("artifacts after clean = %v", names)
	}
}
