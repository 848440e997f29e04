// Package hre builds the runtime environment a hatch command works with:
// the resolved config, the hook manager and the services plugins reach
// through hook contexts.
package hre

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fgrehm/hatch/internal/artifacts"
	"github.com/fgrehm/hatch/internal/config"
	"github.com/fgrehm/hatch/internal/hook"
	"github.com/fgrehm/hatch/internal/hook/catalog"
	"github.com/fgrehm/hatch/internal/interrupt"
	"github.com/fgrehm/hatch/internal/network"
	"github.com/fgrehm/hatch/internal/task"
	"github.com/fgrehm/hatch/internal/ui"
)

// Options configures New.
type Options struct {
	// ProjectRoot is the directory holding the config file.
	ProjectRoot string

	// UserConfig is the parsed config file. Nil means an empty config.
	UserConfig *config.UserConfig

	// Plugins are the plugin descriptors to load, in order.
	Plugins []*hook.Plugin

	GlobalOptions config.GlobalOptions

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// Environment is the live state of one hatch run.
type Environment struct {
	Config        *config.Config
	UserConfig    *config.UserConfig
	GlobalOptions config.GlobalOptions

	Hooks         *hook.Manager
	Interruptions *interrupt.Manager
	Network       *network.Manager
	Artifacts     *artifacts.Store
	Tasks         *task.Manager
	UI            *ui.UI
	Logger        *slog.Logger

	// Extensions holds values plugins attach to the environment. It is
	// shared with every hook context.
	Extensions map[string]any
}

// New builds an environment. The user config runs through the
// extendUserConfig, validateUserConfig and resolveUserConfig hooks before
// anything else is set up; hre.created runs last.
func New(ctx context.Context, opts Options) (*Environment, error) {
	opts = withDefaults(opts)

	hooks, err := hook.NewManager(ctx, opts.ProjectRoot, opts.Plugins)
	if err != nil {
		return nil, err
	}

	uc, err := hook.RunChain(ctx, hooks, catalog.ExtendUserConfig, opts.UserConfig, keepUserConfig)
	if err != nil {
		return nil, fmt.Errorf("extending config: %w", err)
	}
	if uc == nil {
		uc = opts.UserConfig
	}

	if err := validate(ctx, hooks, uc); err != nil {
		return nil, err
	}

	args := catalog.ResolveArgs{ProjectRoot: opts.ProjectRoot, UserConfig: uc}
	cfg, err := hook.RunChain(ctx, hooks, catalog.ResolveUserConfig, args, resolveUserConfig)
	if err != nil {
		return nil, fmt.Errorf("resolving config: %w", err)
	}
	if cfg == nil {
		return nil, fmt.Errorf("resolving config: no config returned")
	}

	out := ui.New(opts.Stdout, opts.Stderr)
	env := &Environment{
		Config:        cfg,
		UserConfig:    uc,
		GlobalOptions: opts.GlobalOptions,
		Hooks:         hooks,
		Interruptions: interrupt.NewManager(hooks, out, opts.Stdin),
		Network:       network.NewManager(hooks, cfg, opts.GlobalOptions.Network, opts.Logger),
		Artifacts:     artifacts.NewStore(cfg.Paths.Artifacts),
		Tasks:         task.NewManager(),
		UI:            out,
		Logger:        opts.Logger,
		Extensions:    make(map[string]any),
	}
	if err := addBuiltinTasks(env); err != nil {
		return nil, err
	}
	hooks.SetContextSource(env)

	opts.Logger.Debug("environment ready", "root", cfg.Paths.Root, "plugins", len(hooks.Plugins()))
	if _, err := hook.RunSequential(ctx, hooks, catalog.Created, struct{}{}); err != nil {
		return nil, fmt.Errorf("running %s hooks: %w", catalog.Created, err)
	}
	return env, nil
}

// HookContext implements hook.ContextSource. The task manager is left out.
func (e *Environment) HookContext() *hook.Context {
	return &hook.Context{
		ProjectRoot:   e.Config.Paths.Root,
		Config:        e.Config,
		UserConfig:    e.UserConfig,
		GlobalOptions: e.GlobalOptions,
		Hooks:         e.Hooks,
		Interruptions: e.Interruptions,
		Network:       e.Network,
		Artifacts:     e.Artifacts,
		Logger:        e.Logger,
		Extensions:    e.Extensions,
	}
}

// Close releases the environment's network connections.
func (e *Environment) Close(ctx context.Context) error {
	return e.Network.CloseAll(ctx)
}

func withDefaults(opts Options) Options {
	if opts.UserConfig == nil {
		opts.UserConfig = &config.UserConfig{}
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return opts
}

// validate runs the builtin checks and every validateUserConfig handler and
// reports all problems together.
func validate(ctx context.Context, hooks *hook.Manager, uc *config.UserConfig) error {
	errs := config.Validate(uc)
	results, err := hook.RunParallel(ctx, hooks, catalog.ValidateUserConfig, uc)
	if err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	for _, r := range results {
		errs = append(errs, r...)
	}
	if len(errs) > 0 {
		return config.ValidationErrors(errs)
	}
	return nil
}

func keepUserConfig(_ context.Context, uc *config.UserConfig) (*config.UserConfig, error) {
	return uc, nil
}

func resolveUserConfig(_ context.Context, args catalog.ResolveArgs) (*config.Config, error) {
	return config.Resolve(args.ProjectRoot, args.UserConfig)
}
