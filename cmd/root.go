package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fgrehm/hatch/internal/config"
	"github.com/fgrehm/hatch/internal/hre"
	"github.com/fgrehm/hatch/internal/plugin"
	"github.com/fgrehm/hatch/internal/project"
	"github.com/fgrehm/hatch/internal/ui"
	"github.com/spf13/cobra"
)

var (
	debugFlag   bool
	configFlag  string
	dirFlag     string
	networkFlag string
	logger      *slog.Logger
)

// Version variables injected at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Built   = "unknown"
)

var rootCmd = &cobra.Command{
	Use:     "hatch",
	Short:   "Smart contract tooling you can extend with plugins",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if debugFlag {
			level = slog.LevelDebug
		}
		logger = newLogger(level)

		// Apply .hatchrc defaults for flags not explicitly set by the user.
		flags := cmd.Root().PersistentFlags()
		if flags.Changed("config") && flags.Changed("network") {
			return nil
		}
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		rc, err := loadHatchRC(cwd)
		if err != nil {
			logger.Debug("could not load .hatchrc", "error", err)
			return nil
		}
		if rc == nil {
			return nil
		}
		if rc.Config != "" && !flags.Changed("config") && !flags.Changed("dir") {
			configFlag = rc.Config
			logger.Debug("loaded config path from .hatchrc", "path", rc.Config)
		}
		if rc.Network != "" && !flags.Changed("network") {
			networkFlag = rc.Network
			logger.Debug("loaded network from .hatchrc", "network", rc.Network)
		}
		return nil
	},
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "C", "", "config file (defaults to the nearest hatch.toml or hatch.json)")
	rootCmd.PersistentFlags().StringVarP(&dirFlag, "dir", "d", "", "project directory to operate on (defaults to current directory)")
	rootCmd.PersistentFlags().StringVarP(&networkFlag, "network", "n", "", "network to connect to (defaults to the config's defaultNetwork)")
	rootCmd.MarkFlagsMutuallyExclusive("config", "dir")
	rootCmd.SetVersionTemplate(fmt.Sprintf("hatch version %s\n", Version))
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(pluginsCmd)
	rootCmd.AddCommand(hooksCmd)
	rootCmd.AddCommand(rpcCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(artifactsCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command with signal handling.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger = newLogger(slog.LevelWarn)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		u := newUI()
		u.Error(err.Error())
		fmt.Fprintf(os.Stderr, "\nhatch %s (%s)\n", Version, Commit)
		os.Exit(1)
	}
}

// newLogger creates the stderr text logger with UTC timestamps.
func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.TimeValue(t.UTC())
				}
			}
			return a
		},
	}))
}

// newUI creates a UI that writes to stdout and stderr.
func newUI() *ui.UI {
	return ui.New(os.Stdout, os.Stderr)
}

// currentProject resolves the project from --config / .hatchrc, from an
// explicit project directory if --dir is set, or from the current
// directory.
func currentProject() (*project.Project, error) {
	switch {
	case configFlag != "":
		return project.ResolveConfig(configFlag)
	case dirFlag != "":
		return project.Resolve(dirFlag)
	default:
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		return project.Resolve(cwd)
	}
}

// newEnvironment loads the current project and builds its environment with
// the plugins its config enables.
func newEnvironment(ctx context.Context) (*hre.Environment, error) {
	p, err := currentProject()
	if err != nil {
		return nil, err
	}
	uc, err := parseConfig(p)
	if err != nil {
		return nil, err
	}
	plugins, err := plugin.Lookup(uc.Plugins)
	if err != nil {
		return nil, err
	}
	logger.Debug("loading project", "root", p.Root, "config", p.ConfigPath, "plugins", uc.Plugins)

	return hre.New(ctx, hre.Options{
		ProjectRoot: p.Root,
		UserConfig:  uc,
		Plugins:     plugins,
		GlobalOptions: config.GlobalOptions{
			ConfigPath: p.ConfigPath,
			Network:    networkFlag,
			Debug:      debugFlag,
		},
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: logger,
	})
}

func parseConfig(p *project.Project) (*config.UserConfig, error) {
	return config.Parse(p.ConfigPath)
}

// withEnvironment builds the environment, runs fn and closes the
// environment's connections afterwards.
func withEnvironment(ctx context.Context, fn func(env *hre.Environment) error) error {
	env, err := newEnvironment(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := env.Close(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("closing connections", "error", err)
		}
	}()
	return fn(env)
}

// versionString returns a formatted version string for display.
// For dev builds, includes commit and build timestamp.
func versionString() string {
	v := "hatch " + Version
	if strings.Contains(Version, "-dev") && Commit != "unknown" {
		v += " (" + Commit
		if Built != "unknown" {
			v += ", " + Built
		}
		v += ")"
	}
	return v
}
