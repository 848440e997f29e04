package hook

import (
	"context"
	"log/slog"

	"github.com/fgrehm/hatch/internal/artifacts"
	"github.com/fgrehm/hatch/internal/config"
	"github.com/fgrehm/hatch/internal/rpc"
)

// Context is handed to every non-configuration handler as its first domain
// argument. It exposes the live environment except the task runner, so
// handlers cannot start tasks reentrantly.
//
// One Context is built per top-level run call and shared by every handler of
// that run: changes a handler makes to it are seen by the handlers and the
// default implementation that run after it. Pointer fields refer to the
// environment's own values.
type Context struct {
	ProjectRoot   string
	Config        *config.Config
	UserConfig    *config.UserConfig
	GlobalOptions config.GlobalOptions
	Hooks         *Manager
	Interruptions Interruptions
	Network       Network
	Artifacts     *artifacts.Store
	Logger        *slog.Logger

	// Extensions holds values plugins attach to the environment.
	Extensions map[string]any
}

// ContextSource builds hook contexts from the current environment state.
type ContextSource interface {
	HookContext() *Context
}

// Interruptions lets handlers talk to the user.
type Interruptions interface {
	DisplayMessage(ctx context.Context, interruptor, message string) error
	RequestInput(ctx context.Context, interruptor, description string) (string, error)
	RequestSecretInput(ctx context.Context, interruptor, description string) (string, error)
}

// Network opens connections to configured networks.
type Network interface {
	Connect(ctx context.Context, name string) (*rpc.Connection, error)
}
