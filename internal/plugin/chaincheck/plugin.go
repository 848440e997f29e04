// Package chaincheck makes sure configured chain IDs match the nodes hatch
// connects to.
package chaincheck

import (
	"context"
	"fmt"
	"sort"

	"github.com/fgrehm/hatch/internal/config"
	"github.com/fgrehm/hatch/internal/hook"
	"github.com/fgrehm/hatch/internal/hook/catalog"
	"github.com/fgrehm/hatch/internal/plugin/rpclog"
	"github.com/fgrehm/hatch/internal/rpc"
)

// ID is the plugin identifier.
const ID = "chain-check"

// Plugin validates chainId values in the config and checks eth_chainId on
// every new connection to a network that declares one. It depends on
// rpc-log so the check request shows up in the request log.
var Plugin = &hook.Plugin{
	ID:           ID,
	Dependencies: []hook.DependencyLoader{hook.Dependency(rpclog.Plugin)},
	HookHandlers: map[hook.Category]hook.HandlerLoader{
		hook.CategoryConfig: hook.Load(configHandlers),
		catalog.Network:     hook.Load(networkHandlers),
	},
}

// MismatchError is returned when a node reports a different chain ID than
// the one configured.
type MismatchError struct {
	Network string
	Want    int64
	Got     uint64
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("network %s: configured chainId %d but node reports %d", e.Network, e.Want, e.Got)
}

func configHandlers(context.Context) (hook.HandlerSet, error) {
	return catalog.ValidateUserConfig.Set(catalog.ValidateUserConfig.ConfigHandle(validate)), nil
}

func networkHandlers(context.Context) (hook.HandlerSet, error) {
	return catalog.NewConnection.Set(catalog.NewConnection.Chain(checkConnection)), nil
}

func validate(_ context.Context, uc *config.UserConfig) ([]config.ValidationError, error) {
	names := make([]string, 0, len(uc.Networks))
	for name := range uc.Networks {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []config.ValidationError
	for _, name := range names {
		if uc.Networks[name].ChainID < 0 {
			errs = append(errs, config.ValidationError{
				Path:    "networks." + name + ".chainId",
				Message: "must not be negative",
			})
		}
	}
	return errs, nil
}

func checkConnection(ctx context.Context, _ *hook.Context, args catalog.ConnectionArgs, next hook.Next[catalog.ConnectionArgs, *rpc.Connection]) (*rpc.Connection, error) {
	conn, err := next(ctx, args)
	if err != nil || conn == nil || args.Network.ChainID == 0 {
		return conn, err
	}

	raw, err := conn.Request(ctx, "eth_chainId")
	if err == nil {
		var got uint64
		got, err = rpc.DecodeQuantity(raw)
		if err == nil && got != uint64(args.Network.ChainID) {
			err = &MismatchError{Network: args.NetworkName, Want: args.Network.ChainID, Got: got}
		}
	}
	if err != nil {
		if conn.Transport != nil {
			_ = conn.Transport.Close()
		}
		return nil, err
	}
	return conn, nil
}
