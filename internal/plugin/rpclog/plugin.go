// Package rpclog logs every JSON-RPC request sent through a network
// connection.
package rpclog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fgrehm/hatch/internal/hook"
	"github.com/fgrehm/hatch/internal/hook/catalog"
	"github.com/fgrehm/hatch/internal/rpc"
)

// ID is the plugin identifier.
const ID = "rpc-log"

// Plugin logs requests at the level given by the "level" setting
// (debug, info, warn or error; debug by default). Failed requests are
// always logged at warn.
var Plugin = &hook.Plugin{
	ID: ID,
	HookHandlers: map[hook.Category]hook.HandlerLoader{
		catalog.Network: hook.Load(handlers),
	},
}

func handlers(context.Context) (hook.HandlerSet, error) {
	return catalog.OnRequest.Set(catalog.OnRequest.Chain(logRequest)), nil
}

func logRequest(ctx context.Context, hc *hook.Context, args catalog.RequestArgs, next hook.Next[catalog.RequestArgs, *rpc.Response]) (*rpc.Response, error) {
	logger := hc.Logger
	if logger == nil {
		logger = slog.Default()
	}

	start := time.Now()
	resp, err := next(ctx, args)
	attrs := []any{
		"network", args.Conn.NetworkName,
		"method", args.Request.Method,
		"id", args.Request.ID,
		"duration", time.Since(start).Round(time.Microsecond),
	}

	switch {
	case err != nil:
		logger.Log(ctx, slog.LevelWarn, "rpc request failed", append(attrs, "error", err)...)
	case resp != nil && resp.Error != nil:
		logger.Log(ctx, level(hc), "rpc request", append(attrs, "rpcError", resp.Error.Message)...)
	default:
		logger.Log(ctx, level(hc), "rpc request", attrs...)
	}
	return resp, err
}

// level reads the "level" setting of the plugin.
func level(hc *hook.Context) slog.Level {
	if hc.Config == nil {
		return slog.LevelDebug
	}
	s, ok := hc.Config.Settings[ID]["level"].(string)
	if !ok {
		return slog.LevelDebug
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelDebug
	}
	return l
}
