// Package catalog declares the hook points hatch runs.
package catalog

import (
	"github.com/fgrehm/hatch/internal/config"
	"github.com/fgrehm/hatch/internal/hook"
	"github.com/fgrehm/hatch/internal/rpc"
)

// Categories.
const (
	ConfigurationVariables hook.Category = "configurationVariables"
	UserInterruptions      hook.Category = "userInterruptions"
	HRE                    hook.Category = "hre"
	Network                hook.Category = "network"
)

// ResolveArgs is the input of the resolveUserConfig chain.
type ResolveArgs struct {
	ProjectRoot string
	UserConfig  *config.UserConfig
}

// MessageArgs is the input of displayMessage.
type MessageArgs struct {
	Interruptor string
	Message     string
}

// InputArgs is the input of requestInput and requestSecretInput.
type InputArgs struct {
	Interruptor string
	Description string
}

// ConnectionArgs is the input of newConnection.
type ConnectionArgs struct {
	NetworkName string
	Network     config.Network
}

// RequestArgs is the input of onRequest.
type RequestArgs struct {
	Conn    *rpc.Connection
	Request *rpc.Request
}

// config
var (
	ExtendUserConfig   = hook.NewPoint[*config.UserConfig, *config.UserConfig](hook.CategoryConfig, "extendUserConfig")
	ValidateUserConfig = hook.NewPoint[*config.UserConfig, []config.ValidationError](hook.CategoryConfig, "validateUserConfig")
	ResolveUserConfig  = hook.NewPoint[ResolveArgs, *config.Config](hook.CategoryConfig, "resolveUserConfig")
)

// configurationVariables
var FetchValue = hook.NewPoint[config.Var, string](ConfigurationVariables, "fetchValue")

// userInterruptions
var (
	DisplayMessage     = hook.NewPoint[MessageArgs, struct{}](UserInterruptions, "displayMessage")
	RequestInput       = hook.NewPoint[InputArgs, string](UserInterruptions, "requestInput")
	RequestSecretInput = hook.NewPoint[InputArgs, string](UserInterruptions, "requestSecretInput")
)

// hre
var Created = hook.NewPoint[struct{}, struct{}](HRE, "created")

// network
var (
	NewConnection   = hook.NewPoint[ConnectionArgs, *rpc.Connection](Network, "newConnection")
	OnRequest       = hook.NewPoint[RequestArgs, *rpc.Response](Network, "onRequest")
	CloseConnection = hook.NewPoint[*rpc.Connection, struct{}](Network, "closeConnection")
)

// Strategy names how a point's handlers are run.
type Strategy string

const (
	StrategyChain      Strategy = "chain"
	StrategySequential Strategy = "sequential"
	StrategyParallel   Strategy = "parallel"
)

// PointInfo describes a point for listing.
type PointInfo struct {
	Category    hook.Category
	Name        string
	Strategy    Strategy
	Description string
}

// Points lists every point in this package, grouped by category.
var Points = []PointInfo{
	{hook.CategoryConfig, ExtendUserConfig.Name, StrategyChain, "extend the user config before validation"},
	{hook.CategoryConfig, ValidateUserConfig.Name, StrategyParallel, "report user config errors"},
	{hook.CategoryConfig, ResolveUserConfig.Name, StrategyChain, "resolve the user config into the final config"},
	{ConfigurationVariables, FetchValue.Name, StrategyChain, "fetch the value of a configuration variable"},
	{UserInterruptions, DisplayMessage.Name, StrategyChain, "show a message to the user"},
	{UserInterruptions, RequestInput.Name, StrategyChain, "ask the user for input"},
	{UserInterruptions, RequestSecretInput.Name, StrategyChain, "ask the user for a secret"},
	{HRE, Created.Name, StrategySequential, "runs once the environment is ready"},
	{Network, NewConnection.Name, StrategyChain, "open a network connection"},
	{Network, OnRequest.Name, StrategyChain, "JSON-RPC request middleware"},
	{Network, CloseConnection.Name, StrategyChain, "close a network connection"},
}
