package config

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"time"
)

// Defaults applied by Resolve.
const (
	DefaultSourcesDir   = "contracts"
	DefaultTestsDir     = "test"
	DefaultArtifactsDir = "artifacts"
	DefaultCacheDir     = "cache"
	DefaultNetworkName  = "localhost"
	DefaultLocalURL     = "http://127.0.0.1:8545"
	DefaultLocalChainID = 31337
	DefaultTimeout      = 20 * time.Second
	NetworkTypeHTTP     = "http"
)

// Resolve applies defaults to uc and makes paths absolute against root. It
// assumes uc passed Validate.
func Resolve(root string, uc *UserConfig) (*Config, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}
	if uc == nil {
		uc = &UserConfig{}
	}

	cfg := &Config{
		DefaultNetwork: uc.DefaultNetwork,
		Plugins:        slices.Clone(uc.Plugins),
		Paths: Paths{
			Root:      absRoot,
			Sources:   resolvePath(absRoot, uc.Paths.Sources, DefaultSourcesDir),
			Tests:     resolvePath(absRoot, uc.Paths.Tests, DefaultTestsDir),
			Artifacts: resolvePath(absRoot, uc.Paths.Artifacts, DefaultArtifactsDir),
			Cache:     resolvePath(absRoot, uc.Paths.Cache, DefaultCacheDir),
			Ignore:    slices.Clone(uc.Paths.Ignore),
		},
		Solidity: Solidity{Version: uc.Solidity.Version},
		Networks: make(map[string]Network, len(uc.Networks)+1),
		Settings: maps.Clone(uc.Settings),
	}
	if cfg.DefaultNetwork == "" {
		cfg.DefaultNetwork = DefaultNetworkName
	}

	cfg.Networks[DefaultNetworkName] = Network{
		Name:    DefaultNetworkName,
		Type:    NetworkTypeHTTP,
		URL:     Literal(DefaultLocalURL),
		ChainID: DefaultLocalChainID,
		Timeout: DefaultTimeout,
	}
	for name, n := range uc.Networks {
		resolved, err := resolveNetwork(name, n)
		if err != nil {
			return nil, err
		}
		cfg.Networks[name] = resolved
	}

	return cfg, nil
}

func resolveNetwork(name string, n NetworkUserConfig) (Network, error) {
	resolved := Network{
		Name:    name,
		Type:    n.Type,
		URL:     n.URL,
		ChainID: n.ChainID,
		Timeout: DefaultTimeout,
	}
	if resolved.Type == "" {
		resolved.Type = NetworkTypeHTTP
	}
	if n.Timeout != "" {
		d, err := time.ParseDuration(n.Timeout)
		if err != nil {
			return Network{}, fmt.Errorf("network %q: parsing timeout: %w", name, err)
		}
		resolved.Timeout = d
	}
	return resolved, nil
}

// resolvePath joins p to root unless it is already absolute. An empty p
// falls back to def.
func resolvePath(root, p, def string) string {
	if p == "" {
		p = def
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}
