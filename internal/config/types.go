package config

import "time"

// UserConfig is the project configuration as written in hatch.toml or
// hatch.json, before defaults are applied.
type UserConfig struct {
	// DefaultNetwork is used when no --network flag is given.
	DefaultNetwork string `toml:"defaultNetwork" json:"defaultNetwork,omitempty"`

	// Plugins lists the IDs of the plugins to load, in order.
	Plugins []string `toml:"plugins" json:"plugins,omitempty"`

	Paths    PathsUserConfig              `toml:"paths" json:"paths,omitempty"`
	Solidity SolidityUserConfig           `toml:"solidity" json:"solidity,omitempty"`
	Networks map[string]NetworkUserConfig `toml:"networks" json:"networks,omitempty"`

	// Settings holds free-form per-plugin settings keyed by plugin ID.
	Settings map[string]map[string]any `toml:"settings" json:"settings,omitempty"`
}

// PathsUserConfig holds project paths, relative to the project root.
type PathsUserConfig struct {
	Sources   string   `toml:"sources" json:"sources,omitempty"`
	Tests     string   `toml:"tests" json:"tests,omitempty"`
	Artifacts string   `toml:"artifacts" json:"artifacts,omitempty"`
	Cache     string   `toml:"cache" json:"cache,omitempty"`
	Ignore    []string `toml:"ignore" json:"ignore,omitempty"`
}

// SolidityUserConfig selects the compiler.
type SolidityUserConfig struct {
	Version string `toml:"version" json:"version,omitempty"`
}

// NetworkUserConfig describes one JSON-RPC network.
type NetworkUserConfig struct {
	Type    string `toml:"type" json:"type,omitempty"`
	URL     Var    `toml:"url" json:"url,omitempty"`
	ChainID int64  `toml:"chainId" json:"chainId,omitempty"`
	Timeout string `toml:"timeout" json:"timeout,omitempty"`
}

// Config is the resolved project configuration.
type Config struct {
	DefaultNetwork string                    `json:"defaultNetwork"`
	Plugins        []string                  `json:"plugins"`
	Paths          Paths                     `json:"paths"`
	Solidity       Solidity                  `json:"solidity"`
	Networks       map[string]Network        `json:"networks"`
	Settings       map[string]map[string]any `json:"settings,omitempty"`
}

// Paths holds absolute project paths.
type Paths struct {
	Root      string   `json:"root"`
	Sources   string   `json:"sources"`
	Tests     string   `json:"tests"`
	Artifacts string   `json:"artifacts"`
	Cache     string   `json:"cache"`
	Ignore    []string `json:"ignore,omitempty"`
}

// Solidity is the resolved compiler selection.
type Solidity struct {
	Version string `json:"version"`
}

// Network is a resolved network. URL stays unresolved until a connection is
// opened, so variables are only read when needed.
type Network struct {
	Name    string        `json:"name"`
	Type    string        `json:"type"`
	URL     Var           `json:"url"`
	ChainID int64         `json:"chainId,omitempty"`
	Timeout time.Duration `json:"timeout"`
}

// GlobalOptions are the options given on the command line for one run.
type GlobalOptions struct {
	ConfigPath string
	Network    string
	Debug      bool
}
