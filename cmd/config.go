package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/fgrehm/hatch/internal/hre"
	"github.com/spf13/cobra"
)

var configJSONFlag bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved project configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnvironment(cmd.Context(), func(env *hre.Environment) error {
			if configJSONFlag {
				data, err := json.MarshalIndent(env.Config, "", "  ")
				if err != nil {
					return fmt.Errorf("marshaling config: %w", err)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			printConfig(env)
			return nil
		})
	},
}

func init() {
	configCmd.Flags().BoolVar(&configJSONFlag, "json", false, "print the config as JSON")
}

func printConfig(env *hre.Environment) {
	u := env.UI
	cfg := env.Config

	u.Header("Project")
	u.Keyval("root", cfg.Paths.Root)
	u.Keyval("config", env.GlobalOptions.ConfigPath)
	u.Keyval("sources", cfg.Paths.Sources)
	u.Keyval("tests", cfg.Paths.Tests)
	u.Keyval("artifacts", cfg.Paths.Artifacts)
	u.Keyval("cache", cfg.Paths.Cache)
	if cfg.Solidity.Version != "" {
		u.Keyval("solidity", cfg.Solidity.Version)
	}

	u.Header("Networks")
	names := make([]string, 0, len(cfg.Networks))
	for name := range cfg.Networks {
		names = append(names, name)
	}
	sort.Strings(names)

	var rows [][]string
	for _, name := range names {
		n := cfg.Networks[name]
		chainID := ""
		if n.ChainID != 0 {
			chainID = strconv.FormatInt(n.ChainID, 10)
		}
		label := name
		if name == env.Network.DefaultNetwork() {
			label += " *"
		}
		rows = append(rows, []string{label, n.Type, n.URL.String(), chainID, n.Timeout.String()})
	}
	u.Table([]string{"NETWORK", "TYPE", "URL", "CHAIN ID", "TIMEOUT"}, rows)
}
