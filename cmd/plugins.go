package cmd

import (
	"errors"
	"slices"
	"strings"

	"github.com/fgrehm/hatch/internal/hook"
	"github.com/fgrehm/hatch/internal/plugin"
	"github.com/fgrehm/hatch/internal/project"
	"github.com/spf13/cobra"
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List builtin plugins and the load order of enabled ones",
	RunE: func(cmd *cobra.Command, args []string) error {
		u := newUI()

		enabled, err := enabledPlugins()
		if err != nil {
			return err
		}

		var rows [][]string
		for _, b := range plugin.Builtins() {
			on := slices.Contains(enabled, b.Plugin.ID)
			state := "no"
			if on {
				state = "yes"
			}
			rows = append(rows, []string{b.Plugin.ID, u.Status(state, on), b.Description})
		}
		u.Table([]string{"PLUGIN", "ENABLED", "DESCRIPTION"}, rows)

		if len(enabled) == 0 {
			return nil
		}
		plugins, err := plugin.Lookup(enabled)
		if err != nil {
			return err
		}
		ordered, err := hook.ResolvePlugins(cmd.Context(), plugins)
		if err != nil {
			return err
		}
		ids := make([]string, len(ordered))
		for i, p := range ordered {
			ids[i] = p.ID
		}
		u.Dim("load order: " + strings.Join(ids, ", "))
		return nil
	},
}

// enabledPlugins returns the plugin IDs of the current project's config, or
// nothing outside a project.
func enabledPlugins() ([]string, error) {
	p, err := currentProject()
	if errors.Is(err, project.ErrNoProject) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	uc, err := parseConfig(p)
	if err != nil {
		return nil, err
	}
	return uc.Plugins, nil
}
