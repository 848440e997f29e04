package cmd

import (
	"github.com/fgrehm/hatch/internal/hook/catalog"
	"github.com/fgrehm/hatch/internal/hre"
	"github.com/spf13/cobra"
)

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "List hook points and whether the enabled plugins handle them",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnvironment(cmd.Context(), func(env *hre.Environment) error {
			u := env.UI
			var rows [][]string
			for _, p := range catalog.Points {
				has, err := env.Hooks.HasHandlers(cmd.Context(), p.Category, p.Name)
				if err != nil {
					return err
				}
				handled := "no"
				if has {
					handled = "yes"
				}
				rows = append(rows, []string{
					string(p.Category) + "." + p.Name,
					string(p.Strategy),
					u.Status(handled, has),
					p.Description,
				})
			}
			u.Table([]string{"POINT", "STRATEGY", "HANDLED", "DESCRIPTION"}, rows)
			return nil
		})
	},
}
