package cmd

import (
	"github.com/fgrehm/hatch/internal/hre"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [task] [args...]",
	Short: "Run a task, or list tasks when none is given",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnvironment(cmd.Context(), func(env *hre.Environment) error {
			if len(args) == 0 {
				var rows [][]string
				for _, t := range env.Tasks.List() {
					rows = append(rows, []string{t.Name, t.Description})
				}
				env.UI.Table([]string{"TASK", "DESCRIPTION"}, rows)
				return nil
			}
			return env.Tasks.Run(cmd.Context(), args[0], args[1:])
		})
	},
}
