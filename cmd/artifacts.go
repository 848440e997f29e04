package cmd

import (
	"fmt"

	"github.com/fgrehm/hatch/internal/hre"
	"github.com/spf13/cobra"
)

var artifactsCmd = &cobra.Command{
	Use:   "artifacts",
	Short: "List compilation artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnvironment(cmd.Context(), func(env *hre.Environment) error {
			u := env.UI

			names, err := env.Artifacts.List()
			if err != nil {
				return err
			}

			if len(names) == 0 {
				u.Dim("No artifacts")
				return nil
			}

			headers := []string{"CONTRACT", "SOURCE"}
			var rows [][]string
			for _, name := range names {
				a, err := env.Artifacts.Load(name)
				if err != nil {
					rows = append(rows, []string{name, fmt.Sprintf("(error: %v)", err)})
					continue
				}
				rows = append(rows, []string{a.ContractName, a.SourceName})
			}
			u.Table(headers, rows)

			return nil
		})
	},
}
