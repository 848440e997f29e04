package cmd

import (
	"github.com/fgrehm/hatch/internal/hre"
	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the Solidity sources of the project",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnvironment(cmd.Context(), func(env *hre.Environment) error {
			return env.Tasks.Run(cmd.Context(), hre.TaskSources, args)
		})
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove compilation artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnvironment(cmd.Context(), func(env *hre.Environment) error {
			return env.Tasks.Run(cmd.Context(), hre.TaskClean, args)
		})
	},
}
