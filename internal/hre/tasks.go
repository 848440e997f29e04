package hre

import (
	"context"
	"fmt"

	"github.com/fgrehm/hatch/internal/sources"
	"github.com/fgrehm/hatch/internal/task"
)

// Builtin task names.
const (
	TaskClean   = "clean"
	TaskSources = "sources"
)

func addBuiltinTasks(env *Environment) error {
	builtins := []*task.Task{
		{
			Name:        TaskClean,
			Description: "Remove all compilation artifacts",
			Action: func(ctx context.Context, _ []string) error {
				if err := env.Artifacts.Clean(ctx); err != nil {
					return err
				}
				env.UI.Success("Artifacts cleaned")
				return nil
			},
		},
		{
			Name:        TaskSources,
			Description: "List the Solidity sources of the project",
			Action: func(context.Context, []string) error {
				srcs, err := sources.Collect(env.Config.Paths.Sources, env.Config.Paths.Ignore)
				if err != nil {
					return err
				}
				if len(srcs) == 0 {
					env.UI.Dim("No sources in " + env.Config.Paths.Sources)
					return nil
				}
				rows := make([][]string, len(srcs))
				for i, s := range srcs {
					rows[i] = []string{s.Name, s.Hash[:12]}
				}
				env.UI.Table([]string{"SOURCE", "HASH"}, rows)
				env.UI.Dim(fmt.Sprintf("fingerprint %s", sources.Fingerprint(srcs)[:12]))
				return nil
			},
		},
	}
	for _, t := range builtins {
		if err := env.Tasks.Add(t); err != nil {
			return err
		}
	}
	return nil
}
