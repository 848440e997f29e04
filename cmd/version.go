package cmd

import (
	"runtime"
	"strings"

	"github.com/fgrehm/hatch/internal/plugin"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information and the builtin plugins",
	Run: func(cmd *cobra.Command, args []string) {
		u := newUI()
		u.Header(versionString())
		u.Keyval("commit", Commit)
		u.Keyval("built", Built)
		u.Keyval("go", runtime.Version())
		u.Keyval("platform", runtime.GOOS+"/"+runtime.GOARCH)
		u.Keyval("plugins", strings.Join(builtinIDs(), ", "))
	},
}

// builtinIDs returns the IDs of the plugins compiled into this binary.
func builtinIDs() []string {
	builtins := plugin.Builtins()
	ids := make([]string, len(builtins))
	for i, b := range builtins {
		ids[i] = b.Plugin.ID
	}
	return ids
}
