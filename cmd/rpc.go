package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fgrehm/hatch/internal/hre"
	"github.com/spf13/cobra"
)

var rpcCmd = &cobra.Command{
	Use:   "rpc <method> [params...]",
	Short: "Send a JSON-RPC request to a network",
	Long: `Send a JSON-RPC request to the selected network and print the result.

Each param is decoded as JSON when possible and sent as a string otherwise,
so 'hatch rpc eth_getBalance 0xabc... latest' and
'hatch rpc eth_call '{"to":"0x..."}' latest' both work.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnvironment(cmd.Context(), func(env *hre.Environment) error {
			ctx := cmd.Context()
			conn, err := env.Network.Connect(ctx, networkFlag)
			if err != nil {
				return err
			}

			s := env.UI.StartSpinner(fmt.Sprintf("Calling %s on %s", args[0], conn.NetworkName))
			raw, err := conn.Request(ctx, args[0], parseParams(args[1:])...)
			logger.Debug("rpc call finished", "network", conn.NetworkName, "method", args[0], "duration", s.Stop())
			if err != nil {
				return err
			}

			var out bytes.Buffer
			if err := json.Indent(&out, raw, "", "  "); err != nil {
				out.Reset()
				out.Write(raw)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.String())
			return nil
		})
	},
}

// parseParams decodes each argument as JSON, falling back to the raw string.
func parseParams(args []string) []any {
	params := make([]any, len(args))
	for i, arg := range args {
		var v any
		if err := json.Unmarshal([]byte(arg), &v); err != nil {
			v = arg
		}
		params[i] = v
	}
	return params
}
