package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidscout/vidscout/message"
)

func init() {
	rootCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().StringP("type", "t", "", "Only print the schema of this message type")
	lo.Must0(schemaCmd.RegisterFlagCompletionFunc("type", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(message.Types(), func(t message.Type, _ int) string {
			return string(t)
		}), cobra.ShellCompDirectiveNoFileComp
	}))

	schemaCmd.SetOut(os.Stdout)
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the websocket messages",
	Run: func(cmd *cobra.Command, args []string) {
		var v any = message.Schemas()

		if t := lo.Must(cmd.Flags().GetString("type")); t != "" {
			s, ok := message.Schema(message.Type(t))
			if !ok {
				handleErr(fmt.Errorf("unknown message type %q", t))
			}
			v = s
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		handleErr(enc.Encode(v))
	},
}
