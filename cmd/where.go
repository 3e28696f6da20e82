package cmd

import (
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidscout/vidscout/color"
	"github.com/vidscout/vidscout/style"
	"github.com/vidscout/vidscout/where"
)

type whereTarget struct {
	name  string
	flag  string
	short string
	path  func() string
}

var whereTargets = []whereTarget{
	{"Config", "config", "c", where.Config},
	{"Extractors", "extractors", "e", where.Extractors},
	{"Logs", "logs", "l", where.Logs},
	{"Cache", "cache", "C", where.Cache},
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, t := range whereTargets {
		whereCmd.Flags().BoolP(t.flag, t.short, false, t.name+" path")
	}

	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(whereTargets, func(t whereTarget, _ int) string {
		return t.flag
	})...)

	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where vidscout keeps its files",
	Run: func(cmd *cobra.Command, args []string) {
		if t, ok := lo.Find(whereTargets, func(t whereTarget) bool {
			return lo.Must(cmd.Flags().GetBool(t.flag))
		}); ok {
			cmd.Println(t.path())
			return
		}

		header := style.New().Bold(true).Foreground(color.HiPurple).Render
		for i, t := range whereTargets {
			cmd.Printf("%s %s\n", header(t.name+"?"), style.Fg(color.Yellow)("--"+t.flag))
			cmd.Println(t.path())

			if i < len(whereTargets)-1 {
				cmd.Println()
			}
		}
	},
}
