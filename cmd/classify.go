package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidscout/vidscout/color"
	"github.com/vidscout/vidscout/engine"
	"github.com/vidscout/vidscout/icon"
	"github.com/vidscout/vidscout/normalize"
	"github.com/vidscout/vidscout/score"
	"github.com/vidscout/vidscout/source"
	"github.com/vidscout/vidscout/style"
)

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().Int64P("size", "z", 0, "Declared size in bytes")
	classifyCmd.Flags().StringP("content-type", "t", "", "Declared content type")
	classifyCmd.Flags().StringP("source", "S", string(source.WebRequest), "Source tag the URL was found by")
	classifyCmd.Flags().StringP("quality", "q", "", "Quality label, e.g. 720p")
	classifyCmd.Flags().Bool("sources", false, "List source tags with their priority and exit")

	lo.Must0(classifyCmd.RegisterFlagCompletionFunc("source", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(source.All(), func(t source.Tag, _ int) string {
			return string(t)
		}), cobra.ShellCompDirectiveNoFileComp
	}))

	classifyCmd.SetOut(os.Stdout)
}

var classifyCmd = &cobra.Command{
	Use:   "classify <url>",
	Short: "Explain how a single URL would be judged and scored",
	Args: func(cmd *cobra.Command, args []string) error {
		if lo.Must(cmd.Flags().GetBool("sources")) {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("sources")) {
			for _, t := range source.All() {
				cmd.Printf("%-12s %3d\n", style.Fg(style.SourceColor(t))(string(t)), source.Priority(t))
			}
			return
		}

		var (
			raw         = args[0]
			size        = lo.Must(cmd.Flags().GetInt64("size"))
			contentType = lo.Must(cmd.Flags().GetString("content-type"))
			tag         = source.Tag(lo.Must(cmd.Flags().GetString("source")))
			quality     = lo.Must(cmd.Flags().GetString("quality"))
		)

		if normalize.Ignored(raw) {
			handleErr(fmt.Errorf("%s is never tracked", raw))
		}

		if !source.Known(tag) {
			cmd.Printf("%s unknown source %s has priority 0\n", style.Fg(color.Yellow)(icon.Get(icon.Fail)), tag)
		}

		playable := engine.ClassifierFromConfig().IsPlayable(raw, contentType, size, tag)
		verdict := style.Fg(color.Red)("rejected")
		if playable {
			verdict = style.Fg(color.Green)("playable")
		}

		row := func(k string, v any) {
			cmd.Printf("  %s %v\n", style.Faint(fmt.Sprintf("%-10s", k)), v)
		}

		cmd.Println(style.Bold(normalize.URL(raw)))
		row("verdict", verdict)
		row("source", fmt.Sprintf("%s (%d)", tag, source.Priority(tag)))
		if size > 0 {
			row("size", humanize.Bytes(uint64(size)))
		}
		if contentType != "" {
			row("type", strings.ToLower(contentType))
		}
		if playable {
			row("score", score.New().Score(score.Input{
				URL:     raw,
				Size:    size,
				Source:  tag,
				Quality: quality,
			}))
		}
	},
}
