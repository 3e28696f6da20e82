package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidscout/vidscout/engine"
	"github.com/vidscout/vidscout/filesystem"
	"github.com/vidscout/vidscout/log"
	"github.com/vidscout/vidscout/message"
	"github.com/vidscout/vidscout/report"
	"github.com/vidscout/vidscout/util"
)

// maxEventLine bounds a single JSONL record. Page snapshots can be large.
const maxEventLine = 16 << 20

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringSliceP("context", "c", nil, "Only report these contexts")
	scanCmd.Flags().IntP("limit", "l", 0, "Candidates per context, 0 uses detect.result_limit")
	scanCmd.Flags().BoolP("json", "j", false, "Print as JSON")
	scanCmd.Flags().BoolP("strict", "s", false, "Stop on the first malformed record")

	scanCmd.SetOut(os.Stdout)
}

var scanCmd = &cobra.Command{
	Use:   "scan <events.jsonl>",
	Short: "Replay recorded observations and print the ranked candidates",
	Long: `Replay a recording of extension messages, one JSON envelope per line,
through the detection engine and print what it would have answered.
Use "-" to read from standard input.`,
	Example: `  vidscout scan session.jsonl
  vidscout scan --json --context tab-3 session.jsonl`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var r io.Reader
		if args[0] == "-" {
			r = os.Stdin
		} else {
			f, err := filesystem.API().Open(args[0])
			handleErr(err)
			defer util.Ignore(f.Close)
			r = f
		}

		e, err := engine.FromConfig(context.Background())
		handleErr(err)
		defer e.Close()

		seen, err := replay(e, r, lo.Must(cmd.Flags().GetBool("strict")))
		handleErr(err)
		e.Wait()

		contexts := lo.Must(cmd.Flags().GetStringSlice("context"))
		if len(contexts) == 0 {
			contexts = seen
		}

		limit := lo.Must(cmd.Flags().GetInt("limit"))
		results := lo.Map(contexts, func(id string, _ int) report.Result {
			return report.Result{ContextID: id, Items: e.Registry().Query(id, limit)}
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(report.JSON(cmd.OutOrStdout(), results))
			return
		}

		handleErr(report.Plain(cmd.OutOrStdout(), results))
	},
}

// replay feeds every record to e and returns the contexts in order of first
// appearance. Location records trigger a navigation check right away, the
// same way the poll loop would have seen them.
func replay(e *engine.Engine, r io.Reader, strict bool) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64<<10), maxEventLine)

	var (
		contexts []string
		line     int
	)

	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		msg, err := message.Decode([]byte(text))
		if err != nil {
			if strict {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			log.Warnf("line %d: %s", line, err)
			continue
		}

		if id := contextOf(msg); id != "" && !lo.Contains(contexts, id) {
			contexts = append(contexts, id)
		}

		if _, err := e.Handle(msg); err != nil {
			if strict {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			log.Warnf("line %d: %s", line, err)
			continue
		}

		if _, ok := msg.(*message.Location); ok {
			e.Watcher().Check()
		}
	}

	return contexts, scanner.Err()
}

func contextOf(msg any) string {
	switch m := msg.(type) {
	case *message.ObservedResponse:
		return m.ContextID
	case *message.RawCandidate:
		return m.ContextID
	case *message.DOMRecord:
		return m.ContextID
	case *message.PageSnapshot:
		return m.ContextID
	case *message.EmbeddedData:
		return m.ContextID
	case *message.Location:
		return m.ContextID
	default:
		return ""
	}
}
