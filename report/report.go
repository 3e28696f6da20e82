// Package report renders ranked candidates for the terminal or as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"
	"github.com/samber/lo"
	"github.com/vidscout/vidscout/icon"
	"github.com/vidscout/vidscout/registry"
	"github.com/vidscout/vidscout/style"
	"github.com/vidscout/vidscout/util"
)

const defaultWidth = 100

// Result is the ranked list of one context.
type Result struct {
	ContextID string               `json:"contextId"`
	Items     []registry.Candidate `json:"items"`
}

// JSON writes results as indented JSON.
func JSON(w io.Writer, results []Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// Plain writes results as a human-readable listing. Long URLs are cut to the
// terminal width.
func Plain(w io.Writer, results []Result) error {
	width := defaultWidth
	if tw, _, err := util.TerminalSize(); err == nil && tw > 20 {
		width = tw
	}

	colored := style.Enabled()
	paint := func(render func(string) string, s string) string {
		if !colored {
			return s
		}
		return render(s)
	}

	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n")
		}

		fmt.Fprintf(&b, "%s %s\n", paint(style.Bold, r.ContextID), paint(style.Faint, util.Quantify(len(r.Items), "candidate", "candidates")))

		if len(r.Items) == 0 {
			fmt.Fprintf(&b, "  %s\n", paint(style.Faint, "nothing playable found"))
			continue
		}

		for n, c := range r.Items {
			ic := icon.Get(icon.Video)
			if c.IsPlaylist {
				ic = icon.Get(icon.Playlist)
			}

			prefix := fmt.Sprintf("%2d. %s ", n+1, ic)
			fmt.Fprintf(&b, "%s%s\n", prefix, truncate.StringWithTail(c.URL, uint(max(width-len(prefix), 10)), "…"))
			fmt.Fprintf(&b, "    %s\n", strings.Join(details(c, paint), paint(style.Faint, " · ")))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func details(c registry.Candidate, paint func(func(string) string, string) string) []string {
	parts := []string{
		paint(style.Fg(style.SourceColor(c.Source)), string(c.Source)),
		fmt.Sprintf("score %d", c.Score),
	}

	if c.Quality != "" {
		parts = append(parts, c.Quality)
	}
	if c.Size > 0 {
		parts = append(parts, humanize.Bytes(uint64(c.Size)))
	}
	if c.ContentType != "" {
		parts = append(parts, c.ContentType)
	}
	if c.Title != "" {
		parts = append(parts, fmt.Sprintf("%q", c.Title))
	}
	if c.LowConfidence {
		parts = append(parts, paint(style.Fg(style.Yellow), "relayed"))
	}

	return lo.Filter(parts, func(s string, _ int) bool { return s != "" })
}
