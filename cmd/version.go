package cmd

import (
	"os"
	"runtime"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidscout/vidscout/color"
	"github.com/vidscout/vidscout/constant"
	"github.com/vidscout/vidscout/style"
	"github.com/vidscout/vidscout/version"
)

var versionTemplate = `{{ magenta "▇▇▇" }} {{ magenta .App }}

  {{ faint "Version" }}     {{ bold .Version }}
  {{ faint "Revision" }}    {{ bold .Revision }}
  {{ faint "Built" }}       {{ bold .BuiltAt }} {{ faint "by" }} {{ bold .BuiltBy }}
  {{ faint "Platform" }}    {{ bold .OS }}/{{ bold .Arch }}
  {{ faint "Go" }}          {{ bold .Go }}
`

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Only print the version number")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		defer version.Notify()

		t, err := template.New("version").Funcs(template.FuncMap{
			"faint":   style.Faint,
			"bold":    style.Bold,
			"magenta": style.Fg(color.Purple),
		}).Parse(versionTemplate)
		handleErr(err)

		handleErr(t.Execute(cmd.OutOrStdout(), map[string]string{
			"App":      constant.Vidscout,
			"Version":  constant.Version,
			"Revision": constant.Revision,
			"BuiltAt":  strings.TrimSpace(constant.BuiltAt),
			"BuiltBy":  constant.BuiltBy,
			"OS":       runtime.GOOS,
			"Arch":     runtime.GOARCH,
			"Go":       runtime.Version(),
		}))
	},
}
