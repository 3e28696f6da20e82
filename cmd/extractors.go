package cmd

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/user"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vidscout/vidscout/color"
	"github.com/vidscout/vidscout/constant"
	"github.com/vidscout/vidscout/detect/custom"
	"github.com/vidscout/vidscout/filesystem"
	"github.com/vidscout/vidscout/icon"
	"github.com/vidscout/vidscout/internal/scraper"
	"github.com/vidscout/vidscout/key"
	"github.com/vidscout/vidscout/network"
	"github.com/vidscout/vidscout/report"
	"github.com/vidscout/vidscout/style"
	"github.com/vidscout/vidscout/util"
	"github.com/vidscout/vidscout/where"
)

func loadExtractors() custom.Set {
	set, err := custom.LoadAll(where.Extractors())
	handleErr(err)
	return set
}

func completionExtractorNames(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	files, err := filesystem.API().ReadDir(where.Extractors())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	return lo.FilterMap(files, func(f os.FileInfo, _ int) (string, bool) {
		if filepath.Ext(f.Name()) != constant.ExtractorExtension {
			return "", false
		}
		return util.FileStem(f.Name()), true
	}), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(extractorsCmd)
}

var extractorsCmd = &cobra.Command{
	Use:     "extractors",
	Aliases: []string{"ext"},
	Short:   "Manage per-site Lua extractors",
}

func init() {
	extractorsCmd.AddCommand(extractorsListCmd)
	extractorsListCmd.Flags().BoolP("raw", "r", false, "Only print names")
	extractorsListCmd.SetOut(os.Stdout)
}

var extractorsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed extractors",
	Run: func(cmd *cobra.Command, args []string) {
		set := loadExtractors()
		defer set.Close()

		if lo.Must(cmd.Flags().GetBool("raw")) {
			for _, name := range set.Names() {
				cmd.Println(name)
			}
			return
		}

		if len(set) == 0 {
			cmd.Println(style.Faint("no extractors in " + where.Extractors()))
			return
		}

		for _, ex := range set {
			cmd.Printf("%s %s %s\n",
				icon.Get(icon.Lua),
				style.Bold(ex.Name()),
				style.Fg(style.SourceColor(ex.Tag()))(string(ex.Tag())),
			)
			cmd.Println("  " + style.Faint(ex.Path()))
		}
	},
}

func init() {
	extractorsCmd.AddCommand(extractorsGenCmd)

	extractorsGenCmd.Flags().StringP("name", "n", "", "Extractor name; a known site name gives it that site's tag")
	extractorsGenCmd.Flags().StringP("pattern", "p", "", "Substring of the page URLs it handles")

	lo.Must0(extractorsGenCmd.MarkFlagRequired("name"))
	lo.Must0(extractorsGenCmd.MarkFlagRequired("pattern"))
}

var extractorsGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Scaffold a new extractor script",
	Run: func(cmd *cobra.Command, args []string) {
		author := "anonymous"
		if u, err := user.Current(); err == nil {
			author = u.Username
		}

		s := struct {
			Name      string
			Pattern   string
			Author    string
			MatchFn   string
			ExtractFn string
		}{
			Name:      lo.Must(cmd.Flags().GetString("name")),
			Pattern:   lo.Must(cmd.Flags().GetString("pattern")),
			Author:    author,
			MatchFn:   constant.MatchFn,
			ExtractFn: constant.ExtractFn,
		}

		tmpl, err := template.New("extractor").Funcs(template.FuncMap{
			"repeat": strings.Repeat,
			"plus":   func(a, b int) int { return a + b },
			"max":    util.Max[int],
		}).Parse(constant.ExtractorTemplate)
		handleErr(err)

		target := filepath.Join(where.Extractors(), util.SanitizeFilename(s.Name)+constant.ExtractorExtension)
		if exists, _ := filesystem.API().Exists(target); exists {
			handleErr(fmt.Errorf("%s already exists", target))
		}

		f, err := filesystem.API().Create(target)
		handleErr(err)
		defer util.Ignore(f.Close)

		handleErr(tmpl.Execute(f, s))
		fmt.Println(target)
	},
}

func init() {
	extractorsCmd.AddCommand(extractorsInstallCmd)
	extractorsInstallCmd.Flags().StringP("name", "n", "", "Save under this name instead of the remote file name")
}

var extractorsInstallCmd = &cobra.Command{
	Use:   "install <url>...",
	Short: "Download extractors, or update them when they changed",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := lo.Must(cmd.Flags().GetString("name"))
		if name != "" && len(args) > 1 {
			handleErr(fmt.Errorf("--name needs exactly one url"))
		}

		client := network.For(viper.GetBool(key.NetworkFingerprint))

		for _, remote := range args {
			u, err := url.Parse(remote)
			handleErr(err)

			stem := name
			if stem == "" {
				stem = util.FileStem(path.Base(u.Path))
			}
			local := filepath.Join(where.Extractors(), util.SanitizeFilename(stem)+constant.ExtractorExtension)

			erase := util.PrintErasable(fmt.Sprintf("%s fetching %s", icon.Get(icon.Progress), remote))
			changed, err := scraper.Update(context.Background(), client, remote, local)
			erase()
			handleErr(err)

			if changed {
				fmt.Printf("%s installed %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Fg(color.Yellow)(stem))
			} else {
				fmt.Printf("%s %s is up to date\n", icon.Get(icon.Success), style.Fg(color.Yellow)(stem))
			}
		}
	},
}

func init() {
	extractorsCmd.AddCommand(extractorsRemoveCmd)
}

var extractorsRemoveCmd = &cobra.Command{
	Use:               "remove <name>...",
	Aliases:           []string{"rm"},
	Short:             "Delete installed extractors",
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completionExtractorNames,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range args {
			target := filepath.Join(where.Extractors(), name+constant.ExtractorExtension)
			handleErr(filesystem.API().Remove(target))
			fmt.Printf("%s removed %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(name))
		}
	},
}

func init() {
	extractorsCmd.AddCommand(extractorsRunCmd)
	extractorsRunCmd.Flags().BoolP("json", "j", false, "Print as JSON")
	extractorsRunCmd.SetOut(os.Stdout)
}

var extractorsRunCmd = &cobra.Command{
	Use:               "run <name> <page-url> <saved-page>",
	Short:             "Try one extractor against a saved page",
	Args:              cobra.ExactArgs(3),
	ValidArgsFunction: completionExtractorNames,
	Run: func(cmd *cobra.Command, args []string) {
		set := loadExtractors()
		defer set.Close()

		ex, ok := set.Find(args[0])
		if !ok {
			handleErr(fmt.Errorf("no extractor named %q", args[0]))
		}

		if ex.Name() != args[0] {
			cmd.Printf("%s using %s\n", style.Faint(icon.Get(icon.Progress)), style.Bold(ex.Name()))
		}

		pageURL := args[1]
		if !ex.Match(pageURL) {
			cmd.Printf("%s %s does not claim %s\n", style.Fg(color.Yellow)(icon.Get(icon.Fail)), ex.Name(), pageURL)
		}

		body, err := filesystem.API().ReadFile(args[2])
		handleErr(err)

		found, err := ex.Extract(pageURL, string(body))
		handleErr(err)

		results := []report.Result{{ContextID: ex.Name(), Items: found}}
		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(report.JSON(cmd.OutOrStdout(), results))
			return
		}

		handleErr(report.Plain(cmd.OutOrStdout(), results))
	},
}
