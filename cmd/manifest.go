package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vidscout/vidscout/color"
	"github.com/vidscout/vidscout/config"
	"github.com/vidscout/vidscout/filesystem"
	"github.com/vidscout/vidscout/key"
	"github.com/vidscout/vidscout/manifest"
	"github.com/vidscout/vidscout/network"
	"github.com/vidscout/vidscout/style"
)

func init() {
	rootCmd.AddCommand(manifestCmd)

	manifestCmd.Flags().StringP("url", "u", "", "URL the playlist was served from, used to resolve relative variants")
	manifestCmd.Flags().StringToStringP("header", "H", nil, "Extra request header, e.g. -H Referer=https://example.com/")
	manifestCmd.Flags().BoolP("json", "j", false, "Print as JSON")

	manifestCmd.SetOut(os.Stdout)
}

var manifestCmd = &cobra.Command{
	Use:   "manifest <file|url>",
	Short: "List the variant streams of an HLS playlist",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var (
			target  = args[0]
			baseURL = lo.Must(cmd.Flags().GetString("url"))
			body    string
		)

		if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
			fetcher := manifest.NewFetcher(manifest.FetcherOptions{
				Client:  network.For(viper.GetBool(key.NetworkFingerprint)),
				Timeout: config.Duration(key.ManifestFetchTimeout),
				MaxBody: viper.GetInt64(key.ManifestMaxBody),
			})

			var err error
			body, err = fetcher.Fetch(context.Background(), target, lo.Must(cmd.Flags().GetStringToString("header")))
			handleErr(err)

			if baseURL == "" {
				baseURL = target
			}
		} else {
			data, err := filesystem.API().ReadFile(target)
			handleErr(err)
			body = string(data)
		}

		variants := manifest.Parse(body, baseURL)
		if variants == nil {
			handleErr(errors.New("not an HLS playlist"))
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			handleErr(enc.Encode(variants))
			return
		}

		for _, v := range variants {
			quality := v.Quality
			if quality == "" {
				quality = "?"
			}
			cmd.Printf("%s %s\n", style.Fg(color.Yellow)(quality), v.URL)
		}
	},
}
