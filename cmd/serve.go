package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vidscout/vidscout/color"
	"github.com/vidscout/vidscout/engine"
	"github.com/vidscout/vidscout/icon"
	"github.com/vidscout/vidscout/key"
	"github.com/vidscout/vidscout/log"
	"github.com/vidscout/vidscout/server"
	"github.com/vidscout/vidscout/style"
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("addr", "a", "", "Listen address")
	lo.Must0(viper.BindPFlag(key.ServerAddress, serveCmd.Flags().Lookup("addr")))

	serveCmd.Flags().StringSlice("allow-origin", nil, `Origins allowed to connect, "*" for any`)
	lo.Must0(viper.BindPFlag(key.ServerAllowedOrigins, serveCmd.Flags().Lookup("allow-origin")))

	serveCmd.Flags().BoolP("verbose", "V", false, "Log to stderr")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Accept observations from a browser extension over a websocket",
	Long: `Start the websocket endpoint the browser extension talks to.

Every frame is a JSON envelope {"type": ..., "payload": ...}. Run
"vidscout schema" for the payload definitions.`,
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("verbose")) {
			handleErr(log.SetupWriter(os.Stderr))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		e, err := engine.FromConfig(ctx)
		handleErr(err)
		defer e.Close()

		go e.Watcher().Run(ctx)

		addr := viper.GetString(key.ServerAddress)
		srv := server.New(e, server.Options{
			Addr:           addr,
			AllowedOrigins: viper.GetStringSlice(key.ServerAllowedOrigins),
		})

		fmt.Printf("%s listening on %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Fg(color.Yellow)("ws://"+addr+"/ws"))
		handleErr(srv.ListenAndServe(ctx))
	},
}
