package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wbrown/img2braille"
	"github.com/wbrown/img2braille/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the conversion API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}

		var opts []server.Option
		if cfg.Preview.FontPath != "" {
			f, err := img2braille.LoadFont(cfg.Preview.FontPath)
			if err != nil {
				return err
			}
			opts = append(opts, server.WithFont(f))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		status("listening on http://%s", cfg.Addr())
		return server.New(cfg, logger, opts...).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8088, "port to listen on (overrides config)")
}
