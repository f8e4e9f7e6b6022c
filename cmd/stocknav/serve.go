package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/stocknav/internal/config"
	"github.com/vango-dev/stocknav/internal/errors"
	"github.com/vango-dev/stocknav/pkg/server"
)

func serveCmd(g *globalFlags) *cobra.Command {
	var (
		addr      string
		staticDir string
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the app shell and navigation endpoints",
		Long: `Serve the app shell, the resolve API and live navigation sessions.

In path history mode every location a route matches is answered with the
shell so deep links survive a reload. In hash mode only the base path is.

Examples:
  stocknav serve
  stocknav serve --addr=:3000 --static=dist
  stocknav serve --history=path --base=/app`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := &config.Config{
				Server: config.ServerConfig{
					Addr:           addr,
					StaticDir:      staticDir,
					DisableMetrics: noMetrics,
				},
			}
			a, err := loadApp(g, flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			srv, err := server.New(server.ConfigFrom(a.cfg), a.resolver, server.WithLogger(a.logger))
			if err != nil {
				return errors.New("E401").Wrap(err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, srv)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from stocknav.toml, :8080)")
	cmd.Flags().StringVar(&staticDir, "static", "", "Directory of static files and index.html")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "Disable the /metrics endpoint")

	return cmd
}

func runServer(ctx context.Context, srv *server.Server) error {
	if err := srv.Run(ctx); err != nil {
		if ctx.Err() != nil {
			return errors.New("E402").Wrap(err)
		}
		return errors.New("E401").Wrap(err)
	}
	return nil
}
