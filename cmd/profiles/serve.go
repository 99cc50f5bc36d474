package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/querybind/core/config"
	"github.com/dmitrymomot/querybind/core/logger"
	"github.com/dmitrymomot/querybind/core/server"
	"github.com/dmitrymomot/querybind/internal/profile"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the profile directory HTTP server.

Examples:
  profiles serve
  profiles serve --addr=127.0.0.1:9000
  PROFILES_BIND_MODE=lenient profiles serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg appConfig
			if err := config.Load(&cfg); err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides SERVER_ADDR)")

	return cmd
}

func runServe(ctx context.Context, cfg appConfig) error {
	log := newLogger(cfg)
	logger.SetAsDefault(log)

	dir, err := loadDirectory(cfg)
	if err != nil {
		return err
	}

	r, err := newRouter(cfg, dir, log)
	if err != nil {
		return err
	}

	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "starting profiles",
		logger.Component("cmd"),
		logger.Mode(cfg.BindMode),
		logger.Count("profiles", dir.Len()),
		slog.Bool("watch", cfg.Watch && cfg.Fixture != ""),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Run(gctx, r))

	if cfg.Watch && cfg.Fixture != "" {
		g.Go(func() error {
			return profile.Watch(gctx, dir, cfg.Fixture, profile.DefaultReloadDebounce, log)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("profiles stopped with error", logger.Error(err))
		return err
	}
	return nil
}
