package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"sosdesk/internal/components"
	"sosdesk/internal/config"
)

func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		components.SetupLogger("local").Error("load config failed", "err", err)
		return err
	}
	logger := components.SetupLogger(cfg.Env)

	comps, err := components.InitComponents(ctx, cfg, logger)
	if err != nil {
		logger.Error("could not init components", "err", err)
		return err
	}
	defer comps.ShutdownAll()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer logger.Info("http server stopped")
		return comps.HttpServer.Run(gctx)
	})
	g.Go(func() error {
		return comps.Refresher.Run(gctx)
	})
	if comps.EventBus != nil {
		g.Go(func() error {
			err := comps.EventBus.Run(gctx, comps.Hub)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
	if comps.Sender != nil {
		g.Go(func() error {
			comps.Sender.Run(gctx)
			return nil
		})
	}

	logger.Info("service started", "env", cfg.Env)
	if err := g.Wait(); err != nil {
		logger.Error("service stopped with error", "err", err)
		return err
	}
	logger.Info("gracefully shut down")
	return nil
}
