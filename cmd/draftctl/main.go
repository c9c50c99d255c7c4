package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/formdraft/internal/buildinfo"
	"github.com/dmitrijs2005/formdraft/internal/client/cli"
	"github.com/dmitrijs2005/formdraft/internal/client/config"
	"github.com/dmitrijs2005/formdraft/internal/client/storage"
	"github.com/dmitrijs2005/formdraft/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()
	logger := logging.NewFromLevel(os.Stderr, cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	repo, closeFn, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeFn(); err != nil {
			logger.Error(ctx, "storage close failed", "error", err)
		}
	}()

	if cfg.Encrypt {
		if repo, err = cli.Unlock(ctx, repo, os.Stdout); err != nil {
			return err
		}
	}

	app, err := cli.NewApp(ctx, cfg, repo, logger)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		app.Run(ctx, os.Stdin)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logger.Info(context.Background(), "interrupted, shutting down")
	}
	return nil
}
