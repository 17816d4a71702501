package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salarydash/internal/api"
	"salarydash/internal/dataset"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	cfg, logger := a.cfg, a.logger

	// The API is live at once and answers 503 until the dataset is in.
	h := api.NewHandler(nil, cfg.EngineOptions())
	e := api.NewServer(cfg.Server, cfg.Logging.Level, h, logger)
	provider := dataset.NewProvider(cfg.Dataset.Path, cfg.Dataset.Columns, logger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("loading dataset in background", zap.String("path", provider.Path()))
		t0 := time.Now()
		if err := provider.Load(); err != nil {
			return err
		}
		h.SetData(provider.Store())
		logger.Info("dataset ready, API fully ready", zap.Duration("took", time.Since(t0)))

		if !cfg.Dataset.Watch {
			return nil
		}
		return provider.Watch(ctx, cfg.GetDebounce(), h.SetData)
	})

	g.Go(func() error {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := e.Start(cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
		defer cancel()
		logger.Info("shutting down")
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
