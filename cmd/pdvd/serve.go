package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/adrestia/pdv/pkg/config"
	"github.com/adrestia/pdv/pkg/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the PDV HTTP service",
	Long: `Start the PDV HTTP service.

The results location is created if it does not exist. The service runs
until interrupted (Ctrl+C) or it receives SIGTERM.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := setupLogging(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Errorf("Failed to provision results store: %v", err)
		return err
	}
	defer st.Close()

	srv := server.NewServer(st, version, logger,
		server.WithAddr(cfg.Addr()),
		server.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.ListenAndServe)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	logger.Info("Server is running. Press Ctrl+C to stop.")
	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	logger.Info("Server stopped.")
	return nil
}
