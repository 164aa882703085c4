package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/storefront/internal/config"
	"github.com/kailas-cloud/storefront/internal/domain/search/order"
	"github.com/kailas-cloud/storefront/internal/observability"
	chiTransport "github.com/kailas-cloud/storefront/internal/transport/chi"
	healthuc "github.com/kailas-cloud/storefront/internal/usecase/health"
	searchuc "github.com/kailas-cloud/storefront/internal/usecase/search"
	"github.com/kailas-cloud/storefront/internal/version"
)

func newServeCmd(env *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the product API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), *env)
		},
	}
}

func serve(ctx context.Context, env string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, env)
	if err != nil {
		return err
	}
	defer a.close()
	cfg, logger := a.cfg, a.logger

	logger.Info("Starting storefront API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("index_driver", cfg.Index.Driver),
	)

	tp, err := observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: version.Version,
		Environment:    env,
		Endpoint:       cfg.Tracing.Endpoint,
		Insecure:       cfg.Tracing.Insecure,
		SampleRatio:    cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Tracer shutdown failed", zap.Error(err))
		}
	}()

	if err := a.repo.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}

	// The in-process index starts empty on every boot.
	if cfg.Index.Driver == config.DriverMemory {
		n, err := a.seeder().Run(ctx)
		if err != nil {
			return fmt.Errorf("seed memory index: %w", err)
		}
		logger.Info("Seeded in-memory catalogue", zap.Int("products", n))
	}

	searchSvc := searchuc.New(a.repo, order.Prices{
		Max: cfg.Query.MaxProductPrice,
		Avg: cfg.Query.AvgProductPrice,
	}, cfg.Query.TopK)
	healthSvc := healthuc.New(a.store)

	server := chiTransport.NewServer(searchSvc, healthSvc, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr: addr,
		Handler: server.Handler(chiTransport.Options{
			APIKeys:        cfg.Auth.APIKeys,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
		}),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	case <-quit:
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}
