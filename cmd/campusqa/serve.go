package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	chiTransport "github.com/peroute/hackwest-project/internal/transport/chi"
	"github.com/peroute/hackwest-project/internal/usecase/retention"
	"github.com/peroute/hackwest-project/internal/version"
)

func serveCMD(env *string) *cobra.Command {
	var port int

	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, *env)
			if err != nil {
				return err
			}
			defer a.close()

			if port > 0 {
				a.cfg.HTTP.Port = port
			}
			return a.serve(ctx)
		},
	}
	serve.Flags().IntVar(&port, "port", 0, "listen port (overrides http.port)")

	return serve
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	logger := a.logger

	logger.Info("Starting campusqa API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", a.env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_dialect", string(a.db.Dialect())),
		zap.String("docstore", cfg.DocStore.Driver),
		zap.String("embedding_provider", cfg.Embedding.Provider),
		zap.String("ai_provider", cfg.AI.Provider),
	)

	if cfg.Retention.Enabled {
		ret, err := retention.New(a.conversation, cfg.Retention.Schedule, cfg.Retention.KeepCount, logger)
		if err != nil {
			return fmt.Errorf("retention: %w", err)
		}
		go ret.Run(ctx)
		logger.Info("Retention scheduler started",
			zap.String("schedule", cfg.Retention.Schedule),
			zap.Int("keep", cfg.Retention.KeepCount),
		)
	}

	server := chiTransport.NewServer(a.ask, a.catalog, a.users, a.analytics, a.health, logger).
		WithMaxUploadMB(cfg.HTTP.MaxUploadMB)
	handler := chiTransport.NewRouter(server, chiTransport.RouterOptions{
		APIKeys:     cfg.HTTP.APIKeys,
		CORSOrigins: cfg.HTTP.CORSOrigins,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
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
