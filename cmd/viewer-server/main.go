// Package main はヘッドレスな画像ビューア API サーバーを起動します。
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"

	"github.com/shouni/image-viewport-kit/pkg/cache/memory"
	"github.com/shouni/image-viewport-kit/pkg/config"
	"github.com/shouni/image-viewport-kit/pkg/probe"
	"github.com/shouni/image-viewport-kit/pkg/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("failed to serve", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	limits, err := cfg.Limits()
	if err != nil {
		return err
	}

	cache := memory.New(
		memory.WithExpiration(cfg.CacheTTL),
		memory.WithPurgeInterval(cfg.CachePurge),
	)
	opts := []probe.Option{
		probe.WithCache(cache, cfg.CacheTTL),
		probe.WithMaxBytes(cfg.MaxBytes),
		probe.WithMaxPixels(cfg.MaxPixels),
	}
	if cfg.PublicDir != "" {
		opts = append(opts, probe.WithLocalDir(cfg.PublicDir))
	}
	prober, err := probe.NewProber(httpkit.New(cfg.FetchTimeout), opts...)
	if err != nil {
		return fmt.Errorf("prober: %w", err)
	}

	srv, err := server.New(prober,
		server.WithLimits(limits),
		server.WithJPEGQuality(cfg.JPEGQuality),
		server.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("server: %w", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "viewer server listening", "addr", cfg.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	srv.Shutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("viewer server stopped")
	return nil
}
