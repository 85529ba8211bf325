package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirillkom/portfolio-feed/internal/bootstrap"
	"github.com/kirillkom/portfolio-feed/internal/config"
	"github.com/kirillkom/portfolio-feed/internal/observability/logging"
	"github.com/kirillkom/portfolio-feed/internal/observability/metrics"
)

const serviceName = "portfolio-worker"

func main() {
	cfg := config.Load()
	logging.Install(serviceName, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           workerMetrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info("worker_metrics_listening", "addr", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("worker_metrics_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	slog.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeAssetUploaded(ctx, func(handlerCtx context.Context, sourceID string) error {
		refreshCtx, cancel := context.WithTimeout(handlerCtx, cfg.WorkerRefreshLimit)
		defer cancel()

		workerMetrics.StartRefresh()
		start := time.Now()
		count, err := app.Catalog.Refresh(refreshCtx)
		workerMetrics.FinishRefresh(serviceName, time.Since(start), count, err)
		if err != nil {
			return err
		}
		slog.Info("catalog_refresh_done", "source_id", sourceID, "projects", count)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}
}
