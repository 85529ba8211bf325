package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/netutil"

	httpadapter "github.com/kirillkom/portfolio-feed/internal/adapters/http"
	"github.com/kirillkom/portfolio-feed/internal/bootstrap"
	"github.com/kirillkom/portfolio-feed/internal/config"
	"github.com/kirillkom/portfolio-feed/internal/observability/logging"
	"github.com/kirillkom/portfolio-feed/internal/observability/metrics"
)

const serviceName = "portfolio-api"

func main() {
	cfg := config.Load()
	logging.Install(serviceName, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpMetrics := metrics.NewHTTPServerMetrics(serviceName)
	app, err := bootstrap.New(ctx, cfg,
		bootstrap.WithFeedObserver(httpMetrics),
		bootstrap.WithBreakerObserver(httpMetrics.RecordBreakerTransition),
	)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	refreshCtx, cancelRefresh := context.WithTimeout(ctx, cfg.WorkerRefreshLimit)
	if count, err := app.Catalog.Refresh(refreshCtx); err != nil {
		slog.Warn("initial_catalog_refresh_failed", "error", err)
	} else {
		slog.Info("initial_catalog_refresh", "projects", count)
	}
	cancelRefresh()

	go app.Sessions.RunJanitor(ctx, time.Minute)

	router := httpadapter.NewRouter(cfg, app.Sessions, app.Catalog, app.Uploader, app.Storage).Handler()
	mux := http.NewServeMux()
	mux.Handle("/metrics", httpMetrics.Handler())
	mux.Handle("/", httpMetrics.Middleware(router))

	server := &http.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	listener, err := net.Listen("tcp", server.Addr)
	if err != nil {
		slog.Error("api_listen_failed", "addr", server.Addr, "error", err)
		os.Exit(1)
	}
	if cfg.APIMaxConns > 0 {
		listener = netutil.LimitListener(listener, cfg.APIMaxConns)
	}

	go func() {
		slog.Info("api_listening", "addr", server.Addr, "max_conns", cfg.APIMaxConns)
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("api_server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("api_shutdown_failed", "error", err)
	}
}
