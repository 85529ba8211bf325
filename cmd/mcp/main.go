package main

import (
	"log/slog"
	"os"

	mcpadapter "github.com/kirillkom/portfolio-feed/internal/adapters/mcp"
	"github.com/kirillkom/portfolio-feed/internal/bootstrap"
	"github.com/kirillkom/portfolio-feed/internal/config"
	"github.com/kirillkom/portfolio-feed/internal/observability/logging"
)

const serviceName = "portfolio-mcp"

func main() {
	cfg := config.Load()
	logging.InstallStderr(serviceName, cfg.LogLevel)

	core, err := bootstrap.NewCore(cfg)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}

	server := mcpadapter.New(mcpadapter.Catalog{
		Source:      core.Storage,
		Categories:  core.Portfolio.Categories,
		Classifier:  core.Classifier,
		DisplaySize: cfg.FeedDisplaySize,
	})
	if err := server.Serve(); err != nil {
		slog.Error("mcp_serve_failed", "error", err)
		os.Exit(1)
	}
}
