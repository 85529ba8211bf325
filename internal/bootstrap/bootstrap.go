package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/portfolio-feed/internal/config"
	"github.com/kirillkom/portfolio-feed/internal/core/ports"
	"github.com/kirillkom/portfolio-feed/internal/core/usecase"
	"github.com/kirillkom/portfolio-feed/internal/infrastructure/export/xlsx"
	"github.com/kirillkom/portfolio-feed/internal/infrastructure/queue/nats"
	"github.com/kirillkom/portfolio-feed/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/portfolio-feed/internal/infrastructure/resilience"
	"github.com/kirillkom/portfolio-feed/internal/infrastructure/storage/localfs"
)

// Core is the storage-only part of the application: enough to classify and
// sample the portfolio without Postgres or NATS.
type Core struct {
	Config    config.Config
	Portfolio config.Portfolio

	Classifier *usecase.Classifier
	Storage    *localfs.Storage
	Loader     *usecase.CatalogLoader
}

func NewCore(cfg config.Config) (*Core, error) {
	portfolio, err := cfg.Portfolio()
	if err != nil {
		return nil, fmt.Errorf("load portfolio config: %w", err)
	}
	classifier, err := usecase.NewClassifier(portfolio.Gazetteer)
	if err != nil {
		return nil, fmt.Errorf("init classifier: %w", err)
	}
	storage, err := localfs.New(cfg.AssetRoot)
	if err != nil {
		return nil, fmt.Errorf("init asset storage: %w", err)
	}
	return &Core{
		Config:     cfg,
		Portfolio:  portfolio,
		Classifier: classifier,
		Storage:    storage,
		Loader:     usecase.NewCatalogLoader(storage, classifier, portfolio.Categories),
	}, nil
}

type App struct {
	*Core

	Executor *resilience.Executor
	Queue    *nats.Queue

	Sessions *usecase.FeedSessionUseCase
	Catalog  ports.CatalogService
	Uploader ports.AssetUploader

	closeFn func()
}

type Option func(*appOptions)

type appOptions struct {
	feedObserver  ports.FeedObserver
	onBreakerMove func(operation, from, to string)
}

func WithFeedObserver(observer ports.FeedObserver) Option {
	return func(o *appOptions) { o.feedObserver = observer }
}

func WithBreakerObserver(fn func(operation, from, to string)) Option {
	return func(o *appOptions) { o.onBreakerMove = fn }
}

func New(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	var o appOptions
	for _, opt := range opts {
		opt(&o)
	}

	core, err := NewCore(cfg)
	if err != nil {
		return nil, err
	}

	resilienceCfg := resilience.DefaultConfig()
	resilienceCfg.RetryMaxAttempts = cfg.RetryMaxAttempts
	resilienceCfg.RetryInitialBackoff = cfg.RetryInitialBackoff
	resilienceCfg.BreakerEnabled = cfg.BreakerEnabled
	resilienceCfg.OnStateChange = func(operation, from, to string) {
		slog.Warn("circuit_breaker_state_change", "operation", operation, "from", from, "to", to)
		if o.onBreakerMove != nil {
			o.onBreakerMove(operation, from, to)
		}
	}
	executor := resilience.NewExecutor(resilienceCfg)

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewCatalogRepository(db, executor)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	sessions := usecase.NewFeedSessionUseCase(core.Storage, core.Portfolio.Categories, usecase.FeedSessionOptions{
		DisplaySize: cfg.FeedDisplaySize,
		SessionTTL:  cfg.FeedSessionTTL,
		MaxSessions: cfg.FeedMaxSessions,
		Classifier:  core.Classifier,
		Observer:    o.feedObserver,
	})
	catalog := usecase.NewCatalogUseCase(core.Loader, repo, xlsx.NewExporter())
	uploader := usecase.NewAssetUploadUseCase(core.Storage, queue, core.Portfolio.Categories)

	slog.Info("bootstrap_ready",
		"categories", len(core.Portfolio.Categories),
		"gazetteer", len(core.Portfolio.Gazetteer),
		"asset_root", cfg.AssetRoot,
	)

	return &App{
		Core:     core,
		Executor: executor,
		Queue:    queue,
		Sessions: sessions,
		Catalog:  catalog,
		Uploader: uploader,
		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
