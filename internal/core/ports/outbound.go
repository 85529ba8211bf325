package ports

import (
	"context"
	"io"

	"github.com/kirillkom/portfolio-feed/internal/core/domain"
)

// AssetSource enumerates image assets matching a category glob, ordered by source id.
type AssetSource interface {
	ListAssets(ctx context.Context, glob string) ([]domain.Asset, error)
}

// ObjectStorage stores and streams asset bytes.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes asset upload events.
type MessageQueue interface {
	PublishAssetUploaded(ctx context.Context, sourceID string) error
	SubscribeAssetUploaded(ctx context.Context, handler func(context.Context, string) error) error
}

// CatalogRepository persists the classified catalog snapshot.
type CatalogRepository interface {
	ReplaceCatalog(ctx context.Context, projects []domain.ProjectRecord) error
	ListProjects(ctx context.Context, filter domain.ProjectFilter) ([]domain.ProjectRecord, error)
}

// CatalogExporter renders a catalog snapshot into a downloadable document.
type CatalogExporter interface {
	Export(ctx context.Context, w io.Writer, projects []domain.ProjectRecord) error
}

// FeedObserver receives feed lifecycle notifications, typically for metrics.
type FeedObserver interface {
	FeedCreated(totalCount, displayed int)
	FeedRerolled(displayed int)
	ActiveSessions(n int)
}
