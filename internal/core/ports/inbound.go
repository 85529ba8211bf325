package ports

import (
	"context"
	"io"

	"github.com/kirillkom/portfolio-feed/internal/core/domain"
)

// FeedService is the inbound contract for per-session portfolio feeds.
type FeedService interface {
	CreateFeed(ctx context.Context) (domain.FeedSnapshot, error)
	GetFeed(ctx context.Context, sessionID string) (domain.FeedSnapshot, error)
	Reroll(ctx context.Context, sessionID string) (domain.FeedSnapshot, error)
	DeleteFeed(ctx context.Context, sessionID string) error
}

// AssetUploader is the inbound contract for adding project photos.
type AssetUploader interface {
	Upload(ctx context.Context, category, filename string, body io.Reader) (domain.Asset, error)
}

// CatalogService exposes the persisted catalog snapshot.
type CatalogService interface {
	Refresh(ctx context.Context) (int, error)
	ListProjects(ctx context.Context, filter domain.ProjectFilter) ([]domain.ProjectRecord, error)
	Export(ctx context.Context, w io.Writer) error
}
