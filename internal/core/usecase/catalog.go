package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/kirillkom/portfolio-feed/internal/core/domain"
	"github.com/kirillkom/portfolio-feed/internal/core/ports"
)

type CatalogUseCase struct {
	loader   *CatalogLoader
	repo     ports.CatalogRepository
	exporter ports.CatalogExporter
}

func NewCatalogUseCase(
	loader *CatalogLoader,
	repo ports.CatalogRepository,
	exporter ports.CatalogExporter,
) *CatalogUseCase {
	return &CatalogUseCase{
		loader:   loader,
		repo:     repo,
		exporter: exporter,
	}
}

// Refresh reclassifies every configured category and replaces the persisted snapshot.
func (uc *CatalogUseCase) Refresh(ctx context.Context) (int, error) {
	start := time.Now()
	projects, err := uc.loader.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load catalog: %w", err)
	}
	if err := uc.repo.ReplaceCatalog(ctx, projects); err != nil {
		return 0, fmt.Errorf("replace catalog snapshot: %w", err)
	}
	slog.Info("catalog_refreshed",
		"projects", len(projects),
		"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
	)
	return len(projects), nil
}

func (uc *CatalogUseCase) ListProjects(ctx context.Context, filter domain.ProjectFilter) ([]domain.ProjectRecord, error) {
	projects, err := uc.repo.ListProjects(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list catalog projects: %w", err)
	}
	if projects == nil {
		projects = []domain.ProjectRecord{}
	}
	return projects, nil
}

func (uc *CatalogUseCase) Export(ctx context.Context, w io.Writer) error {
	projects, err := uc.repo.ListProjects(ctx, domain.ProjectFilter{})
	if err != nil {
		return fmt.Errorf("list catalog projects: %w", err)
	}
	if err := uc.exporter.Export(ctx, w, projects); err != nil {
		return fmt.Errorf("export catalog: %w", err)
	}
	return nil
}
