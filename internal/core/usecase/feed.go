package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kirillkom/portfolio-feed/internal/core/domain"
	"github.com/kirillkom/portfolio-feed/internal/core/ports"
)

const DefaultDisplaySize = 6

// CatalogLoader builds the full classified project collection from an asset source.
type CatalogLoader struct {
	source     ports.AssetSource
	classifier *Classifier
	categories []domain.Category
}

func NewCatalogLoader(source ports.AssetSource, classifier *Classifier, categories []domain.Category) *CatalogLoader {
	if classifier == nil {
		classifier = defaultClassifier
	}
	return &CatalogLoader{
		source:     source,
		classifier: classifier,
		categories: append([]domain.Category(nil), categories...),
	}
}

// Load lists and classifies every category in configured order. A source id
// claimed by an earlier category is skipped in later ones.
func (l *CatalogLoader) Load(ctx context.Context) ([]domain.ProjectRecord, error) {
	if l.source == nil {
		return nil, domain.WrapError(domain.ErrInvalidArgument, "load catalog", errors.New("asset source is nil"))
	}

	seen := make(map[string]struct{})
	projects := make([]domain.ProjectRecord, 0)
	for _, category := range l.categories {
		if category.Name == "" {
			return nil, domain.WrapError(domain.ErrInvalidArgument, "load catalog", errors.New("category name is empty"))
		}
		assets, err := l.source.ListAssets(ctx, category.Glob)
		if err != nil {
			return nil, fmt.Errorf("list assets for category %q: %w", category.Name, err)
		}
		records, err := l.classifier.Classify(assets, category.Name)
		if err != nil {
			return nil, err
		}
		for _, record := range records {
			if _, dup := seen[record.SourceID]; dup {
				slog.Debug("catalog_duplicate_asset", "source_id", record.SourceID, "category", category.Name)
				continue
			}
			seen[record.SourceID] = struct{}{}
			projects = append(projects, record)
		}
	}
	return projects, nil
}

type feedOptions struct {
	displaySize int
	classifier  *Classifier
	sampler     *Sampler
}

type FeedOption func(*feedOptions)

func WithDisplaySize(size int) FeedOption {
	return func(o *feedOptions) {
		if size > 0 {
			o.displaySize = size
		}
	}
}

func WithClassifier(c *Classifier) FeedOption {
	return func(o *feedOptions) {
		if c != nil {
			o.classifier = c
		}
	}
}

func WithSampler(s *Sampler) FeedOption {
	return func(o *feedOptions) {
		if s != nil {
			o.sampler = s
		}
	}
}

// FeedController owns one display session's project collection and the
// currently displayed sample. It does no I/O after construction and is not
// safe for concurrent use.
type FeedController struct {
	allProjects []domain.ProjectRecord
	displayed   []domain.ProjectRecord
	displaySize int
	sampler     *Sampler
}

// NewFeedController loads every category from source exactly once and draws
// the initial sample.
func NewFeedController(
	ctx context.Context,
	source ports.AssetSource,
	categories []domain.Category,
	opts ...FeedOption,
) (*FeedController, error) {
	o := applyFeedOptions(opts)
	projects, err := NewCatalogLoader(source, o.classifier, categories).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize feed: %w", err)
	}
	return newFeedController(projects, o), nil
}

// NewFeedControllerFromProjects builds a controller over an already classified collection.
func NewFeedControllerFromProjects(projects []domain.ProjectRecord, opts ...FeedOption) *FeedController {
	return newFeedController(append([]domain.ProjectRecord(nil), projects...), applyFeedOptions(opts))
}

func applyFeedOptions(opts []FeedOption) feedOptions {
	o := feedOptions{
		displaySize: DefaultDisplaySize,
		classifier:  defaultClassifier,
		sampler:     defaultSampler,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func newFeedController(projects []domain.ProjectRecord, o feedOptions) *FeedController {
	if projects == nil {
		projects = []domain.ProjectRecord{}
	}
	c := &FeedController{
		allProjects: projects,
		displaySize: o.displaySize,
		sampler:     o.sampler,
	}
	c.Reroll()
	return c
}

// Reroll draws a fresh sample from the existing collection.
func (c *FeedController) Reroll() {
	c.displayed = c.sampler.Sample(c.allProjects, c.displaySize)
}

func (c *FeedController) Displayed() []domain.ProjectRecord {
	return append([]domain.ProjectRecord{}, c.displayed...)
}

func (c *FeedController) AllProjects() []domain.ProjectRecord {
	return append([]domain.ProjectRecord{}, c.allProjects...)
}

func (c *FeedController) TotalCount() int {
	return len(c.allProjects)
}
