package usecase

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/kirillkom/portfolio-feed/internal/core/domain"
	"github.com/kirillkom/portfolio-feed/internal/core/ports"
)

type AssetUploadUseCase struct {
	storage    ports.ObjectStorage
	queue      ports.MessageQueue
	categories []domain.Category
}

func NewAssetUploadUseCase(
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
	categories []domain.Category,
) *AssetUploadUseCase {
	return &AssetUploadUseCase{
		storage:    storage,
		queue:      queue,
		categories: append([]domain.Category(nil), categories...),
	}
}

// Upload stores a project photo under its category directory and announces it
// so the catalog snapshot can be rebuilt.
func (uc *AssetUploadUseCase) Upload(
	ctx context.Context,
	categoryName, filename string,
	body io.Reader,
) (domain.Asset, error) {
	category, ok := uc.findCategory(categoryName)
	if !ok {
		return domain.Asset{}, domain.WrapError(domain.ErrInvalidArgument, "upload asset", fmt.Errorf("unknown category %q", categoryName))
	}

	key := path.Join(globDir(category.Glob), sanitizeFilename(filename))
	if matched, err := path.Match(category.Glob, key); err != nil || !matched {
		return domain.Asset{}, domain.WrapError(
			domain.ErrInvalidArgument,
			"upload asset",
			fmt.Errorf("file %q does not match category pattern %q", key, category.Glob),
		)
	}

	reader := bufio.NewReader(body)
	if _, err := reader.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Asset{}, domain.WrapError(domain.ErrInvalidArgument, "upload asset", errors.New("empty file"))
		}
		return domain.Asset{}, fmt.Errorf("read upload body: %w", err)
	}

	if err := uc.storage.Save(ctx, key, reader); err != nil {
		return domain.Asset{}, fmt.Errorf("save to object storage: %w", err)
	}

	if err := uc.queue.PublishAssetUploaded(ctx, key); err != nil {
		return domain.Asset{}, fmt.Errorf("publish upload event: %w", err)
	}

	return domain.Asset{
		SourceID: key,
		Handle:   domain.AssetHandle{Key: key},
	}, nil
}

func (uc *AssetUploadUseCase) findCategory(name string) (domain.Category, bool) {
	name = strings.TrimSpace(name)
	for _, c := range uc.categories {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return domain.Category{}, false
}

// globDir returns the directory part of glob that precedes any pattern metacharacter.
func globDir(glob string) string {
	prefix := glob
	if idx := strings.IndexAny(glob, `*?[\`); idx >= 0 {
		prefix = glob[:idx]
	} else {
		prefix = path.Dir(glob)
		if prefix == "." {
			return ""
		}
		return prefix
	}
	idx := strings.LastIndex(prefix, "/")
	if idx < 0 {
		return ""
	}
	return prefix[:idx]
}

func sanitizeFilename(name string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." || base == "/" || base == ".." {
		return "asset.bin"
	}
	return base
}
