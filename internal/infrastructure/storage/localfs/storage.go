package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/kirillkom/portfolio-feed/internal/core/domain"
)

// Storage is a directory-backed asset source and object store. Keys are
// slash-separated paths relative to the base directory.
type Storage struct {
	basePath string
	fsys     fs.FS
}

func New(basePath string) (*Storage, error) {
	if basePath == "" {
		basePath = "./data/assets"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Storage{basePath: basePath, fsys: os.DirFS(basePath)}, nil
}

// ListAssets returns regular files matching glob, sorted by source id.
func (s *Storage) ListAssets(ctx context.Context, glob string) ([]domain.Asset, error) {
	matches, err := fs.Glob(s.fsys, glob)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidArgument, "list assets", fmt.Errorf("pattern %q: %w", glob, err))
	}
	sort.Strings(matches)

	assets := make([]domain.Asset, 0, len(matches))
	for _, name := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := fs.Stat(s.fsys, name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("stat asset %s: %w", name, err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		assets = append(assets, domain.Asset{
			SourceID: name,
			Handle: domain.AssetHandle{
				Key:     name,
				Size:    info.Size(),
				ModTime: info.ModTime().UTC(),
			},
		})
	}
	return assets, nil
}

func (s *Storage) Save(_ context.Context, key string, data io.Reader) error {
	target, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create asset dir: %w", err)
	}
	// Existing assets are never overwritten; a failed write leaves no file behind.
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return domain.WrapError(domain.ErrAssetExists, "save asset", fmt.Errorf("key %q", key))
		}
		return fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(f, data); err != nil {
		_ = f.Close()
		_ = os.Remove(target)
		return fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(target)
		return fmt.Errorf("close file: %w", err)
	}
	return nil
}

func (s *Storage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	target, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.WrapError(domain.ErrAssetNotFound, "open asset", err)
		}
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

func (s *Storage) resolve(key string) (string, error) {
	clean := path.Clean(key)
	if !fs.ValidPath(clean) || clean == "." {
		return "", domain.WrapError(domain.ErrInvalidArgument, "resolve asset key", fmt.Errorf("invalid key %q", key))
	}
	return filepath.Join(s.basePath, filepath.FromSlash(clean)), nil
}
