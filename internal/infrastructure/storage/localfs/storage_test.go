package localfs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/kirillkom/portfolio-feed/internal/core/domain"
)

func writeFile(t *testing.T, root, rel, body string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(full, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestListAssetsMatchesGlobSorted(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "windows/IMG_0042.jpg", "a")
	writeFile(t, root, "windows/bay-window.png", "bb")
	writeFile(t, root, "exterior/deck.jpg", "c")
	if err := os.MkdirAll(filepath.Join(root, "windows", "nested"), 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	s, err := New(root)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	assets, err := s.ListAssets(context.Background(), "windows/*")
	if err != nil {
		t.Fatalf("ListAssets() error = %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("expected 2 assets (directories skipped), got %d: %+v", len(assets), assets)
	}
	if assets[0].SourceID != "windows/IMG_0042.jpg" || assets[1].SourceID != "windows/bay-window.png" {
		t.Fatalf("unexpected order: %+v", assets)
	}
	if assets[1].Handle.Size != 2 {
		t.Fatalf("expected size 2, got %d", assets[1].Handle.Size)
	}
}

func TestListAssetsNoMatches(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	assets, err := s.ListAssets(context.Background(), "windows/*")
	if err != nil {
		t.Fatalf("ListAssets() error = %v", err)
	}
	if len(assets) != 0 {
		t.Fatalf("expected no assets, got %d", len(assets))
	}
}

func TestListAssetsBadPattern(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	_, err = s.ListAssets(context.Background(), "windows/[")
	if !domain.IsKind(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestSaveCreatesDirsAndOpenReadsBack(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()
	if err := s.Save(ctx, "exterior/new-siding.jpg", bytes.NewBufferString("jpeg")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	rc, err := s.Open(ctx, "exterior/new-siding.jpg")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(raw) != "jpeg" {
		t.Fatalf("expected jpeg, got %q", raw)
	}
}

type failingReader struct {
	data []byte
	err  error
}

func (r *failingReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, r.err
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func TestSaveRejectsExistingKey(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()
	if err := s.Save(ctx, "windows/bay.jpg", bytes.NewBufferString("first")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	err = s.Save(ctx, "windows/bay.jpg", bytes.NewBufferString("second"))
	if !domain.IsKind(err, domain.ErrAssetExists) {
		t.Fatalf("expected ErrAssetExists, got %v", err)
	}

	rc, err := s.Open(ctx, "windows/bay.jpg")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(raw) != "first" {
		t.Fatalf("expected original content kept, got %q", raw)
	}
}

func TestSaveRemovesPartialFileOnWriteError(t *testing.T) {
	root := t.TempDir()
	s, err := New(root)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	body := &failingReader{data: []byte("half"), err: errors.New("connection reset")}
	if err := s.Save(ctx, "windows/broken.jpg", body); err == nil {
		t.Fatalf("expected write error")
	}
	if _, err := os.Stat(filepath.Join(root, "windows", "broken.jpg")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected partial file removed, stat err = %v", err)
	}

	if err := s.Save(ctx, "windows/broken.jpg", bytes.NewBufferString("retry")); err != nil {
		t.Fatalf("retry Save() error = %v", err)
	}
}

func TestOpenRejectsTraversalAndMissing(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := s.Open(context.Background(), "../etc/passwd"); !domain.IsKind(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for traversal, got %v", err)
	}
	if _, err := s.Open(context.Background(), "windows/missing.jpg"); !domain.IsKind(err, domain.ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound, got %v", err)
	}
}
