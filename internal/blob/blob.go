// File path: internal/blob/blob.go

// Package blob holds binary template uploads and generated documents behind a
// small object-store contract so the pipeline never touches storage layout
// directly.
package blob

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/belriyad/docgen/internal/common"
)

// ErrNotFound is returned when no object exists at the requested path.
var ErrNotFound = errors.New("object not found")

// Store is the binary object store consumed by the generation pipeline.
type Store interface {
	Download(ctx context.Context, path string) ([]byte, error)
	Upload(ctx context.Context, path string, data []byte) (string, error)
	Delete(ctx context.Context, path string) error
}

// FileStore implements Store on the local filesystem under a fixed root.
type FileStore struct {
	root string
}

// NewFileStore creates the root directory if needed and returns a FileStore.
func NewFileStore(root string) (*FileStore, error) {
	trimmed := strings.TrimSpace(root)
	if trimmed == "" {
		trimmed = filepath.Join(os.TempDir(), "docgen_blobs")
	}
	if err := os.MkdirAll(trimmed, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &FileStore{root: trimmed}, nil
}

// Root returns the store's base directory.
func (f *FileStore) Root() string {
	return f.root
}

func (f *FileStore) resolve(path string) (string, error) {
	cleaned := filepath.Clean(strings.TrimSpace(path))
	if cleaned == "" || cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid blob path %q", path)
	}
	return filepath.Join(f.root, cleaned), nil
}

func (f *FileStore) Download(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := f.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("blob %s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	return data, nil
}

func (f *FileStore) Upload(ctx context.Context, path string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	full, err := f.resolve(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create blob dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}
	common.Logger().Debug("blob: stored object", "path", path, "bytes", len(data))
	return path, nil
}

// Delete removes an object. Deleting a missing object is not an error.
func (f *FileStore) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := f.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}
