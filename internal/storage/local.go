package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalArchive stores videos on local disk. It is the default backend when
// S3 is not configured.
type LocalArchive struct {
	dir string
}

// NewLocalArchive creates a local archive rooted at dir.
// If dir is empty, a directory under os.TempDir() is used.
// The directory is created if it doesn't exist.
func NewLocalArchive(dir string) (*LocalArchive, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "ugc-videos")
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}

	return &LocalArchive{dir: dir}, nil
}

// Dir returns the archive directory path.
func (a *LocalArchive) Dir() string {
	return a.dir
}

// Store writes the data under the key and returns the file path.
// Path separators in the key are flattened so every video lands in dir.
func (a *LocalArchive) Store(ctx context.Context, key string, data io.Reader) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	name := strings.ReplaceAll(key, "/", "_")
	path := filepath.Join(a.dir, name)

	f, err := os.Create(path) // #nosec G304 - path is built from the archive dir
	if err != nil {
		return "", fmt.Errorf("create archive file: %w", err)
	}

	if _, err := io.Copy(f, data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write archive file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close archive file: %w", err)
	}

	return path, nil
}
