package upload

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/viant/afs"

	"github.com/JonMunkholm/dataaudit/internal/loader"
)

// Store persists uploaded files in a working directory.
type Store struct {
	fs      afs.Service
	dir     string
	maxSize int64
}

// NewStore returns a Store rooted at dir, creating it if needed.
func NewStore(ctx context.Context, dir string, maxSize int64) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}

	fs := afs.New()
	exists, err := fs.Exists(ctx, abs)
	if err != nil {
		return nil, fmt.Errorf("check upload dir: %w", err)
	}
	if !exists {
		if err := fs.Create(ctx, abs, 0o755, true); err != nil {
			return nil, fmt.Errorf("create upload dir: %w", err)
		}
	}

	if maxSize <= 0 {
		maxSize = loader.DefaultMaxFileSize
	}
	return &Store{fs: fs, dir: abs, maxSize: maxSize}, nil
}

// Dir returns the absolute working directory.
func (s *Store) Dir() string { return s.dir }

// Save writes r to a new file named name and returns its path. Input beyond
// the size limit fails with loader.ErrFileTooLarge.
func (s *Store) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	path := filepath.Join(s.dir, name)
	limited := loader.NewLimitReader(r, s.maxSize)
	if err := s.fs.Upload(ctx, path, 0o644, limited); err != nil {
		// Upload may leave a partial file behind.
		_ = s.fs.Delete(ctx, path)
		if limited.Exceeded() {
			return "", limited.Err()
		}
		return "", fmt.Errorf("save upload: %w", err)
	}
	return path, nil
}

// Remove deletes a saved file.
func (s *Store) Remove(ctx context.Context, path string) error {
	return s.fs.Delete(ctx, path)
}
