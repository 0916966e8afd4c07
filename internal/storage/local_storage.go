package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

type localStorage struct {
	dir string
}

// NewLocalStorage stores uploads as files under dir, creating it if needed
func NewLocalStorage(dir string) (UploadStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &localStorage{dir: dir}, nil
}

func (s *localStorage) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := objectName(filename)
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("writing upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing upload file: %w", err)
	}
	return name, nil
}

func (s *localStorage) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// refs are bare names produced by Save
	if ref == "" || ref != filepath.Base(ref) {
		return nil, ErrNotFound
	}

	f, err := os.Open(filepath.Join(s.dir, ref))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("opening upload file: %w", err)
	}
	return f, nil
}
