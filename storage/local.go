package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
)

type LocalStorage struct {
	dir        string
	publicPath string
}

func NewLocalStorage(config *Config) *LocalStorage {
	return &LocalStorage{
		dir:        config.LocalDir,
		publicPath: config.PublicPath,
	}
}

func (s *LocalStorage) Save(ctx context.Context, filename, contentType string, content io.Reader) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", err
	}
	stored := UniqueFilename(filename)
	file, err := os.Create(filepath.Join(s.dir, stored))
	if err != nil {
		return "", err
	}
	defer file.Close()

	written, err := io.Copy(file, content)
	if err != nil {
		return "", fmt.Errorf("failed to save file %s: %w", stored, err)
	}
	if written == 0 {
		os.Remove(file.Name())
		return "", fmt.Errorf("uploaded file %s is empty", filename)
	}
	return path.Join(s.publicPath, stored), nil
}

var _ Storage = (*LocalStorage)(nil)
