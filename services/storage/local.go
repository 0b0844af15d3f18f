package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/mailpin/mailpin/interfaces"
)

// LocalStorageService implements StorageService on a local directory, one
// file per key. This is the default attachment backend: the file is a
// durable on-disk copy of the database content column.
type LocalStorageService struct {
	baseDir string
}

func NewLocalStorageService(baseDir string) (interfaces.StorageService, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create attachment directory")
	}
	return &LocalStorageService{baseDir: baseDir}, nil
}

func (s *LocalStorageService) path(key string) (string, error) {
	// Keys are server-generated ids, but never trust them as paths
	if key == "" || strings.Contains(key, "..") || strings.ContainsAny(key, `/\`) {
		return "", errors.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.baseDir, key), nil
}

func (s *LocalStorageService) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

func (s *LocalStorageService) Download(ctx context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

func (s *LocalStorageService) Delete(ctx context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	return os.Remove(p)
}

func (s *LocalStorageService) Exists(ctx context.Context, key string) (bool, error) {
	p, err := s.path(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
