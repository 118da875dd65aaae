package storage

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// LocalStore implements BlobStore on a filesystem directory, one
// subdirectory per bucket.
type LocalStore struct {
	fs      afero.Fs
	baseDir string
	baseURL string
}

// NewLocalStore roots the store at baseDir on fs. Use afero.NewOsFs() in
// production and afero.NewMemMapFs() in tests.
func NewLocalStore(fs afero.Fs, baseDir, baseURL string) *LocalStore {
	return &LocalStore{
		fs:      fs,
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *LocalStore) path(bucket, objectID string) string {
	return filepath.Join(s.baseDir, filepath.Base(bucket), objectID)
}

func (s *LocalStore) Upload(_ context.Context, bucket string, data []byte, _ string) (string, error) {
	id := newObjectID()

	dir := filepath.Join(s.baseDir, filepath.Base(bucket))
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create bucket directory: %w", err)
	}
	if err := afero.WriteFile(s.fs, s.path(bucket, id), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write object: %w", err)
	}
	return id, nil
}

func (s *LocalStore) Delete(_ context.Context, bucket, objectID string) (bool, error) {
	if err := checkObjectID(objectID); err != nil {
		return false, err
	}

	err := s.fs.Remove(s.path(bucket, objectID))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete object: %w", err)
	}
	return true, nil
}

func (s *LocalStore) URL(bucket, objectID string) string {
	if objectID == "" {
		return ""
	}
	return s.baseURL + "/" + bucket + "/" + objectID
}

// FileSystem exposes stored objects for http.FileServer
func (s *LocalStore) FileSystem() http.FileSystem {
	return afero.NewHttpFs(s.fs).Dir(s.baseDir)
}
