package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// LocalBlobStore keeps blobs as files below DataDir. Slashes in keys become
// sub-directories.
type LocalBlobStore struct {
	DataDir string
}

func NewLocalBlobStore(dataDir string) *LocalBlobStore {
	return &LocalBlobStore{DataDir: dataDir}
}

func (s *LocalBlobStore) Put(ctx context.Context, key string, data io.Reader, size int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	datapath := filepath.Join(s.DataDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(datapath), 0o755); err != nil {
		return err
	}
	file, err := os.Create(datapath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(file, data); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Get returns the blob under key. The caller closes it.
func (s *LocalBlobStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(filepath.Join(s.DataDir, filepath.FromSlash(key)))
}
